/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/tomodakengo/kensa-sub001/codec"
	"github.com/tomodakengo/kensa-sub001/datastore"
	"github.com/tomodakengo/kensa-sub001/errors"
	"github.com/tomodakengo/kensa-sub001/locatormodels"
)

// DefaultLoadConcurrency bounds the number of page documents loaded at once.
const DefaultLoadConcurrency = 8

// Validator is an optional hook consulted before untrusted strings are accepted.
type Validator interface {
	ValidateField(field, value string) error
}

// Registry is the in-memory index of pages and their locators. Every mutation
// is persisted page by page through a datastore.PageStore.
//
// A Registry is safe for concurrent use. Mutations are serialized; reads run
// concurrently with each other.
type Registry struct {
	mu    sync.RWMutex
	store datastore.PageStore
	pages map[string]*locatormodels.Page

	logger          *slog.Logger
	validator       Validator
	cache           *gocache.Cache
	loadConcurrency int
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for skipped pages and swallowed failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithValidator installs an input validation hook.
func WithValidator(v Validator) Option {
	return func(r *Registry) {
		r.validator = v
	}
}

// WithResolveCache caches resolved selector lists for ttl. A non-positive ttl
// disables the cache.
func WithResolveCache(ttl time.Duration) Option {
	return func(r *Registry) {
		if ttl <= 0 {
			r.cache = nil
			return
		}
		r.cache = gocache.New(ttl, 2*ttl)
	}
}

// WithLoadConcurrency bounds concurrent document loads during Initialize.
func WithLoadConcurrency(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.loadConcurrency = n
		}
	}
}

// New creates an empty registry over store. Call Initialize to load the
// documents already present in the store.
func New(store datastore.PageStore, opts ...Option) *Registry {
	r := &Registry{
		store:           store,
		pages:           make(map[string]*locatormodels.Page),
		logger:          slog.New(slog.DiscardHandler),
		loadConcurrency: DefaultLoadConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadReport describes the outcome of Initialize.
type LoadReport struct {
	// Loaded lists the pages now in the index, sorted.
	Loaded []string
	// Failed maps each skipped page to the reason it was skipped.
	Failed map[string]error
}

// Err joins the per-page failures, or returns nil when every page loaded.
func (lr *LoadReport) Err() error {
	if len(lr.Failed) == 0 {
		return nil
	}
	names := make([]string, 0, len(lr.Failed))
	for name := range lr.Failed {
		names = append(names, name)
	}
	sort.Strings(names)

	errs := make([]error, 0, len(names))
	for _, name := range names {
		errs = append(errs, fmt.Errorf("page %q: %w", name, lr.Failed[name]))
	}
	return stderrors.Join(errs...)
}

type loadResult struct {
	page *locatormodels.Page
	err  error
}

// Initialize replaces the index with the pages found in the store.
//
// Documents are loaded concurrently. A page whose document cannot be read or
// decoded is logged, recorded in the report and skipped; a document that
// disappeared after listing is skipped silently. Only a failure to list the
// store fails Initialize.
func (r *Registry) Initialize(ctx context.Context) (*LoadReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list page documents: %w", err)
	}

	results := make([]loadResult, len(names))
	var g errgroup.Group
	g.SetLimit(r.loadConcurrency)
	for i, name := range names {
		g.Go(func() error {
			results[i] = r.loadPage(ctx, name)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &LoadReport{Failed: make(map[string]error)}
	pages := make(map[string]*locatormodels.Page, len(names))
	for i, name := range names {
		res := results[i]
		switch {
		case res.err != nil && errors.IsNotFound(res.err):
			r.logger.Debug("page document vanished before load", "page", name)
		case res.err != nil:
			r.logger.Warn("skipping page document", "page", name, "error", res.err)
			report.Failed[name] = res.err
		case res.page.Len() == 0:
			r.logger.Debug("skipping empty page document", "page", name)
		default:
			pages[name] = res.page
			report.Loaded = append(report.Loaded, name)
		}
	}
	sort.Strings(report.Loaded)

	r.pages = pages
	r.flushCache()
	r.logger.Info("locator registry initialized", "pages", len(report.Loaded), "failed", len(report.Failed))
	return report, nil
}

func (r *Registry) loadPage(ctx context.Context, name string) loadResult {
	if err := locatormodels.ValidatePageName(name); err != nil {
		return loadResult{err: err}
	}
	data, err := r.store.Load(ctx, name)
	if err != nil {
		return loadResult{err: err}
	}
	page, err := codec.DecodePage(name, data)
	if err != nil {
		return loadResult{err: err}
	}
	return loadResult{page: page}
}

// persist encodes page and writes it through the store.
func (r *Registry) persist(ctx context.Context, page *locatormodels.Page) error {
	data, err := codec.EncodePage(page)
	if err != nil {
		return fmt.Errorf("failed to encode page %q: %w", page.Name, err)
	}
	return r.store.Save(ctx, page.Name, data)
}

// discard removes a page document. The page is already gone from the index, so
// failures are only logged.
func (r *Registry) discard(ctx context.Context, name string) {
	err := r.store.Delete(ctx, name)
	switch {
	case err == nil:
	case errors.IsNotFound(err):
		r.logger.Debug("page document already absent", "page", name)
	default:
		r.logger.Warn("failed to delete page document", "page", name, "error", err)
	}
}

func (r *Registry) flushCache() {
	if r.cache != nil {
		r.cache.Flush()
	}
}

func (r *Registry) invalidate(fullName string) {
	if r.cache != nil {
		r.cache.Delete(fullName)
	}
}

func (r *Registry) sortedPageNames() []string {
	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkPageCase rejects a new page whose name differs from an indexed page
// only in case. Both would map to one document on case-insensitive
// filesystems.
func (r *Registry) checkPageCase(name string) error {
	if _, ok := r.pages[name]; ok {
		return nil
	}
	for existing := range r.pages {
		if strings.EqualFold(existing, name) {
			return casingConflict(name, existing)
		}
	}
	return nil
}

func casingConflict(name, existing string) error {
	return errors.NewValidationError("pageName",
		fmt.Sprintf("%q differs only in case from page %q", name, existing))
}
