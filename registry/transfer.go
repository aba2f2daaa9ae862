/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/tomodakengo/kensa-sub001/codec"
	"github.com/tomodakengo/kensa-sub001/locatormodels"
)

// ImportLocators decodes a collection of pages and merges it into the index.
// Each imported page fully replaces the indexed page of the same name; a page
// imported without locators removes that page.
//
// The format is checked and the whole document decoded and validated before
// anything changes. A page whose name differs only in case from an indexed or
// imported page is rejected. Pages whose document cannot be written keep their
// previous state and are reported in the returned error.
func (r *Registry) ImportLocators(ctx context.Context, data []byte, format string) error {
	f, err := codec.ParseFormat(format)
	if err != nil {
		return err
	}
	pages, err := codec.DecodeCollection(data, f)
	if err != nil {
		return fmt.Errorf("failed to import locators: %w", err)
	}
	for _, p := range pages {
		for _, d := range p.Descriptors() {
			if err := r.checkDescriptor(d); err != nil {
				return fmt.Errorf("failed to import locator %q: %w", d.FullName(), err)
			}
		}
		if err := locatormodels.ValidatePageName(p.Name); err != nil {
			return fmt.Errorf("failed to import page %q: %w", p.Name, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range pages {
		if p.Len() == 0 {
			continue
		}
		if err := r.checkPageCase(p.Name); err != nil {
			return fmt.Errorf("failed to import page %q: %w", p.Name, err)
		}
		for _, q := range pages[:i] {
			if q.Len() > 0 && q.Name != p.Name && strings.EqualFold(q.Name, p.Name) {
				return fmt.Errorf("failed to import page %q: %w", p.Name, casingConflict(p.Name, q.Name))
			}
		}
	}
	defer r.flushCache()

	var errs []error
	for _, p := range pages {
		if p.Len() == 0 {
			if _, ok := r.pages[p.Name]; ok {
				delete(r.pages, p.Name)
				r.discard(ctx, p.Name)
			}
			continue
		}
		if err := r.persist(ctx, p); err != nil {
			r.logger.Warn("import of page rolled back", "page", p.Name, "error", err)
			errs = append(errs, fmt.Errorf("failed to import page %q: %w", p.Name, err))
			continue
		}
		r.pages[p.Name] = p
	}
	return stderrors.Join(errs...)
}

// ExportLocators serializes the whole index in the requested format.
func (r *Registry) ExportLocators(ctx context.Context, format string) ([]byte, error) {
	f, err := codec.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	pages := make([]*locatormodels.Page, 0, len(r.pages))
	for _, name := range r.sortedPageNames() {
		pages = append(pages, r.pages[name].Clone())
	}
	r.mu.RUnlock()

	return codec.EncodeCollection(pages, f)
}
