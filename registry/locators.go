/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"context"
	"fmt"

	"github.com/tomodakengo/kensa-sub001/errors"
	"github.com/tomodakengo/kensa-sub001/locatormodels"
)

// SaveLocator inserts or replaces the locator at (page, locator), creating the
// page if needed, and persists that page.
//
// The index only changes once the page document has been written. On a write
// failure the previous state is kept and the store error is returned.
func (r *Registry) SaveLocator(ctx context.Context, page, locator string, attrs locatormodels.Attributes, strategies []locatormodels.Strategy) (locatormodels.Key, error) {
	d := locatormodels.Descriptor{
		Page:       page,
		Name:       locator,
		Attributes: attrs,
		Strategies: strategies,
	}
	if err := r.checkDescriptor(d); err != nil {
		return locatormodels.Key{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkPageCase(page); err != nil {
		return locatormodels.Key{}, err
	}

	next := locatormodels.NewPage(page)
	if prev, ok := r.pages[page]; ok {
		next = prev.Clone()
	}
	next.Put(d)

	if err := r.persist(ctx, next); err != nil {
		r.logger.Warn("save rolled back", "page", page, "locator", locator, "error", err)
		return locatormodels.Key{}, fmt.Errorf("failed to save locator %q: %w", d.FullName(), err)
	}

	r.pages[page] = next
	r.invalidate(d.FullName())
	return d.Key(), nil
}

// DeleteLocator removes the locator named by fullName.
//
// An unknown page is reported as NotFound; an unknown locator on a known page
// is a no-op. Removing the last locator drops the page and deletes its
// document, ignoring delete failures. Otherwise the page is re-persisted and a
// write failure leaves the index unchanged.
func (r *Registry) DeleteLocator(ctx context.Context, fullName string) error {
	key, err := locatormodels.ParseFullName(fullName)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.pages[key.Page]
	if !ok {
		return errors.NewNotFoundError("page", key.Page)
	}
	if _, ok := prev.Get(key.Locator); !ok {
		return nil
	}

	next := prev.Clone()
	next.Remove(key.Locator)

	if next.Len() == 0 {
		delete(r.pages, key.Page)
		r.invalidate(fullName)
		r.discard(ctx, key.Page)
		return nil
	}

	if err := r.persist(ctx, next); err != nil {
		r.logger.Warn("delete rolled back", "page", key.Page, "locator", key.Locator, "error", err)
		return fmt.Errorf("failed to delete locator %q: %w", fullName, err)
	}

	r.pages[key.Page] = next
	r.invalidate(fullName)
	return nil
}

// GetLocator returns the descriptor named by fullName.
func (r *Registry) GetLocator(fullName string) (locatormodels.Descriptor, bool) {
	key, err := locatormodels.ParseFullName(fullName)
	if err != nil {
		return locatormodels.Descriptor{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(key)
}

// GetAllLocators returns every descriptor, ordered by page name and then by
// insertion order within the page.
func (r *Registry) GetAllLocators() []locatormodels.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []locatormodels.Descriptor
	for _, name := range r.sortedPageNames() {
		all = append(all, r.pages[name].Descriptors()...)
	}
	return all
}

// Pages returns the names of all indexed pages, sorted.
func (r *Registry) Pages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedPageNames()
}

func (r *Registry) lookup(key locatormodels.Key) (locatormodels.Descriptor, bool) {
	page, ok := r.pages[key.Page]
	if !ok {
		return locatormodels.Descriptor{}, false
	}
	return page.Get(key.Locator)
}

// checkDescriptor enforces naming and encoding rules and, when configured, the
// validator hook.
func (r *Registry) checkDescriptor(d locatormodels.Descriptor) error {
	if err := locatormodels.ValidatePageName(d.Page); err != nil {
		return err
	}
	if err := locatormodels.ValidateLocatorName(d.Name); err != nil {
		return err
	}
	if err := locatormodels.ValidateAttributes(d.Attributes); err != nil {
		return err
	}
	for _, s := range d.Strategies {
		if err := locatormodels.ValidateStrategy(s); err != nil {
			return err
		}
	}
	if r.validator == nil {
		return nil
	}

	fields := []struct{ name, value string }{
		{"pageName", d.Page},
		{"locatorName", d.Name},
		{"automationId", d.Attributes.AutomationID},
		{"name", d.Attributes.Name},
		{"className", d.Attributes.ClassName},
		{"controlType", d.Attributes.ControlType},
		{"description", d.Attributes.Description},
	}
	for _, s := range d.Strategies {
		fields = append(fields,
			struct{ name, value string }{"strategy.type", s.Type},
			struct{ name, value string }{"strategy.value", s.Value},
		)
	}
	for _, f := range fields {
		if err := r.validator.ValidateField(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}
