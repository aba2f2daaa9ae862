/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"sort"

	"github.com/tomodakengo/kensa-sub001/locatormodels"
)

// Priorities of the selectors derived from identity attributes.
const (
	AutomationIDPriority = 1
	NamePriority         = 2
	ClassNamePriority    = 3
)

// ResolveSelectors returns the ordered list of selectors to try for fullName.
//
// Selectors derived from non-empty automationId, name and className come
// first, followed by the explicit strategies; the combined list is then
// stable-sorted by priority alone.
func (r *Registry) ResolveSelectors(fullName string) ([]locatormodels.Strategy, bool) {
	key, err := locatormodels.ParseFullName(fullName)
	if err != nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.cache != nil {
		if cached, ok := r.cache.Get(fullName); ok {
			if selectors, ok := cached.([]locatormodels.Strategy); ok {
				return copySelectors(selectors), true
			}
		}
	}

	d, ok := r.lookup(key)
	if !ok {
		return nil, false
	}
	selectors := Resolve(d)

	// Held under the read lock so a concurrent mutation cannot invalidate
	// before this entry is stored.
	if r.cache != nil {
		r.cache.SetDefault(fullName, copySelectors(selectors))
	}
	return selectors, true
}

// Resolve builds the priority-ordered selectors of a descriptor.
func Resolve(d locatormodels.Descriptor) []locatormodels.Strategy {
	selectors := make([]locatormodels.Strategy, 0, 3+len(d.Strategies))

	if d.Attributes.AutomationID != "" {
		selectors = append(selectors, locatormodels.Strategy{
			Type:     locatormodels.StrategyAutomationID,
			Value:    d.Attributes.AutomationID,
			Priority: AutomationIDPriority,
		})
	}
	if d.Attributes.Name != "" {
		selectors = append(selectors, locatormodels.Strategy{
			Type:     locatormodels.StrategyName,
			Value:    d.Attributes.Name,
			Priority: NamePriority,
		})
	}
	if d.Attributes.ClassName != "" {
		selectors = append(selectors, locatormodels.Strategy{
			Type:     locatormodels.StrategyClassName,
			Value:    d.Attributes.ClassName,
			Priority: ClassNamePriority,
		})
	}
	selectors = append(selectors, d.Strategies...)

	sort.SliceStable(selectors, func(i, j int) bool {
		return selectors[i].Priority < selectors[j].Priority
	})
	return selectors
}

func copySelectors(in []locatormodels.Strategy) []locatormodels.Strategy {
	out := make([]locatormodels.Strategy, len(in))
	copy(out, in)
	return out
}
