/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package locatormodels

// Page is a named group of locators persisted as one document.
// Locators keep their insertion order; replacing a locator keeps its position.
type Page struct {
	Name     string
	order    []string
	locators map[string]Descriptor
}

// NewPage creates an empty page.
func NewPage(name string) *Page {
	return &Page{
		Name:     name,
		locators: make(map[string]Descriptor),
	}
}

// Len returns the number of locators on the page.
func (p *Page) Len() int {
	return len(p.order)
}

// Get returns a copy of the named locator.
func (p *Page) Get(locator string) (Descriptor, bool) {
	d, ok := p.locators[locator]
	if !ok {
		return Descriptor{}, false
	}
	return d.Clone(), true
}

// Put inserts or replaces a locator. The stored copy is owned by the page and
// its Page field is set to the page name.
func (p *Page) Put(d Descriptor) {
	if p.locators == nil {
		p.locators = make(map[string]Descriptor)
	}
	d = d.Clone()
	d.Page = p.Name
	if _, exists := p.locators[d.Name]; !exists {
		p.order = append(p.order, d.Name)
	}
	p.locators[d.Name] = d
}

// Remove deletes a locator and reports whether it was present.
func (p *Page) Remove(locator string) bool {
	if _, ok := p.locators[locator]; !ok {
		return false
	}
	delete(p.locators, locator)
	for i, name := range p.order {
		if name == locator {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return true
}

// Names returns the locator names in insertion order.
func (p *Page) Names() []string {
	names := make([]string, len(p.order))
	copy(names, p.order)
	return names
}

// Descriptors returns copies of all locators in insertion order.
func (p *Page) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.locators[name].Clone())
	}
	return out
}

// Clone returns a deep copy of the page.
func (p *Page) Clone() *Page {
	c := NewPage(p.Name)
	for _, name := range p.order {
		c.Put(p.locators[name])
	}
	return c
}
