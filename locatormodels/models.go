/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package locatormodels

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tomodakengo/kensa-sub001/errors"
)

// Separator joins a page name and a locator name into a full name.
const Separator = "."

// Well-known strategy types derived from descriptor attributes.
const (
	StrategyAutomationID = "automationId"
	StrategyName         = "name"
	StrategyClassName    = "className"
)

// Strategy is one rule for locating a UI element.
type Strategy struct {
	// Type names the lookup mechanism, e.g. "automationId", "xpath" or a custom kind.
	Type string `json:"type" yaml:"type"`
	// Value is the literal matched against the element.
	Value string `json:"value" yaml:"value"`
	// Priority orders strategies during resolution; lower is tried first.
	Priority int `json:"priority" yaml:"priority"`
}

// Attributes holds the identity attributes of a UI element. All are optional.
type Attributes struct {
	AutomationID string `json:"automationId,omitempty" yaml:"automationId,omitempty"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	ClassName    string `json:"className,omitempty" yaml:"className,omitempty"`
	ControlType  string `json:"controlType,omitempty" yaml:"controlType,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Descriptor is a named UI element locator belonging to exactly one page.
type Descriptor struct {
	Page       string     `json:"page" yaml:"page"`
	Name       string     `json:"locator" yaml:"locator"`
	Attributes Attributes `json:"attributes" yaml:"attributes"`
	Strategies []Strategy `json:"strategies" yaml:"strategies"`
}

// FullName returns the registry-wide key of the descriptor.
func (d Descriptor) FullName() string {
	return FullName(d.Page, d.Name)
}

// Key returns the (page, locator) identity of the descriptor.
func (d Descriptor) Key() Key {
	return Key{Page: d.Page, Locator: d.Name}
}

// Clone returns a deep copy of the descriptor. An empty strategy list is
// normalized to nil.
func (d Descriptor) Clone() Descriptor {
	c := d
	c.Strategies = nil
	if len(d.Strategies) > 0 {
		c.Strategies = make([]Strategy, len(d.Strategies))
		copy(c.Strategies, d.Strategies)
	}
	return c
}

// Key identifies a descriptor across the whole registry.
type Key struct {
	Page    string
	Locator string
}

func (k Key) String() string {
	return FullName(k.Page, k.Locator)
}

// FullName joins a page name and a locator name.
func FullName(page, locator string) string {
	return page + Separator + locator
}

// ParseFullName splits a full name on the first separator.
func ParseFullName(fullName string) (Key, error) {
	page, locator, ok := strings.Cut(fullName, Separator)
	if !ok || page == "" || locator == "" {
		return Key{}, errors.NewValidationError("fullName",
			"must be of the form <page>"+Separator+"<locator>, got "+strconv.Quote(fullName))
	}
	return Key{Page: page, Locator: locator}, nil
}

// ValidatePageName checks that a page name can be used both as the prefix of a
// full name and as the name of its backing document.
func ValidatePageName(name string) error {
	switch {
	case name == "":
		return errors.NewValidationError("pageName", "must not be empty")
	case strings.Contains(name, Separator):
		return errors.NewValidationError("pageName", "must not contain "+strconv.Quote(Separator))
	case strings.ContainsAny(name, `/\`):
		return errors.NewValidationError("pageName", "must not contain path separators")
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return errors.NewValidationError("pageName", "must not contain control characters")
	}
	return ValidateText("pageName", name)
}

// ValidateLocatorName checks a locator name. The separator is allowed because
// full names are split on its first occurrence.
func ValidateLocatorName(name string) error {
	switch {
	case name == "":
		return errors.NewValidationError("locatorName", "must not be empty")
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return errors.NewValidationError("locatorName", "must not contain control characters")
	}
	return ValidateText("locatorName", name)
}

// ValidateStrategy checks that a strategy has a type and a non-negative
// priority, and that both its type and value can be stored.
func ValidateStrategy(s Strategy) error {
	if s.Type == "" {
		return errors.NewValidationError("strategy.type", "must not be empty")
	}
	if s.Priority < 0 {
		return errors.NewValidationError("strategy.priority", "must not be negative, got "+strconv.Itoa(s.Priority))
	}
	if err := ValidateText("strategy.type", s.Type); err != nil {
		return err
	}
	return ValidateText("strategy.value", s.Value)
}

// ValidateAttributes checks that every attribute value can be stored.
func ValidateAttributes(a Attributes) error {
	fields := []struct{ name, value string }{
		{"automationId", a.AutomationID},
		{"name", a.Name},
		{"className", a.ClassName},
		{"controlType", a.ControlType},
		{"description", a.Description},
	}
	for _, f := range fields {
		if err := ValidateText(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// ValidateText checks that value is valid UTF-8 made only of characters an
// XML document can carry. Page documents would otherwise store a replacement
// character in place of the original input.
func ValidateText(field, value string) error {
	if !utf8.ValidString(value) {
		return errors.NewValidationError(field, "must be valid UTF-8")
	}
	if i := strings.IndexFunc(value, func(r rune) bool { return !isXMLChar(r) }); i >= 0 {
		r, _ := utf8.DecodeRuneInString(value[i:])
		return errors.NewValidationError(field, fmt.Sprintf("must not contain %U", r))
	}
	return nil
}

// isXMLChar reports whether r is in the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= unicode.MaxRune:
		return true
	}
	return false
}
