/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package validate checks and cleans untrusted strings before they reach the
// locator registry.
package validate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/strfmt"

	"github.com/tomodakengo/kensa-sub001/errors"
)

// Supported values for Rules.Format.
const (
	FormatJSON  = "json"
	FormatEmail = "email"
	FormatURI   = "uri"
)

// Rules selects the checks applied by Validate.
type Rules struct {
	Required        bool
	MaxLength       int
	NoSQL           bool
	NoScript        bool
	NoPathTraversal bool
	Format          string
}

// Result reports the outcome of Validate.
type Result struct {
	OK     bool
	Errors []string
}

var (
	sqlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bunion\s+(all\s+)?select\b|\b(drop|alter|truncate)\s+table\b|\binsert\s+into\b|\bdelete\s+from\b`),
		regexp.MustCompile(`(?i)'\s*or\s+'?\d+'?\s*=\s*'?\d+`),
		regexp.MustCompile(`(?i)--\s|;\s*(drop|delete|insert|update|select)\b`),
	}
	scriptPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<\s*/?\s*(script|iframe|object|embed)\b`),
		regexp.MustCompile(`(?i)\bjavascript\s*:`),
		regexp.MustCompile(`(?i)\bon[a-z]+\s*=`),
	}
	traversalPattern = regexp.MustCompile(`(^|[\\/])\.\.([\\/]|$)|%2e%2e`)
)

// Validate applies rules to input.
func Validate(input string, rules Rules) Result {
	var problems []string

	if rules.Required && strings.TrimSpace(input) == "" {
		problems = append(problems, "value is required")
	}
	if rules.MaxLength > 0 && utf8.RuneCountInString(input) > rules.MaxLength {
		problems = append(problems, fmt.Sprintf("value exceeds %d characters", rules.MaxLength))
	}
	if rules.NoSQL && matchesAny(sqlPatterns, input) {
		problems = append(problems, "value contains SQL-like tokens")
	}
	if rules.NoScript && matchesAny(scriptPatterns, input) {
		problems = append(problems, "value contains script-like tokens")
	}
	if rules.NoPathTraversal && traversalPattern.MatchString(strings.ToLower(input)) {
		problems = append(problems, "value contains path traversal")
	}
	if input != "" && rules.Format != "" {
		if msg := checkFormat(input, rules.Format); msg != "" {
			problems = append(problems, msg)
		}
	}

	return Result{OK: len(problems) == 0, Errors: problems}
}

// Sanitize trims surrounding whitespace, drops control characters and
// escapes HTML metacharacters.
func Sanitize(input string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(input))

	return htmlEscaper.Replace(cleaned)
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&#34;",
	"'", "&#39;",
)

func checkFormat(input, format string) string {
	switch format {
	case FormatJSON:
		if !json.Valid([]byte(input)) {
			return "value is not valid JSON"
		}
	case FormatEmail, FormatURI:
		if !strfmt.Default.Validates(format, input) {
			return fmt.Sprintf("value is not a valid %s", format)
		}
	default:
		return fmt.Sprintf("unknown format %q", format)
	}
	return ""
}

func matchesAny(patterns []*regexp.Regexp, input string) bool {
	for _, p := range patterns {
		if p.MatchString(input) {
			return true
		}
	}
	return false
}

// Hook applies Rules to the fields the registry accepts. Fields without
// their own rules use the hook's base rules.
type Hook struct {
	rules  Rules
	fields map[string]Rules
}

// NewHook returns a registry validator applying rules.
func NewHook(rules Rules) *Hook {
	return &Hook{rules: rules, fields: make(map[string]Rules)}
}

// WithFieldRules overrides the rules used for one field.
func (h *Hook) WithFieldRules(field string, rules Rules) *Hook {
	h.fields[field] = rules
	return h
}

// ValidateField implements registry.Validator.
func (h *Hook) ValidateField(field, value string) error {
	rules, ok := h.fields[field]
	if !ok {
		rules = h.rules
	}
	res := Validate(value, rules)
	if res.OK {
		return nil
	}
	return errors.NewValidationError(field, strings.Join(res.Errors, "; "))
}

// DefaultRules are the checks applied to locator input by default.
func DefaultRules() Rules {
	return Rules{
		MaxLength:       1024,
		NoSQL:           true,
		NoScript:        true,
		NoPathTraversal: true,
	}
}

// DefaultHook applies DefaultRules everywhere except strategy values, where
// xpath parent steps ("..") are legitimate.
func DefaultHook() *Hook {
	strategyRules := DefaultRules()
	strategyRules.NoPathTraversal = false
	return NewHook(DefaultRules()).WithFieldRules("strategy.value", strategyRules)
}
