/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"strings"

	"github.com/tomodakengo/kensa-sub001/errors"
)

// Format is a collection serialization format.
type Format string

const (
	// FormatXML is the native document vocabulary.
	FormatXML Format = "xml"
	// FormatJSON is the flat page -> locator -> attributes mapping.
	FormatJSON Format = "json"
)

// PageExtension is the file extension of page documents.
const PageExtension = ".xml"

// ParseFormat resolves a format token, case-insensitively.
func ParseFormat(token string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(token))) {
	case FormatXML:
		return FormatXML, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", errors.NewUnsupportedFormatError(token)
}

// Formats lists the supported collection formats.
func Formats() []Format {
	return []Format{FormatXML, FormatJSON}
}
