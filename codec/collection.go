/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"github.com/tomodakengo/kensa-sub001/errors"
	"github.com/tomodakengo/kensa-sub001/locatormodels"
)

// EncodeCollection serializes a set of pages in the given format.
// Output is deterministic: pages are ordered by name.
func EncodeCollection(pages []*locatormodels.Page, format Format) ([]byte, error) {
	switch format {
	case FormatXML:
		return encodeXMLCollection(pages)
	case FormatJSON:
		return encodeJSONCollection(pages)
	}
	return nil, errors.NewUnsupportedFormatError(string(format))
}

// DecodeCollection parses a set of pages from the given format. A blank
// document decodes to no pages.
func DecodeCollection(data []byte, format Format) ([]*locatormodels.Page, error) {
	switch format {
	case FormatXML:
		return decodeXMLCollection(data)
	case FormatJSON:
		return decodeJSONCollection(data)
	}
	return nil, errors.NewUnsupportedFormatError(string(format))
}
