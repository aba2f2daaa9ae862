/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tomodakengo/kensa-sub001/errors"
	"github.com/tomodakengo/kensa-sub001/locatormodels"
)

const rootElement = "locators"

type xmlDocument struct {
	XMLName xml.Name
	Pages   []xmlPage `xml:"page"`
}

type xmlPage struct {
	Name     string       `xml:"name,attr"`
	Locators []xmlLocator `xml:"locator"`
}

type xmlLocator struct {
	Name         string        `xml:"name,attr"`
	AutomationID string        `xml:"automationId,attr,omitempty"`
	ElementName  string        `xml:"elementName,attr,omitempty"`
	ClassName    string        `xml:"className,attr,omitempty"`
	ControlType  string        `xml:"controlType,attr,omitempty"`
	Description  string        `xml:"description,attr,omitempty"`
	Strategies   []xmlStrategy `xml:"strategy"`
}

type xmlStrategy struct {
	Type     string `xml:"type,attr"`
	Value    string `xml:"value,attr"`
	Priority string `xml:"priority,attr"`
}

// EncodePage produces the page-scoped document for p.
func EncodePage(p *locatormodels.Page) ([]byte, error) {
	return marshalXML(xmlDocument{Pages: []xmlPage{toXMLPage(p)}})
}

// DecodePage parses a page document into a page called name.
//
// An empty document, a root other than <locators>, or a container without
// page entries all decode to an empty page. Only XML syntax errors fail.
func DecodePage(name string, data []byte) (*locatormodels.Page, error) {
	page := locatormodels.NewPage(name)

	doc, err := unmarshalXML(data)
	if err != nil {
		return nil, errors.NewMalformedDocumentError(name, err)
	}
	if doc == nil || doc.XMLName.Local != rootElement {
		return page, nil
	}

	for _, xp := range doc.Pages {
		for _, xl := range xp.Locators {
			if xl.Name == "" {
				continue
			}
			page.Put(fromXMLLocator(xl))
		}
	}
	return page, nil
}

func encodeXMLCollection(pages []*locatormodels.Page) ([]byte, error) {
	sorted := sortedPages(pages)
	doc := xmlDocument{Pages: make([]xmlPage, 0, len(sorted))}
	for _, p := range sorted {
		doc.Pages = append(doc.Pages, toXMLPage(p))
	}
	return marshalXML(doc)
}

func decodeXMLCollection(data []byte) ([]*locatormodels.Page, error) {
	doc, err := unmarshalXML(data)
	if err != nil {
		return nil, errors.NewMalformedDocumentError("", err)
	}
	if doc == nil {
		return nil, nil
	}
	if doc.XMLName.Local != rootElement {
		return nil, errors.NewMalformedDocumentError("",
			fmt.Errorf("root element <%s> is not <%s>", doc.XMLName.Local, rootElement))
	}

	var pages []*locatormodels.Page
	index := make(map[string]*locatormodels.Page)
	for i, xp := range doc.Pages {
		if xp.Name == "" {
			return nil, errors.NewMalformedDocumentError("", fmt.Errorf("page entry %d has no name", i))
		}
		page, ok := index[xp.Name]
		if !ok {
			page = locatormodels.NewPage(xp.Name)
			index[xp.Name] = page
			pages = append(pages, page)
		}
		for j, xl := range xp.Locators {
			if xl.Name == "" {
				return nil, errors.NewMalformedDocumentError("",
					fmt.Errorf("locator entry %d of page %q has no name", j, xp.Name))
			}
			page.Put(fromXMLLocator(xl))
		}
	}
	return pages, nil
}

// unmarshalXML returns a nil document when data is blank. The root element is
// left for the caller to check.
func unmarshalXML(data []byte) (*xmlDocument, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func marshalXML(doc xmlDocument) ([]byte, error) {
	doc.XMLName = xml.Name{Local: rootElement}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal locators document: %w", err)
	}
	buf := make([]byte, 0, len(xml.Header)+len(out)+1)
	buf = append(buf, xml.Header...)
	buf = append(buf, out...)
	buf = append(buf, '\n')
	return buf, nil
}

func toXMLPage(p *locatormodels.Page) xmlPage {
	xp := xmlPage{Name: p.Name}
	for _, d := range p.Descriptors() {
		xl := xmlLocator{
			Name:         d.Name,
			AutomationID: d.Attributes.AutomationID,
			ElementName:  d.Attributes.Name,
			ClassName:    d.Attributes.ClassName,
			ControlType:  d.Attributes.ControlType,
			Description:  d.Attributes.Description,
		}
		for _, s := range d.Strategies {
			xl.Strategies = append(xl.Strategies, xmlStrategy{
				Type:     s.Type,
				Value:    s.Value,
				Priority: strconv.Itoa(s.Priority),
			})
		}
		xp.Locators = append(xp.Locators, xl)
	}
	return xp
}

func fromXMLLocator(xl xmlLocator) locatormodels.Descriptor {
	d := locatormodels.Descriptor{
		Name: xl.Name,
		Attributes: locatormodels.Attributes{
			AutomationID: xl.AutomationID,
			Name:         xl.ElementName,
			ClassName:    xl.ClassName,
			ControlType:  xl.ControlType,
			Description:  xl.Description,
		},
	}
	for _, xs := range xl.Strategies {
		d.Strategies = append(d.Strategies, locatormodels.Strategy{
			Type:     xs.Type,
			Value:    xs.Value,
			Priority: parsePriority(xs.Priority),
		})
	}
	return d
}

// parsePriority returns 0 for missing, unparseable or negative values.
func parsePriority(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func sortedPages(pages []*locatormodels.Page) []*locatormodels.Page {
	sorted := make([]*locatormodels.Page, len(pages))
	copy(sorted, pages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}
