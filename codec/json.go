/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tomodakengo/kensa-sub001/errors"
	"github.com/tomodakengo/kensa-sub001/locatormodels"
)

type jsonLocator struct {
	AutomationID string         `json:"automationId,omitempty"`
	Name         string         `json:"name,omitempty"`
	ClassName    string         `json:"className,omitempty"`
	ControlType  string         `json:"controlType,omitempty"`
	Description  string         `json:"description,omitempty"`
	Strategies   []jsonStrategy `json:"strategies,omitempty"`
}

type jsonStrategy struct {
	Type     string       `json:"type"`
	Value    string       `json:"value"`
	Priority jsonPriority `json:"priority"`
}

// jsonPriority accepts a number or a numeric string. Anything else reads as 0.
type jsonPriority int

func (p *jsonPriority) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	*p = jsonPriority(parsePriority(raw))
	return nil
}

func encodeJSONCollection(pages []*locatormodels.Page) ([]byte, error) {
	flat := make(map[string]map[string]jsonLocator, len(pages))
	for _, p := range pages {
		locators := make(map[string]jsonLocator, p.Len())
		for _, d := range p.Descriptors() {
			jl := jsonLocator{
				AutomationID: d.Attributes.AutomationID,
				Name:         d.Attributes.Name,
				ClassName:    d.Attributes.ClassName,
				ControlType:  d.Attributes.ControlType,
				Description:  d.Attributes.Description,
			}
			for _, s := range d.Strategies {
				jl.Strategies = append(jl.Strategies, jsonStrategy{
					Type:     s.Type,
					Value:    s.Value,
					Priority: jsonPriority(s.Priority),
				})
			}
			locators[d.Name] = jl
		}
		flat[p.Name] = locators
	}

	out, err := json.MarshalIndent(flat, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal flat locators: %w", err)
	}
	return append(out, '\n'), nil
}

// decodeJSONCollection returns pages sorted by name, with locators sorted by
// name, since the flat format carries no ordering.
func decodeJSONCollection(data []byte) ([]*locatormodels.Page, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var flat map[string]map[string]jsonLocator
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, errors.NewMalformedDocumentError("", err)
	}

	names := make([]string, 0, len(flat))
	for name := range flat {
		names = append(names, name)
	}
	sort.Strings(names)

	pages := make([]*locatormodels.Page, 0, len(names))
	for _, name := range names {
		if name == "" {
			return nil, errors.NewMalformedDocumentError("", fmt.Errorf("page entry has no name"))
		}
		page := locatormodels.NewPage(name)

		locatorNames := make([]string, 0, len(flat[name]))
		for ln := range flat[name] {
			locatorNames = append(locatorNames, ln)
		}
		sort.Strings(locatorNames)

		for _, ln := range locatorNames {
			if ln == "" {
				return nil, errors.NewMalformedDocumentError("",
					fmt.Errorf("locator entry of page %q has no name", name))
			}
			jl := flat[name][ln]
			d := locatormodels.Descriptor{
				Name: ln,
				Attributes: locatormodels.Attributes{
					AutomationID: jl.AutomationID,
					Name:         jl.Name,
					ClassName:    jl.ClassName,
					ControlType:  jl.ControlType,
					Description:  jl.Description,
				},
			}
			for _, js := range jl.Strategies {
				d.Strategies = append(d.Strategies, locatormodels.Strategy{
					Type:     js.Type,
					Value:    js.Value,
					Priority: int(js.Priority),
				})
			}
			page.Put(d)
		}
		pages = append(pages, page)
	}
	return pages, nil
}
