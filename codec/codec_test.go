/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/tomodakengo/kensa-sub001/errors"
	"github.com/tomodakengo/kensa-sub001/locatormodels"
)

func loginPage() *locatormodels.Page {
	p := locatormodels.NewPage("Login")
	p.Put(locatormodels.Descriptor{
		Name: "submit",
		Attributes: locatormodels.Attributes{
			AutomationID: "btnSubmit",
			Name:         "Submit",
			ClassName:    "Button",
			ControlType:  "Button",
			Description:  `Primary "submit" <button> & more`,
		},
		Strategies: []locatormodels.Strategy{
			{Type: "css", Value: ".primary", Priority: 5},
			{Type: "xpath", Value: "//Button[@Name='Submit']", Priority: 0},
		},
	})
	p.Put(locatormodels.Descriptor{Name: "user"})
	return p
}

func TestEncodePage(t *testing.T) {
	data, err := EncodePage(loginPage())
	require.NoError(t, err)

	doc := string(data)
	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, doc, `<page name="Login">`)
	assert.Contains(t, doc, `elementName="Submit"`)
	assert.Contains(t, doc, `priority="5"`)

	// Strategies keep stored order, not priority order.
	assert.Less(t, strings.Index(doc, `type="css"`), strings.Index(doc, `type="xpath"`))
	// Locators keep insertion order.
	assert.Less(t, strings.Index(doc, `name="submit"`), strings.Index(doc, `name="user"`))
	// Empty attributes are omitted.
	assert.NotContains(t, doc, `automationId=""`)
}

func TestEncodePageDeterministic(t *testing.T) {
	first, err := EncodePage(loginPage())
	require.NoError(t, err)
	second, err := EncodePage(loginPage())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecodePage(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		locators  []string
		malformed bool
	}{
		{name: "empty", input: "", locators: []string{}},
		{name: "whitespace", input: "  \n\t", locators: []string{}},
		{name: "empty container", input: `<locators/>`, locators: []string{}},
		{name: "other root", input: `<settings><page name="x"><locator name="a"/></page></settings>`, locators: []string{}},
		{name: "page without locators", input: `<locators><page name="Login"/></locators>`, locators: []string{}},
		{
			name:     "unnamed locator dropped",
			input:    `<locators><page name="Login"><locator automationId="x"/><locator name="ok"/></page></locators>`,
			locators: []string{"ok"},
		},
		{
			name:     "several page entries are merged",
			input:    `<locators><page name="Login"><locator name="a"/></page><page><locator name="b"/></page></locators>`,
			locators: []string{"a", "b"},
		},
		{name: "syntax error", input: `<locators><page name="Login">`, malformed: true},
		{name: "not xml", input: `{"Login": {}}`, malformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := DecodePage("Login", []byte(tt.input))
			if tt.malformed {
				require.Error(t, err)
				assert.True(t, errors.IsMalformedDocument(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Login", page.Name)
			assert.Equal(t, tt.locators, page.Names())
		})
	}
}

func TestDecodePagePriorities(t *testing.T) {
	input := `<locators><page name="P"><locator name="l">
		<strategy type="a" value="1" priority="3"/>
		<strategy type="b" value="2"/>
		<strategy type="c" value="3" priority="high"/>
		<strategy type="d" value="4" priority="-2"/>
		<strategy type="e" value="5" priority=" 7 "/>
	</locator></page></locators>`

	page, err := DecodePage("P", []byte(input))
	require.NoError(t, err)

	d, ok := page.Get("l")
	require.True(t, ok)
	assert.Equal(t, []locatormodels.Strategy{
		{Type: "a", Value: "1", Priority: 3},
		{Type: "b", Value: "2", Priority: 0},
		{Type: "c", Value: "3", Priority: 0},
		{Type: "d", Value: "4", Priority: 0},
		{Type: "e", Value: "5", Priority: 7},
	}, d.Strategies)
}

func TestPageRoundTrip(t *testing.T) {
	original := loginPage()
	data, err := EncodePage(original)
	require.NoError(t, err)

	decoded, err := DecodePage(original.Name, data)
	require.NoError(t, err)
	assert.Equal(t, original.Descriptors(), decoded.Descriptors())
}

func TestParseFormat(t *testing.T) {
	for _, token := range []string{"xml", "XML", " json "} {
		_, err := ParseFormat(token)
		assert.NoError(t, err, token)
	}
	for _, token := range []string{"yaml", "", "csv"} {
		_, err := ParseFormat(token)
		assert.True(t, errors.IsUnsupportedFormat(err), token)
	}
}

func TestCollectionUnsupportedFormat(t *testing.T) {
	_, err := EncodeCollection(nil, Format("yaml"))
	assert.True(t, errors.IsUnsupportedFormat(err))

	_, err = DecodeCollection([]byte("a: b"), Format("yaml"))
	assert.True(t, errors.IsUnsupportedFormat(err))
}

func TestXMLCollection(t *testing.T) {
	home := locatormodels.NewPage("Home")
	home.Put(locatormodels.Descriptor{Name: "logo", Attributes: locatormodels.Attributes{ClassName: "Image"}})

	data, err := EncodeCollection([]*locatormodels.Page{loginPage(), home}, FormatXML)
	require.NoError(t, err)

	// Pages are ordered by name.
	doc := string(data)
	assert.Less(t, strings.Index(doc, `<page name="Home">`), strings.Index(doc, `<page name="Login">`))

	pages, err := DecodeCollection(data, FormatXML)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "Home", pages[0].Name)
	assert.Equal(t, home.Descriptors(), pages[0].Descriptors())
	assert.Equal(t, loginPage().Descriptors(), pages[1].Descriptors())
}

func TestXMLCollectionRejectsUnnamedEntries(t *testing.T) {
	_, err := DecodeCollection([]byte(`<locators><page><locator name="a"/></page></locators>`), FormatXML)
	assert.True(t, errors.IsMalformedDocument(err))

	_, err = DecodeCollection([]byte(`<locators><page name="P"><locator/></page></locators>`), FormatXML)
	assert.True(t, errors.IsMalformedDocument(err))
}

func TestXMLCollectionRejectsOtherRoot(t *testing.T) {
	doc := []byte(`<settings><page name="P"><locator name="a"/></page></settings>`)

	_, err := DecodeCollection(doc, FormatXML)
	assert.True(t, errors.IsMalformedDocument(err), "got %v", err)
	assert.ErrorContains(t, err, "<settings>")

	// A page document with the same root is still read as empty.
	page, err := DecodePage("P", doc)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Len())
}

func TestJSONCollection(t *testing.T) {
	data, err := EncodeCollection([]*locatormodels.Page{loginPage()}, FormatJSON)
	require.NoError(t, err)

	doc := string(data)
	assert.Contains(t, doc, `"Login": {`)
	assert.Contains(t, doc, `"automationId": "btnSubmit"`)
	assert.Contains(t, doc, `"priority": 5`)

	pages, err := DecodeCollection(data, FormatJSON)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	// The flat format orders locators by name.
	assert.Equal(t, []string{"submit", "user"}, pages[0].Names())
	got, _ := pages[0].Get("submit")
	want, _ := loginPage().Get("submit")
	assert.Equal(t, want, got)
}

func TestJSONCollectionPriorities(t *testing.T) {
	input := `{"P": {"l": {"strategies": [
		{"type": "a", "value": "1", "priority": 2},
		{"type": "b", "value": "2", "priority": "4"},
		{"type": "c", "value": "3", "priority": "x"},
		{"type": "d", "value": "4"},
		{"type": "e", "value": "5", "priority": null},
		{"type": "f", "value": "6", "priority": 1.5}
	]}}}`

	pages, err := DecodeCollection([]byte(input), FormatJSON)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	d, ok := pages[0].Get("l")
	require.True(t, ok)
	priorities := make([]int, 0, len(d.Strategies))
	for _, s := range d.Strategies {
		priorities = append(priorities, s.Priority)
	}
	assert.Equal(t, []int{2, 4, 0, 0, 0, 0}, priorities)
}

func TestJSONCollectionMalformed(t *testing.T) {
	for _, input := range []string{`[1,2]`, `{"P": "not a map"}`, `{"P": {"": {}}}`, `{`} {
		_, err := DecodeCollection([]byte(input), FormatJSON)
		assert.True(t, errors.IsMalformedDocument(err), input)
	}

	pages, err := DecodeCollection([]byte("   "), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

// textGen covers XML and JSON metacharacters without control characters.
func textGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z0-9 _./<>&"'=#\[\]@-]{0,12}`)
}

func pageGen() *rapid.Generator[*locatormodels.Page] {
	return rapid.Custom(func(t *rapid.T) *locatormodels.Page {
		page := locatormodels.NewPage(rapid.StringMatching(`[A-Za-z][A-Za-z0-9_ ]{0,8}`).Draw(t, "page"))
		n := rapid.IntRange(0, 5).Draw(t, "locators")
		for i := 0; i < n; i++ {
			d := locatormodels.Descriptor{
				Name: rapid.StringMatching(`[a-z][a-z0-9.]{0,8}`).Draw(t, "locator"),
				Attributes: locatormodels.Attributes{
					AutomationID: textGen().Draw(t, "automationId"),
					Name:         textGen().Draw(t, "name"),
					ClassName:    textGen().Draw(t, "className"),
					ControlType:  textGen().Draw(t, "controlType"),
					Description:  textGen().Draw(t, "description"),
				},
			}
			s := rapid.IntRange(0, 4).Draw(t, "strategies")
			for j := 0; j < s; j++ {
				d.Strategies = append(d.Strategies, locatormodels.Strategy{
					Type:     rapid.StringMatching(`[a-zA-Z]{1,10}`).Draw(t, "type"),
					Value:    textGen().Draw(t, "value"),
					Priority: rapid.IntRange(0, 1000).Draw(t, "priority"),
				})
			}
			page.Put(d)
		}
		return page
	})
}

func TestPageRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		page := pageGen().Draw(r, "page")

		data, err := EncodePage(page)
		require.NoError(r, err)

		decoded, err := DecodePage(page.Name, data)
		require.NoError(r, err)
		require.Equal(r, page.Names(), decoded.Names())
		require.Equal(r, page.Descriptors(), decoded.Descriptors())
	})
}

func TestCollectionRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		page := pageGen().Draw(r, "page")

		for _, format := range Formats() {
			data, err := EncodeCollection([]*locatormodels.Page{page}, format)
			require.NoError(r, err)

			pages, err := DecodeCollection(data, format)
			require.NoError(r, err)
			require.Len(r, pages, 1)
			require.Equal(r, page.Name, pages[0].Name)
			require.Equal(r, page.Len(), pages[0].Len())
			for _, d := range page.Descriptors() {
				got, ok := pages[0].Get(d.Name)
				require.True(r, ok, "%s lost locator %q", format, d.Name)
				require.Equal(r, d, got)
			}
		}
	})
}
