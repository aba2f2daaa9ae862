/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/tomodakengo/kensa-sub001/datastore/mock"
	"github.com/tomodakengo/kensa-sub001/errors"
	"github.com/tomodakengo/kensa-sub001/locatormodels"
)

const loginXML = `<?xml version="1.0" encoding="UTF-8"?>
<locators>
  <page name="Login">
    <locator name="user" automationId="txtUser" controlType="Edit"/>
    <locator name="submit" automationId="btnSubmit" elementName="Sign in">
      <strategy type="xpath" value="//Button[@Name='Sign in']" priority="0"/>
    </locator>
  </page>
  <page name="Home">
    <locator name="logo" className="Image"/>
  </page>
</locators>
`

func seedRegistry(t *testing.T) (*Registry, *mock.Store) {
	t.Helper()
	r, store := newTestRegistry(t)
	mustSave(t, r, "Login", "submit", locatormodels.Attributes{AutomationID: "old"})
	mustSave(t, r, "Login", "forgot", locatormodels.Attributes{})
	mustSave(t, r, "Settings", "save", locatormodels.Attributes{})
	return r, store
}

func fullNames(ds []locatormodels.Descriptor) []string {
	names := make([]string, 0, len(ds))
	for _, d := range ds {
		names = append(names, d.FullName())
	}
	return names
}

func TestImportLocatorsXML(t *testing.T) {
	ctx := context.Background()
	r, store := seedRegistry(t)

	require.NoError(t, r.ImportLocators(ctx, []byte(loginXML), "xml"))

	// Login is replaced wholesale, Settings is untouched, Home is new.
	assert.Equal(t, []string{"Home.logo", "Login.user", "Login.submit", "Settings.save"}, fullNames(r.GetAllLocators()))

	d, ok := r.GetLocator("Login.submit")
	require.True(t, ok)
	assert.Equal(t, "btnSubmit", d.Attributes.AutomationID)
	assert.Equal(t, "Sign in", d.Attributes.Name)
	assert.Equal(t, []locatormodels.Strategy{{Type: "xpath", Value: "//Button[@Name='Sign in']", Priority: 0}}, d.Strategies)

	assert.Equal(t, []string{"user", "submit"}, storedPage(t, store, "Login").Names())
	assert.Equal(t, []string{"logo"}, storedPage(t, store, "Home").Names())
}

func TestImportLocatorsJSON(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t)

	data := []byte(`{
  "Login": {
    "user": {"automationId": "txtUser"},
    "submit": {
      "automationId": "btnSubmit",
      "strategies": [
        {"type": "css", "value": ".primary", "priority": "4"},
        {"type": "xpath", "value": "//Button", "priority": "high"}
      ]
    }
  }
}`)
	require.NoError(t, r.ImportLocators(ctx, data, "JSON"))

	assert.Equal(t, []string{"Login.submit", "Login.user"}, fullNames(r.GetAllLocators()))
	d, _ := r.GetLocator("Login.submit")
	assert.Equal(t, []locatormodels.Strategy{
		{Type: "css", Value: ".primary", Priority: 4},
		{Type: "xpath", Value: "//Button", Priority: 0},
	}, d.Strategies)
}

func TestImportLocatorsEmptyPageRemoves(t *testing.T) {
	ctx := context.Background()
	r, store := seedRegistry(t)

	require.NoError(t, r.ImportLocators(ctx, []byte(`{"Login": {}, "Nowhere": {}}`), "json"))

	assert.Equal(t, []string{"Settings"}, r.Pages())
	_, ok := store.Document("Login")
	assert.False(t, ok)
	_, ok = store.Document("Nowhere")
	assert.False(t, ok)
}

func TestImportLocatorsRejectsWithoutMutation(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format string
		check  func(error) bool
	}{
		{name: "unsupported format", data: loginXML, format: "yaml", check: errors.IsUnsupportedFormat},
		{name: "malformed xml", data: `<locators><page name="Login">`, format: "xml", check: errors.IsMalformedDocument},
		{name: "malformed json", data: `{"Login": [`, format: "json", check: errors.IsMalformedDocument},
		{name: "invalid page name", data: `{"Login.v2": {"submit": {}}}`, format: "json", check: errors.IsValidationError},
		{name: "untyped strategy", data: `<locators><page name="Login"><locator name="submit">` +
			`<strategy priority="1" value="x"/></locator></page></locators>`, format: "xml", check: errors.IsValidationError},
		{name: "other xml root", data: `<settings><page name="Login"><locator name="a"/></page></settings>`,
			format: "xml", check: errors.IsMalformedDocument},
		{name: "control character", data: `{"Login": {"submit": {"automationId": "a\u0001b"}}}`,
			format: "json", check: errors.IsValidationError},
		{name: "page differs in case from index", data: `{"login": {"submit": {}}}`,
			format: "json", check: errors.IsValidationError},
		{name: "pages differ in case", data: `{"Home": {"a": {}}, "home": {"b": {}}}`,
			format: "json", check: errors.IsValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, store := seedRegistry(t)
			before := r.GetAllLocators()
			saves := store.Saves()

			err := r.ImportLocators(context.Background(), []byte(tt.data), tt.format)
			require.Error(t, err)
			assert.True(t, tt.check(err), "got %v", err)

			assert.Equal(t, before, r.GetAllLocators())
			assert.Equal(t, saves, store.Saves())
			assert.Equal(t, 0, store.Deletes())
		})
	}
}

func TestImportLocatorsPartialWriteFailure(t *testing.T) {
	ctx := context.Background()
	r, store := seedRegistry(t)
	store.WithPageSaveError("Login", errDiskFull)

	err := r.ImportLocators(ctx, []byte(loginXML), "xml")
	require.Error(t, err)
	assert.True(t, errors.IsIOFailure(err))

	// Login keeps its previous state; Home still lands.
	d, ok := r.GetLocator("Login.submit")
	require.True(t, ok)
	assert.Equal(t, "old", d.Attributes.AutomationID)
	_, ok = r.GetLocator("Home.logo")
	assert.True(t, ok)
}

func TestExportLocators(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t)
	require.NoError(t, r.ImportLocators(ctx, []byte(loginXML), "xml"))

	_, err := r.ExportLocators(ctx, "yaml")
	assert.True(t, errors.IsUnsupportedFormat(err))

	out, err := r.ExportLocators(ctx, "xml")
	require.NoError(t, err)
	assert.Contains(t, string(out), `<page name="Home">`)
	assert.Contains(t, string(out), `elementName="Sign in"`)

	again, err := r.ExportLocators(ctx, "xml")
	require.NoError(t, err)
	assert.Equal(t, out, again)

	empty, _ := newTestRegistry(t)
	out, err = empty.ExportLocators(ctx, "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(out))
}

type savedLocator struct {
	page, locator string
	attrs         locatormodels.Attributes
	strategies    []locatormodels.Strategy
}

func savedLocatorGen() *rapid.Generator[savedLocator] {
	return rapid.Custom(func(t *rapid.T) savedLocator {
		s := savedLocator{
			page:    rapid.SampledFrom([]string{"Login", "Home", "Settings"}).Draw(t, "page"),
			locator: rapid.StringMatching(`[a-z]{1,3}(\.[a-z]{1,2})?`).Draw(t, "locator"),
			attrs: locatormodels.Attributes{
				AutomationID: rapid.StringMatching(`[A-Za-z<>&"' ]{0,6}`).Draw(t, "automationId"),
				Name:         rapid.StringMatching(`[A-Za-z ]{0,6}`).Draw(t, "name"),
				Description:  rapid.StringMatching(`[a-z ]{0,10}`).Draw(t, "description"),
			},
		}
		n := rapid.IntRange(0, 3).Draw(t, "strategies")
		for i := 0; i < n; i++ {
			s.strategies = append(s.strategies, locatormodels.Strategy{
				Type:     rapid.SampledFrom([]string{"xpath", "css"}).Draw(t, "type"),
				Value:    rapid.StringMatching(`[a-z/@=\[\]']{1,8}`).Draw(t, "value"),
				Priority: rapid.IntRange(0, 9).Draw(t, "priority"),
			})
		}
		return s
	})
}

func sortedByFullName(ds []locatormodels.Descriptor) []locatormodels.Descriptor {
	sort.SliceStable(ds, func(i, j int) bool { return ds[i].FullName() < ds[j].FullName() })
	return ds
}

func TestSaveGetProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := New(mock.New())
		saves := rapid.SliceOfN(savedLocatorGen(), 1, 12).Draw(t, "saves")

		latest := make(map[string]savedLocator)
		for _, s := range saves {
			if _, err := r.SaveLocator(context.Background(), s.page, s.locator, s.attrs, s.strategies); err != nil {
				t.Fatalf("save %s.%s: %v", s.page, s.locator, err)
			}
			latest[locatormodels.FullName(s.page, s.locator)] = s
		}

		all := r.GetAllLocators()
		if len(all) != len(latest) {
			t.Fatalf("got %d locators, want %d unique", len(all), len(latest))
		}
		for name, s := range latest {
			d, ok := r.GetLocator(name)
			if !ok {
				t.Fatalf("%s missing", name)
			}
			if d.Attributes != s.attrs {
				t.Fatalf("%s attributes = %+v, want %+v", name, d.Attributes, s.attrs)
			}
			if fmt.Sprint(d.Strategies) != fmt.Sprint(s.strategies) {
				t.Fatalf("%s strategies = %v, want %v", name, d.Strategies, s.strategies)
			}
		}
	})
}

func TestExportImportRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		src := New(mock.New())
		for _, s := range rapid.SliceOfN(savedLocatorGen(), 0, 10).Draw(t, "saves") {
			if _, err := src.SaveLocator(ctx, s.page, s.locator, s.attrs, s.strategies); err != nil {
				t.Fatalf("save: %v", err)
			}
		}
		format := rapid.SampledFrom([]string{"xml", "json"}).Draw(t, "format")

		data, err := src.ExportLocators(ctx, format)
		if err != nil {
			t.Fatalf("export: %v", err)
		}
		dst := New(mock.New())
		if err := dst.ImportLocators(ctx, data, format); err != nil {
			t.Fatalf("import: %v", err)
		}

		want, got := src.GetAllLocators(), dst.GetAllLocators()
		if format == "json" {
			want, got = sortedByFullName(want), sortedByFullName(got)
		}
		if fmt.Sprintf("%+v", want) != fmt.Sprintf("%+v", got) {
			t.Fatalf("round trip through %s changed the index:\nwant %+v\ngot  %+v", format, want, got)
		}
	})
}

func TestImportIdempotentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		src := New(mock.New())
		for _, s := range rapid.SliceOfN(savedLocatorGen(), 0, 8).Draw(t, "saves") {
			if _, err := src.SaveLocator(ctx, s.page, s.locator, s.attrs, s.strategies); err != nil {
				t.Fatalf("save: %v", err)
			}
		}
		data, err := src.ExportLocators(ctx, "xml")
		if err != nil {
			t.Fatalf("export: %v", err)
		}

		store := mock.New()
		dst := New(store)
		if err := dst.ImportLocators(ctx, data, "xml"); err != nil {
			t.Fatalf("first import: %v", err)
		}
		once := dst.GetAllLocators()
		docs := make(map[string]string)
		for _, p := range dst.Pages() {
			doc, _ := store.Document(p)
			docs[p] = string(doc)
		}

		if err := dst.ImportLocators(ctx, data, "xml"); err != nil {
			t.Fatalf("second import: %v", err)
		}
		if fmt.Sprintf("%+v", once) != fmt.Sprintf("%+v", dst.GetAllLocators()) {
			t.Fatalf("second import changed the index")
		}
		for p, doc := range docs {
			again, _ := store.Document(p)
			if doc != string(again) {
				t.Fatalf("second import changed document %q", p)
			}
		}
	})
}
