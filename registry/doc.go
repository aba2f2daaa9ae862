/*
Package registry implements the locator registry: the in-memory index of
pages and UI element locators, kept in sync with a page store.

Lifecycle:

	store, _ := file.New("./locators")
	reg := registry.New(store, registry.WithLogger(logger))

	// Load every page document already present.
	report, err := reg.Initialize(ctx)

	// Mutations update one page and persist only that page.
	key, err := reg.SaveLocator(ctx, "Login", "submit",
	    locatormodels.Attributes{AutomationID: "btnSubmit"},
	    []locatormodels.Strategy{{Type: "xpath", Value: "//Button", Priority: 0}})
	err = reg.DeleteLocator(ctx, "Login.submit")

Resolution:
ResolveSelectors combines selectors derived from the identity attributes
(automationId=1, name=2, className=3) with the explicit strategies and
stable-sorts them by priority:

	selectors, ok := reg.ResolveSelectors("Login.submit")

Import and export move the whole index in the native XML vocabulary or the
flat JSON mapping:

	data, err := reg.ExportLocators(ctx, "json")
	err = reg.ImportLocators(ctx, data, "json")

A page is created by the first save under its name and removed, document
included, when its last locator is deleted. The index only changes after the
page document was written successfully, so index and store never diverge.
*/
package registry
