/*
Package locatormodels defines the data structures shared by the locator registry.

Key Types:

Strategy:
One way to find a UI element. Lower priorities are tried first:

	s := Strategy{Type: "xpath", Value: "//Button[@Name='OK']", Priority: 0}

Descriptor:
A named UI element on a page, with its identity attributes and explicit
fallback strategies:

	d := Descriptor{
	    Page: "Login",
	    Name: "submit",
	    Attributes: Attributes{AutomationID: "btnSubmit", ClassName: "Button"},
	    Strategies: []Strategy{{Type: "css", Value: ".primary", Priority: 5}},
	}
	d.FullName() // "Login.submit"

Page:
An insertion-ordered set of descriptors sharing a page name. A page is the
unit of persistence: one page, one document.

Full names split on the first "." so page names never contain the separator,
while locator names may.
*/
package locatormodels
