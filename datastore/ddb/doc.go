/*
Package ddb provides a DynamoDB implementation of the PageStore interface.

Each page document is one item in a (possibly shared) single table:

	PK         = "PAGE#<page name>"
	SK         = "DOCUMENT"
	EntityType = "LocatorPage"
	Page       = "<page name>"
	Document   = "<encoded page document>"
	UpdatedAt  = "<RFC 3339 timestamp>"

List scans the table for items with EntityType "LocatorPage" and follows
pagination until the scan is exhausted. Delete is conditional on the item
existing so a missing page is reported as errors.NotFoundError.

Usage:

	store, err := ddb.New(ctx, accessKey, secretKey, "eu-west-1", "locators")
	if err != nil {
	    return err
	}
	reg := registry.New(store)

Tests can pass any value implementing API to NewStore instead of a real client.
*/
package ddb
