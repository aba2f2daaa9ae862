/*
Package kensa records and replays UI-automation element locators.

Locators are grouped into pages. Each locator carries identity attributes
(automationId, name, className, controlType, description) and an ordered list
of explicit strategies. Every page is persisted as its own XML document, and
the whole registry can be exported to or imported from XML or a flat JSON
mapping.

Key Features:
  - One document per page, rewritten on every change to that page
  - Priority-ordered selector resolution for replay
  - File and DynamoDB page stores, plus an in-memory mock for tests
  - Semantic error types for better error handling
  - Optional input validation hook and resolve cache

Basic Usage:

	reg, report, err := kensa.Open(ctx, kensa.Options{
		Backend: kensa.BackendFile,
		Root:    "./locators",
	})
	if err != nil {
		return err
	}
	if err := report.Err(); err != nil {
		log.Printf("some pages were skipped: %v", err)
	}

	_, err = reg.SaveLocator(ctx, "Login", "submit",
		locatormodels.Attributes{AutomationID: "btnSubmit"}, nil)

	selectors, ok := reg.ResolveSelectors("Login.submit")

The locatorctl command in cmd/locatorctl exposes the same operations from the
shell.
*/
package kensa
