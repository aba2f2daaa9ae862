/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
)

// PageStore persists one encoded document per page.
type PageStore interface {
	// List returns the names of all pages that have a stored document.
	List(ctx context.Context) ([]string, error)

	// Load returns the stored document for page, or a NotFoundError.
	Load(ctx context.Context, page string) ([]byte, error)

	// Save creates or overwrites the document for page.
	Save(ctx context.Context, page string, doc []byte) error

	// Delete removes the document for page, or returns a NotFoundError.
	Delete(ctx context.Context, page string) error
}
