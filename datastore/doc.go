/*
Package datastore defines the persistence contract of the locator registry.

The registry never writes storage directly. It encodes a page and hands the
document to a PageStore:

	type PageStore interface {
	    List(ctx context.Context) ([]string, error)
	    Load(ctx context.Context, page string) ([]byte, error)
	    Save(ctx context.Context, page string, doc []byte) error
	    Delete(ctx context.Context, page string) error
	}

Implementations:
  - file: one file per page under a root directory (<page>.xml)
  - ddb: DynamoDB implementation, one item per page
  - mock: In-memory mock implementation with error injection for testing

Load and Delete report a missing page with errors.NotFoundError. Storage
failures are reported as errors.IOError carrying the operation and the path
(or table key) involved.
*/
package datastore
