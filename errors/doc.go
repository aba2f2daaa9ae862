/*
Package errors provides semantic error types for the locator registry.

The package defines the failure kinds a registry operation can report. Each
kind has a sentinel that can be checked with the standard errors.Is() function
or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound          = errors.New("not found")
	    ErrMalformedDocument = errors.New("malformed document")
	    ErrUnsupportedFormat = errors.New("unsupported format")
	    ErrIO                = errors.New("storage i/o failure")
	    ErrInvalidInput      = errors.New("invalid input")
	)

Usage:

	err := reg.DeleteLocator(ctx, "Login.submit")
	if err != nil {
	    if errors.IsNotFound(err) {
	        // the page is not registered
	    }
	    var ioErr *errors.IOError
	    if stderrors.As(err, &ioErr) {
	        log.Printf("write of %s failed", ioErr.Path)
	    }
	}

	// Create typed errors
	err := errors.NewNotFoundError("page", "Login")
	err := errors.NewIOError("write", "/data/Login.xml", cause)
	err := errors.NewUnsupportedFormatError("yaml")

MalformedDocumentError and IOError unwrap to their cause, so wrapped
os and encoding errors remain inspectable.
*/
package errors
