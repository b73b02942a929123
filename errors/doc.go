/*
Package errors provides semantic error types for the DataBridge library.

The package defines the error scenarios of provider resolution, configuration
parsing, entity discovery and cross-backend dumps with specific types that can
be checked using the standard errors.Is() function or the provided helper
functions.

Common Errors:

	var (
	    ErrProviderNotFound    = errors.New("provider not found")
	    ErrNilDatabase         = errors.New("provider returned nil database")
	    ErrTypeMismatch        = errors.New("database type mismatch")
	    ErrMissingProvider     = errors.New("missing provider key")
	    ErrUnknownTable        = errors.New("unknown table")
	    ErrIncompatibleSchemas = errors.New("incompatible table sets")
	    ErrTxBegin             = errors.New("transaction begin failed")
	    ErrTxCommit            = errors.New("transaction commit failed")
	)

Usage:

	// Check error type
	db, err := databridge.Get[database.Database](ctx, "sqlite", conn)
	if err != nil {
	    if errors.IsProviderNotFound(err) {
	        // Handle unknown provider, message lists what is registered
	        return fmt.Errorf("configure a known provider: %w", err)
	    }
	    return err
	}

	// Create typed errors
	err := errors.NewUnknownTableError("players")
	err := errors.NewTransactionError("commit", cause)
	err := errors.NewIncompatibleSchemasError([]string{"orders"})

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
