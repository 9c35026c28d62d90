/*
Package errors provides semantic error types for the ObjectGraph library.

The package defines the failure taxonomy of the repository layer with specific
types that can be checked using the standard errors.Is() function or the
provided helper functions.

Common Errors:

	var (
	    ErrQueryFailed     = errors.New("query failed")
	    ErrCommitFailed    = errors.New("commit failed")
	    ErrStaleIdentifier = errors.New("stale object identifier")
	    ErrInvalidInput    = errors.New("invalid input")
	    ErrUnknownEntity   = errors.New("unknown entity")
	)

Usage:

	// Check error type
	n, err := repo.CountObjects(ctx, nil)
	if err != nil {
	    if errors.IsQueryFailure(err) {
	        // The store could not execute the count; n is 0 and must
	        // not be trusted for control-flow decisions.
	    }
	    return err
	}

	// Create typed errors
	err := errors.NewQueryError("Article", "count", cause)
	err := errors.NewCommitError("Article", "delete", cause)
	err := errors.NewStaleIdentifierError("Article", "Article|A#1|A#1")

QueryError and CommitError wrap their cause and support errors.Unwrap, making
them compatible with Go's standard error handling patterns.
*/
package errors
