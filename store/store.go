/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package store

import "context"

// ObjectID is an opaque, store-issued stable handle to one persisted entity.
// It is used only for direct re-lookup via Resolve, never for predicate
// construction.
type ObjectID string

// Context represents one unit-of-work against the underlying object-graph
// store. A Context must be confined to the goroutine that owns it; the store
// forbids concurrent access to one Context unless externally serialized.
//
// Repositories borrow a Context and never manage its lifecycle. Multiple
// repositories, for different entity types or the same type in different
// scopes, may share one Context.
type Context interface {
	// Execute runs a read query and returns the matching live records.
	Execute(ctx context.Context, q *Query) ([]any, error)

	// Count runs a count-only query without materializing entities.
	Count(ctx context.Context, q *Query) (int, error)

	// Resolve looks up a single record by its stable identifier.
	Resolve(ctx context.Context, id ObjectID) (any, error)

	// InsertNew allocates and tracks a new, empty instance of the named
	// entity within this unit-of-work. The instance is not persisted until
	// Commit.
	InsertNew(ctx context.Context, entity string) (any, error)

	// MarkDeleted stages removal of a tracked record. The removal is not
	// persisted until Commit.
	MarkDeleted(obj any)

	// IdentifierFor returns the stable identifier of a tracked record.
	IdentifierFor(obj any) (ObjectID, bool)

	// Commit flushes all staged changes to the store.
	Commit(ctx context.Context) error
}
