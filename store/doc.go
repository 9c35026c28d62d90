/*
Package store defines the narrow contract ObjectGraph requires from an
object-graph persistence store.

The main interface is Context, which represents one unit-of-work against the
store:

	type Context interface {
	    Execute(ctx context.Context, q *Query) ([]any, error)
	    Count(ctx context.Context, q *Query) (int, error)
	    Resolve(ctx context.Context, id ObjectID) (any, error)
	    InsertNew(ctx context.Context, entity string) (any, error)
	    MarkDeleted(obj any)
	    IdentifierFor(obj any) (ObjectID, bool)
	    Commit(ctx context.Context) error
	}

Queries are ephemeral descriptors built fresh per call:

	q := store.NewQuery("Article").
	    Where(store.Where("Published", store.OpEq, true)).
	    OrderBy(store.Descending("CreatedAt")).
	    WithLimit(10)

Implementations:
  - memstore: in-memory implementation for tests and embedded use
  - ddb: DynamoDB implementation with single-table design

Predicate and Ordering carry reflection-based evaluators shared by the
implementations so staged, uncommitted records are filtered and sorted with
identical semantics everywhere.
*/
package store
