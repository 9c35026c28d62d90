/*
Package objectgraph provides a generic, type-safe data-access layer above an
object-graph persistence store.

Every persisted entity type gets a uniform set of operations, fetch, count,
insert, delete, delete-all, and load-by-identifier, without store-specific
query code per entity. The store itself is an external collaborator consumed
through the narrow store.Context contract; this package implements neither the
persistence engine nor the record-to-object mapping.

An entity type satisfies a small capability contract: a stable logical name
resolving its storage collection, callable on a zero value.

	type Article struct {
	    ID        string
	    Title     string
	    Published bool
	}

	func (*Article) EntityName() string { return "Article" }

Basic Usage:

	sc := memstore.New().NewContext()
	repo := objectgraph.NewEntityRepository[*Article](sc)

	// Batched inserts: create many, commit once.
	a, _ := repo.InsertNewObject(ctx)
	a.Title = "Generics in practice"
	_ = sc.Commit(ctx)

	published, _ := repo.AllObjects(ctx,
	    store.Where("Published", store.OpEq, true),
	    store.Descending("CreatedAt"))

	// Delete commits eagerly: delete means gone.
	_ = repo.DeleteObject(ctx, a)

Failure policy: read-style operations degrade gracefully, returning an empty
slice plus a QueryError; count, delete, and bulk delete escalate store
failures through zap's DPanic, because their results feed control-flow
decisions where a misleading default is worse than stopping. Callers that
want a different policy can inspect the returned error kinds from the errors
package instead.

A context represents one unit-of-work and must be confined to one goroutine;
repositories take no locks of their own.
*/
package objectgraph
