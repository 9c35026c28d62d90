/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package store

// Query is an ephemeral descriptor combining an entity collection, an optional
// predicate, optional orderings, and result-shape flags. A Query is built
// fresh per call and never reused.
type Query struct {
	// Entity is the logical collection name the query addresses.
	Entity string
	// Predicate filters results; nil matches all records.
	Predicate Predicate
	// Orderings sorts results; empty means store-default order, which is
	// not guaranteed stable across stores.
	Orderings []Ordering
	// Limit caps the number of results. Zero means no limit.
	Limit int
	// IncludesSubentities extends the query over registered sub-entity
	// collections. Defaults to true.
	IncludesSubentities bool
	// IdentifiersOnly requests that the store skip property hydration and
	// return records carrying identity only.
	IdentifiersOnly bool
}

// NewQuery produces an empty query scoped to one entity collection.
func NewQuery(entity string) *Query {
	return &Query{
		Entity:              entity,
		IncludesSubentities: true,
	}
}

// Where sets the query predicate.
func (q *Query) Where(p Predicate) *Query {
	q.Predicate = p
	return q
}

// OrderBy appends result orderings.
func (q *Query) OrderBy(orderings ...Ordering) *Query {
	q.Orderings = append(q.Orderings, orderings...)
	return q
}

// WithLimit caps the number of results.
func (q *Query) WithLimit(n int) *Query {
	q.Limit = n
	return q
}

// WithoutSubentities restricts the query to the exact entity collection,
// excluding registered sub-entities.
func (q *Query) WithoutSubentities() *Query {
	q.IncludesSubentities = false
	return q
}

// WithIdentifiersOnly requests identity-only records, skipping property
// hydration.
func (q *Query) WithIdentifiersOnly() *Query {
	q.IdentifiersOnly = true
	return q
}
