/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package objectgraph

import (
	"context"

	"go.uber.org/zap"

	ogerrors "github.com/suparena/objectgraph/errors"
	"github.com/suparena/objectgraph/store"
)

// Entity is the capability contract every persisted type must satisfy: a
// stable logical name addressing its storage collection. EntityName must be
// callable on a zero value, so for pointer entity types the method must not
// dereference its receiver.
type Entity interface {
	EntityName() string
}

// EntityRepository provides uniform typed access to one entity collection
// through one bound store context. T is conventionally a pointer type
// (e.g. *Article) whose instances are tracked by the context.
//
// Every query the repository issues is built from T's declared entity name,
// so results can never leak records of another entity type.
//
// The repository borrows its context and performs no locking; serialization
// discipline belongs to the context owner.
type EntityRepository[T Entity] struct {
	store  store.Context
	entity string
	log    *zap.Logger
}

// Option configures a repository.
type Option func(*config)

type config struct {
	log *zap.Logger
}

// WithLogger sets the logger diagnostics are written to. The default is a
// no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// NewEntityRepository binds a repository for T to the given store context.
// The context is borrowed; its lifecycle stays with the caller.
func NewEntityRepository[T Entity](sc store.Context, opts ...Option) *EntityRepository[T] {
	cfg := config{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var zero T
	return &EntityRepository[T]{
		store:  sc,
		entity: zero.EntityName(),
		log:    cfg.log,
	}
}

// AllObjects returns every entity matching the predicate, in the given order.
// A nil predicate matches all; no orderings means store-default order, which
// is not guaranteed stable.
//
// On store failure the result is an empty slice and a QueryError; a failed
// listing is a recoverable condition, never a fatal one.
func (r *EntityRepository[T]) AllObjects(ctx context.Context, predicate store.Predicate, orderings ...store.Ordering) ([]T, error) {
	q := store.NewQuery(r.entity).Where(predicate).OrderBy(orderings...)
	return r.loadObjects(ctx, q)
}

// CountObjects returns the number of entities matching the predicate without
// materializing them. Sub-entities are always excluded so records under a
// shared collection are never double-counted.
//
// On store failure the result is 0 and a QueryError, escalated through
// DPanic: counts feed control-flow decisions, so a silent wrong-but-plausible
// answer is worse than stopping in development builds.
func (r *EntityRepository[T]) CountObjects(ctx context.Context, predicate store.Predicate) (int, error) {
	q := store.NewQuery(r.entity).Where(predicate).WithoutSubentities()
	n, err := r.store.Count(ctx, q)
	if err != nil {
		r.log.DPanic("entity count failed",
			zap.String("entity", r.entity),
			zap.Error(err))
		return 0, ogerrors.NewQueryError(r.entity, "count", err)
	}
	return n, nil
}

// FirstObject returns the first entity matching the predicate under
// store-default order, or the zero T when nothing matches. The predicate is
// required: this operation is for callers who already know what they are
// looking for. At most one result is requested from the store.
func (r *EntityRepository[T]) FirstObject(ctx context.Context, predicate store.Predicate) (T, error) {
	var zero T
	if len(predicate) == 0 {
		return zero, ogerrors.NewValidationError("predicate", "predicate is required")
	}

	q := store.NewQuery(r.entity).Where(predicate).WithLimit(1)
	objs, err := r.loadObjects(ctx, q)
	if err != nil {
		return zero, err
	}
	if len(objs) == 0 {
		return zero, nil
	}
	return objs[0], nil
}

// InsertNewObject allocates and registers a new, empty instance of T in the
// bound context. The unit-of-work is deliberately not committed: batched
// inserts must be able to create many objects before paying one commit cost.
// The caller commits the context when persistence is wanted.
func (r *EntityRepository[T]) InsertNewObject(ctx context.Context) (T, error) {
	var zero T
	rec, err := r.store.InsertNew(ctx, r.entity)
	if err != nil {
		r.log.Error("entity insert failed",
			zap.String("entity", r.entity),
			zap.Error(err))
		return zero, err
	}

	obj, ok := rec.(T)
	if !ok {
		r.log.DPanic("store allocated a record of unexpected type",
			zap.String("entity", r.entity))
		return zero, ogerrors.NewValidationError("entity", "store allocated a record of unexpected type")
	}
	return obj, nil
}

// DeleteObject marks the given instance for removal and immediately commits
// the context: the contract is "delete means gone", not "delete means
// staged". Commit failure is escalated through DPanic, since callers assume a
// successful return means the object no longer exists.
func (r *EntityRepository[T]) DeleteObject(ctx context.Context, obj T) error {
	r.store.MarkDeleted(obj)
	if err := r.store.Commit(ctx); err != nil {
		r.log.DPanic("delete commit failed",
			zap.String("entity", r.entity),
			zap.Error(err))
		return ogerrors.NewCommitError(r.entity, "delete", err)
	}
	return nil
}

// DeleteAllObjects removes every instance of T, then commits once. The fetch
// requests identity only and excludes sub-entities; property values are
// irrelevant to deletion. Any failure is escalated through DPanic: a partial
// bulk delete left uncommitted would be a silent data-integrity hazard.
func (r *EntityRepository[T]) DeleteAllObjects(ctx context.Context) error {
	q := store.NewQuery(r.entity).WithoutSubentities().WithIdentifiersOnly()
	recs, err := r.store.Execute(ctx, q)
	if err != nil {
		r.log.DPanic("bulk delete fetch failed",
			zap.String("entity", r.entity),
			zap.Error(err))
		return ogerrors.NewQueryError(r.entity, "deleteAll", err)
	}
	if len(recs) == 0 {
		return nil
	}

	for _, rec := range recs {
		r.store.MarkDeleted(rec)
	}
	if err := r.store.Commit(ctx); err != nil {
		r.log.DPanic("bulk delete commit failed",
			zap.String("entity", r.entity),
			zap.Int("marked", len(recs)),
			zap.Error(err))
		return ogerrors.NewCommitError(r.entity, "deleteAll", err)
	}
	return nil
}

// LoadObject resolves a store-issued identifier to a live instance of T.
// A stale identifier, or one resolving to a different entity type, yields the
// zero T with no error: identifier staleness is an expected, recoverable
// condition, logged but never fatal.
func (r *EntityRepository[T]) LoadObject(ctx context.Context, id store.ObjectID) (T, error) {
	var zero T
	rec, err := r.store.Resolve(ctx, id)
	if err != nil {
		r.log.Warn("object identifier did not resolve",
			zap.String("entity", r.entity),
			zap.String("objectID", string(id)),
			zap.Error(err))
		return zero, nil
	}

	obj, ok := rec.(T)
	if !ok {
		r.log.Warn("resolved record has unexpected type",
			zap.String("entity", r.entity),
			zap.String("objectID", string(id)))
		return zero, nil
	}
	return obj, nil
}

// IdentifierFor returns the stable identifier the bound context issued for a
// tracked instance, suitable for a later LoadObject.
func (r *EntityRepository[T]) IdentifierFor(obj T) (store.ObjectID, bool) {
	return r.store.IdentifierFor(obj)
}

// EntityName returns the logical collection name the repository addresses.
func (r *EntityRepository[T]) EntityName() string {
	return r.entity
}

// loadObjects is the single fetch path shared by all read operations. It
// executes the query, casts every returned record to T, and degrades to an
// empty slice plus a logged QueryError when the store call fails, so every
// public read has identical failure semantics.
func (r *EntityRepository[T]) loadObjects(ctx context.Context, q *store.Query) ([]T, error) {
	recs, err := r.store.Execute(ctx, q)
	if err != nil {
		r.log.Error("entity fetch failed",
			zap.String("entity", r.entity),
			zap.Error(err))
		return []T{}, ogerrors.NewQueryError(r.entity, "fetch", err)
	}

	objs := make([]T, 0, len(recs))
	for _, rec := range recs {
		obj, ok := rec.(T)
		if !ok {
			r.log.Warn("dropping record of unexpected type",
				zap.String("entity", r.entity))
			continue
		}
		objs = append(objs, obj)
	}
	return objs, nil
}
