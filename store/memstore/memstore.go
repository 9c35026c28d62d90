/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memstore provides an in-memory implementation of store.Context for
// testing and embedded use.
package memstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	ogerrors "github.com/suparena/objectgraph/errors"
	"github.com/suparena/objectgraph/registry"
	"github.com/suparena/objectgraph/store"
)

// record is one committed entity snapshot.
type record struct {
	entity string
	snap   any
	seq    int64
}

// Store holds committed state shared by all contexts created from it.
// Store-default result order is commit sequence order.
type Store struct {
	mu        sync.RWMutex
	committed map[store.ObjectID]record
	nextSeq   int64
	queryErr  error
	commitErr error
	log       *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used by the store and its contexts.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// New creates an empty in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		committed: make(map[store.ObjectID]record),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FailQueries makes Execute and Count on every context return err.
// Pass nil to restore normal behavior. For testing failure paths.
func (s *Store) FailQueries(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryErr = err
}

// FailCommits makes Commit on every context return err.
// Pass nil to restore normal behavior. For testing failure paths.
func (s *Store) FailCommits(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitErr = err
}

// Len returns the number of committed records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.committed)
}

// NewContext opens a unit-of-work against the store. The returned context
// must be confined to one goroutine.
func (s *Store) NewContext() *Context {
	return &Context{
		store:    s,
		live:     make(map[store.ObjectID]any),
		entities: make(map[store.ObjectID]string),
		ids:      make(map[any]store.ObjectID),
		inserted: make(map[store.ObjectID]bool),
		deleted:  make(map[store.ObjectID]bool),
		log:      s.log,
	}
}

// Context is one unit-of-work against an in-memory Store. It tracks live
// instances, staged inserts, and staged deletes; reads see pending changes.
// Not safe for concurrent use.
type Context struct {
	store       *Store
	live        map[store.ObjectID]any
	entities    map[store.ObjectID]string
	ids         map[any]store.ObjectID
	inserted    map[store.ObjectID]bool
	deleted     map[store.ObjectID]bool
	insertOrder []store.ObjectID
	invalidMark int
	log         *zap.Logger
}

var _ store.Context = (*Context)(nil)

// Execute runs a read query over committed state overlaid with this context's
// pending changes.
func (c *Context) Execute(_ context.Context, q *store.Query) ([]any, error) {
	if err := c.store.injectedQueryErr(); err != nil {
		return nil, err
	}
	return c.gather(q, true), nil
}

// Count runs a count-only query. No entities are materialized into the
// context.
func (c *Context) Count(_ context.Context, q *store.Query) (int, error) {
	if err := c.store.injectedQueryErr(); err != nil {
		return 0, err
	}
	return len(c.gather(q, false)), nil
}

// Resolve looks up one record by identifier, returning a stale identifier
// error when it no longer resolves.
func (c *Context) Resolve(_ context.Context, id store.ObjectID) (any, error) {
	if c.deleted[id] {
		return nil, ogerrors.NewStaleIdentifierError(c.entities[id], string(id))
	}
	if obj, ok := c.live[id]; ok {
		return obj, nil
	}

	c.store.mu.RLock()
	rec, ok := c.store.committed[id]
	c.store.mu.RUnlock()
	if !ok {
		return nil, ogerrors.NewStaleIdentifierError("", string(id))
	}

	obj := cloneRecord(rec.snap)
	c.register(id, rec.entity, obj)
	return obj, nil
}

// InsertNew allocates a new instance of the named entity and stages it for
// insertion. The instance is not persisted until Commit.
func (c *Context) InsertNew(_ context.Context, entity string) (any, error) {
	obj, err := registry.NewInstance(entity)
	if err != nil {
		return nil, err
	}

	id := store.ObjectID(entity + "/" + uuid.NewString())
	c.register(id, entity, obj)
	c.inserted[id] = true
	c.insertOrder = append(c.insertOrder, id)
	return obj, nil
}

// MarkDeleted stages removal of a tracked record. Marking an object this
// context does not track poisons the next Commit rather than silently
// dropping the delete.
func (c *Context) MarkDeleted(obj any) {
	id, ok := c.ids[obj]
	if !ok {
		c.invalidMark++
		c.log.Warn("marked object is not tracked by this context",
			zap.String("type", fmt.Sprintf("%T", obj)))
		return
	}
	if c.inserted[id] {
		delete(c.inserted, id)
	}
	c.deleted[id] = true
}

// IdentifierFor returns the stable identifier of a tracked record.
func (c *Context) IdentifierFor(obj any) (store.ObjectID, bool) {
	id, ok := c.ids[obj]
	return id, ok
}

// Commit flushes staged inserts, deletes, and property changes on tracked
// records to the store.
func (c *Context) Commit(_ context.Context) error {
	if c.invalidMark > 0 {
		return fmt.Errorf("%d marked records are not tracked by this context", c.invalidMark)
	}

	s := c.store
	s.mu.Lock()
	if s.commitErr != nil {
		err := s.commitErr
		s.mu.Unlock()
		return err
	}

	for id := range c.deleted {
		delete(s.committed, id)
	}
	for _, id := range c.insertOrder {
		if !c.inserted[id] {
			continue
		}
		s.nextSeq++
		s.committed[id] = record{
			entity: c.entities[id],
			snap:   cloneRecord(c.live[id]),
			seq:    s.nextSeq,
		}
	}
	for id, obj := range c.live {
		if c.inserted[id] || c.deleted[id] {
			continue
		}
		if rec, ok := s.committed[id]; ok {
			rec.snap = cloneRecord(obj)
			s.committed[id] = rec
		}
	}
	s.mu.Unlock()

	for id := range c.deleted {
		if obj, ok := c.live[id]; ok {
			delete(c.ids, obj)
		}
		delete(c.live, id)
		delete(c.entities, id)
	}
	c.deleted = make(map[store.ObjectID]bool)
	c.inserted = make(map[store.ObjectID]bool)
	c.insertOrder = nil
	return nil
}

func (c *Context) register(id store.ObjectID, entity string, obj any) {
	c.live[id] = obj
	c.entities[id] = entity
	c.ids[obj] = id
}

type candidate struct {
	id  store.ObjectID
	seq int64
	rec record
}

// gather collects the records a query matches: committed state in commit
// order, then staged inserts in insertion order. When track is set, committed
// matches are materialized as live instances in this context; otherwise
// snapshots are evaluated in place.
func (c *Context) gather(q *store.Query, track bool) []any {
	names := registry.CollectionNames(q.Entity, q.IncludesSubentities)
	nameSet := make(map[string]bool, len(names))
	for _, n := range names {
		nameSet[n] = true
	}

	c.store.mu.RLock()
	candidates := make([]candidate, 0, len(c.store.committed))
	for id, rec := range c.store.committed {
		if nameSet[rec.entity] {
			candidates = append(candidates, candidate{id: id, seq: rec.seq, rec: rec})
		}
	}
	c.store.mu.RUnlock()
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].seq < candidates[j].seq })

	out := make([]any, 0, len(candidates))
	for _, cand := range candidates {
		if c.deleted[cand.id] {
			continue
		}
		obj, isLive := c.live[cand.id]
		if !isLive {
			if track {
				obj = cloneRecord(cand.rec.snap)
				c.register(cand.id, cand.rec.entity, obj)
			} else {
				obj = cand.rec.snap
			}
		}
		if !q.Predicate.Matches(obj) {
			continue
		}
		out = append(out, obj)
	}

	for _, id := range c.insertOrder {
		if !c.inserted[id] || c.deleted[id] {
			continue
		}
		if !nameSet[c.entities[id]] {
			continue
		}
		obj := c.live[id]
		if !q.Predicate.Matches(obj) {
			continue
		}
		out = append(out, obj)
	}

	store.SortRecords(out, q.Orderings)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func (s *Store) injectedQueryErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryErr
}

// cloneRecord makes a shallow copy of a pointer-to-struct record. Pointer
// fields stay shared between the copy and the original.
func cloneRecord(obj any) any {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return obj
	}
	n := reflect.New(v.Elem().Type())
	n.Elem().Set(v.Elem())
	return n.Interface()
}
