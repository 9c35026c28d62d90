/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package objectgraph

import (
	"fmt"
	"sync"

	"github.com/suparena/objectgraph/store"
)

// RepositorySet manages repositories for multiple entity types sharing one
// store context. It exists for applications persisting many entity types:
// each type gets one repository instance, created on first use, all bound to
// the same unit-of-work.
type RepositorySet struct {
	mu    sync.RWMutex
	store store.Context
	opts  []Option
	repos map[string]any
}

// NewRepositorySet creates a repository set bound to one store context.
// The options are applied to every repository the set creates.
func NewRepositorySet(sc store.Context, opts ...Option) *RepositorySet {
	return &RepositorySet{
		store: sc,
		opts:  opts,
		repos: make(map[string]any),
	}
}

// RepositoryFor returns the set's repository for type T, creating it on first
// use. Subsequent calls for the same entity type return the same instance.
func RepositoryFor[T Entity](set *RepositorySet) *EntityRepository[T] {
	var zero T
	name := zero.EntityName()

	set.mu.RLock()
	existing, ok := set.repos[name]
	set.mu.RUnlock()
	if ok {
		return existing.(*EntityRepository[T])
	}

	set.mu.Lock()
	defer set.mu.Unlock()
	if existing, ok := set.repos[name]; ok {
		return existing.(*EntityRepository[T])
	}
	repo := NewEntityRepository[T](set.store, set.opts...)
	set.repos[name] = repo
	return repo
}

// Register adds an externally constructed repository under its entity name.
// It fails if a repository for the entity is already present.
func Register[T Entity](set *RepositorySet, repo *EntityRepository[T]) error {
	set.mu.Lock()
	defer set.mu.Unlock()

	name := repo.EntityName()
	if _, exists := set.repos[name]; exists {
		return fmt.Errorf("repository for entity %q already registered", name)
	}
	set.repos[name] = repo
	return nil
}

// Entities returns the entity names the set currently holds repositories for.
func (set *RepositorySet) Entities() []string {
	set.mu.RLock()
	defer set.mu.RUnlock()

	names := make([]string, 0, len(set.repos))
	for name := range set.repos {
		names = append(names, name)
	}
	return names
}
