/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"sync"

	ogerrors "github.com/suparena/objectgraph/errors"
)

// Factory allocates a new, empty native instance of an entity.
type Factory func() any

var (
	mu          sync.RWMutex
	factories   = make(map[string]Factory)
	subentities = make(map[string][]string)
)

// RegisterEntity registers a factory for the given entity name.
// If an entity is already registered under the name, it panics to prevent
// accidental overrides.
func RegisterEntity(name string, fn Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("entity registry: entity with name %q already registered", name))
	}
	factories[name] = fn
}

// NewInstance allocates a new native instance for the given entity name.
// If no entity is registered under the name, it returns an error.
func NewInstance(name string) (any, error) {
	mu.RLock()
	fn, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, ogerrors.NewUnknownEntityError(name)
	}
	return fn(), nil
}

// IsRegistered reports whether an entity is registered under the given name.
func IsRegistered(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := factories[name]
	return ok
}

// RegisterSubentity declares child as a sub-entity of parent. Queries built
// with IncludesSubentities then cover child's records when addressed at parent.
func RegisterSubentity(parent, child string) {
	mu.Lock()
	defer mu.Unlock()
	subentities[parent] = append(subentities[parent], child)
}

// Subentities returns the directly registered sub-entities of name.
func Subentities(name string) []string {
	mu.RLock()
	defer mu.RUnlock()
	children := subentities[name]
	out := make([]string, len(children))
	copy(out, children)
	return out
}

// CollectionNames returns the entity names a query addressed at name covers:
// the name itself, plus all transitive sub-entities when includeSubentities
// is set.
func CollectionNames(name string, includeSubentities bool) []string {
	names := []string{name}
	if !includeSubentities {
		return names
	}

	mu.RLock()
	defer mu.RUnlock()

	seen := map[string]bool{name: true}
	for i := 0; i < len(names); i++ {
		for _, child := range subentities[names[i]] {
			if seen[child] {
				continue
			}
			seen[child] = true
			names = append(names, child)
		}
	}
	return names
}
