/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import "sync"

// The index map registry associates entity names with DynamoDB key templates.

var (
	indexMapMu       sync.RWMutex
	indexMapRegistry = make(map[string]map[string]string)
)

// RegisterIndexMap associates an entity name with a DynamoDB index map
// (PK, SK, etc.). Templates may reference entity fields with macros,
// e.g. "ARTICLE#{ID}".
func RegisterIndexMap(entity string, idxMap map[string]string) {
	indexMapMu.Lock()
	defer indexMapMu.Unlock()
	indexMapRegistry[entity] = idxMap
}

// GetIndexMap retrieves the index map for an entity name, if any.
func GetIndexMap(entity string) (map[string]string, bool) {
	indexMapMu.RLock()
	defer indexMapMu.RUnlock()
	m, ok := indexMapRegistry[entity]
	return m, ok
}
