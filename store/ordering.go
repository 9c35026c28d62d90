/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package store

import "sort"

// Ordering sorts query results by one field.
type Ordering struct {
	Field      string
	Descending bool
}

// Ascending orders results by field, smallest first.
func Ascending(field string) Ordering {
	return Ordering{Field: field}
}

// Descending orders results by field, largest first.
func Descending(field string) Ordering {
	return Ordering{Field: field, Descending: true}
}

// SortRecords sorts records in place according to the orderings, using the
// same field comparison rules as Predicate. Records whose fields do not admit
// an ordering keep their relative positions.
func SortRecords(records []any, orderings []Ordering) {
	if len(orderings) == 0 {
		return
	}
	sort.SliceStable(records, func(i, j int) bool {
		for _, o := range orderings {
			fi, iok := fieldValue(records[i], o.Field)
			fj, jok := fieldValue(records[j], o.Field)
			if !iok || !jok {
				continue
			}
			cmp, ok := compareValues(fi, fj)
			if !ok || cmp == 0 {
				continue
			}
			if o.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}
