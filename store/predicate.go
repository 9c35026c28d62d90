/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package store

import (
	"reflect"
	"strings"
	"time"
)

// Op is a comparison operator in a predicate condition.
type Op string

const (
	OpEq         Op = "="
	OpNe         Op = "<>"
	OpLt         Op = "<"
	OpLe         Op = "<="
	OpGt         Op = ">"
	OpGe         Op = ">="
	OpContains   Op = "contains"
	OpBeginsWith Op = "begins_with"
)

// Condition is a single field comparison.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Predicate is a conjunction of conditions. A nil or empty Predicate matches
// every record.
type Predicate []Condition

// Where starts a predicate with a single condition.
func Where(field string, op Op, value any) Predicate {
	return Predicate{{Field: field, Op: op, Value: value}}
}

// And appends a condition to the predicate.
func (p Predicate) And(field string, op Op, value any) Predicate {
	return append(p, Condition{Field: field, Op: op, Value: value})
}

// Matches evaluates the predicate against a record's struct fields. Every
// store backend applies these semantics to staged, uncommitted records so a
// query sees pending changes the same way regardless of backend.
func (p Predicate) Matches(obj any) bool {
	for _, c := range p {
		if !c.matches(obj) {
			return false
		}
	}
	return true
}

func (c Condition) matches(obj any) bool {
	f, ok := fieldValue(obj, c.Field)
	if !ok {
		return false
	}

	switch c.Op {
	case OpContains, OpBeginsWith:
		s, okField := stringValue(f)
		sub, okArg := stringValue(reflect.ValueOf(c.Value))
		if !okField || !okArg {
			return false
		}
		if c.Op == OpContains {
			return strings.Contains(s, sub)
		}
		return strings.HasPrefix(s, sub)

	case OpEq, OpNe:
		if cmp, ok := compareValues(f, reflect.ValueOf(c.Value)); ok {
			if c.Op == OpEq {
				return cmp == 0
			}
			return cmp != 0
		}
		fv, ok := concrete(f)
		if !ok {
			return false
		}
		eq := reflect.DeepEqual(fv.Interface(), c.Value)
		if c.Op == OpEq {
			return eq
		}
		return !eq

	default:
		cmp, ok := compareValues(f, reflect.ValueOf(c.Value))
		if !ok {
			return false
		}
		switch c.Op {
		case OpLt:
			return cmp < 0
		case OpLe:
			return cmp <= 0
		case OpGt:
			return cmp > 0
		case OpGe:
			return cmp >= 0
		}
		return false
	}
}

var timeType = reflect.TypeOf(time.Time{})

// fieldValue resolves a named struct field on a record, following pointers.
func fieldValue(obj any, name string) (reflect.Value, bool) {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	f := v.FieldByName(name)
	if !f.IsValid() {
		return reflect.Value{}, false
	}
	return f, true
}

// concrete follows pointers and interfaces down to a concrete value.
func concrete(v reflect.Value) (reflect.Value, bool) {
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, true
}

func stringValue(v reflect.Value) (string, bool) {
	cv, ok := concrete(v)
	if !ok || cv.Kind() != reflect.String {
		return "", false
	}
	return cv.String(), true
}

// compareValues orders two values when their kinds admit an ordering:
// strings, numeric kinds, booleans, and anything convertible to time.Time.
func compareValues(a, b reflect.Value) (int, bool) {
	av, aok := concrete(a)
	bv, bok := concrete(b)
	if !aok || !bok {
		return 0, false
	}

	if av.Type().ConvertibleTo(timeType) && bv.Type().ConvertibleTo(timeType) &&
		av.Kind() == reflect.Struct && bv.Kind() == reflect.Struct {
		at := av.Convert(timeType).Interface().(time.Time)
		bt := bv.Convert(timeType).Interface().(time.Time)
		switch {
		case at.Before(bt):
			return -1, true
		case at.After(bt):
			return 1, true
		}
		return 0, true
	}

	switch {
	case av.Kind() == reflect.String && bv.Kind() == reflect.String:
		return strings.Compare(av.String(), bv.String()), true

	case av.Kind() == reflect.Bool && bv.Kind() == reflect.Bool:
		switch {
		case av.Bool() == bv.Bool():
			return 0, true
		case bv.Bool():
			return -1, true
		}
		return 1, true

	case isNumeric(av) && isNumeric(bv):
		af, bf := numericValue(av), numericValue(bv)
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}

	return 0, false
}

func isNumeric(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func numericValue(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	default:
		return v.Float()
	}
}
