// Package values holds the concrete Go value model: the sentinels,
// container types, and capability interfaces the parser dispatches on. It
// lives apart from the root graphcode package so that
// internal/parser can depend on these types directly — the root package
// re-exports every name here as a type alias or wrapped constructor, so
// callers only ever see graphcode.Object, graphcode.Set, and so on.
package values

import (
	"math/big"
	"reflect"
)

// Undefined is the sentinel for JS's undefined, distinct from Go's nil
// (which maps to JS null). Use graphcode.Undefined as a map value, slice
// element, or struct field value wherever the original graph held
// undefined rather than null.
var Undefined = undefinedType{}

type undefinedType struct{}

// Hole is the sentinel for an array gap: `[1, , 3]` has a Hole at index 1,
// distinct from a present nil or Undefined element.
var Hole = holeType{}

type holeType struct{}

// Object is an insertion-ordered set of key/value pairs — the faithful
// carrier for a JS object, since Go's builtin map has no retrievable
// iteration order. Construct with NewObject and Set, or build Keys/Vals
// directly.
type Object struct {
	Keys []string
	Vals []any
}

// NewObject returns an empty, insertion-ordered Object.
func NewObject() *Object {
	return &Object{}
}

// Set appends a new key/value pair, or updates the value in place if key
// is already present (preserving its original position, matching JS
// object semantics for re-assignment).
func (o *Object) Set(key string, val any) *Object {
	for i, k := range o.Keys {
		if k == key {
			o.Vals[i] = val
			return o
		}
	}
	o.Keys = append(o.Keys, key)
	o.Vals = append(o.Vals, val)
	return o
}

// Get returns the value bound to key, if present.
func (o *Object) Get(key string) (any, bool) {
	for i, k := range o.Keys {
		if k == key {
			return o.Vals[i], true
		}
	}
	return nil, false
}

// Len returns the number of key/value pairs.
func (o *Object) Len() int { return len(o.Keys) }

// NullObject is a prototype-less object (`Object.create(null)`).
type NullObject struct {
	*Object
}

// NewNullObject returns an empty prototype-less object.
func NewNullObject() *NullObject {
	return &NullObject{Object: NewObject()}
}

// Set is an insertion-ordered collection of unique elements, modeling JS
// Set. Equality of elements is by Go's `==` for comparable element types;
// callers serializing structured elements should rely on shared reference
// identity (pointers) rather than deep equality, matching JS Set's
// same-value-zero semantics for objects.
type Set struct {
	items []any
	seen  map[any]bool // only populated for comparable elements
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{seen: make(map[any]bool)}
}

// Add appends v if not already present (best-effort for comparable v;
// incomparable values such as slices/maps are never deduplicated, matching
// the fact that two object literals are never `===` in JS either).
func (s *Set) Add(v any) *Set {
	if isComparable(v) {
		if s.seen[v] {
			return s
		}
		s.seen[v] = true
	}
	s.items = append(s.items, v)
	return s
}

// Items returns the elements in insertion order.
func (s *Set) Items() []any { return s.items }

// Len returns the number of elements.
func (s *Set) Len() int { return len(s.items) }

func isComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

// Map is an insertion-ordered collection of key/value pairs where both key
// and value may be arbitrary values (including reference-typed ones),
// modeling JS Map. Represented as parallel slices rather than a Go map so
// that non-comparable keys (objects, arrays) are supported and so that
// insertion order is preserved — matching the spec's own `d` slot shape of
// "equal-length key and value arrays" exactly.
type Map struct {
	Keys []any
	Vals []any
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{}
}

// Set appends a new key/value pair. Unlike Object.Set, no identity-based
// update-in-place is attempted: arbitrary keys cannot cheaply be compared,
// so repeated keys are allowed to accumulate, matching how a parser would
// observe whatever the host's own Map.set calls produced.
func (m *Map) Set(key, val any) *Map {
	m.Keys = append(m.Keys, key)
	m.Vals = append(m.Vals, val)
	return m
}

// Len returns the number of pairs.
func (m *Map) Len() int { return len(m.Keys) }

// Symbol models a well-known JS symbol (Symbol.iterator, Symbol.asyncIterator,
// and the like) by its conventional name. Arbitrary caller-defined symbols
// have no stable cross-host representation and must go through the
// identity registry instead.
type Symbol struct {
	Name string
}

// RegExp models a JS regular expression literal: Source is the pattern
// body (without delimiting slashes), Flags its modifier letters.
type RegExp struct {
	Source string
	Flags  string
}

// ArrayBuffer is a raw byte buffer, modeling JS ArrayBuffer.
type ArrayBuffer []byte

// DataView is a typed view over a byte buffer at a given offset/length.
type DataView struct {
	Buffer     []byte
	ByteOffset int
	ByteLength int
}

// Typed array element kinds, modeling the standard JS typed array family.
type (
	Int8Array         []int8
	Uint8Array        []uint8
	Uint8ClampedArray []uint8
	Int16Array        []int16
	Uint16Array       []uint16
	Int32Array        []int32
	Uint32Array       []uint32
	Float32Array      []float32
	Float64Array      []float64
	BigInt64Array     []*big.Int
	BigUint64Array    []*big.Int
)
