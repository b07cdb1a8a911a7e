package graphcode

import "github.com/aledsdavies/graphcode/internal/values"

// Undefined is the sentinel for JS's undefined, distinct from Go's nil
// (which maps to JS null).
var Undefined = values.Undefined

// Hole is the sentinel for an array gap: `[1, , 3]` has a Hole at index 1.
var Hole = values.Hole

// Object is an insertion-ordered set of key/value pairs — the faithful
// carrier for a JS object, since Go's builtin map has no retrievable
// iteration order.
type Object = values.Object

// NewObject returns an empty, insertion-ordered Object.
func NewObject() *Object { return values.NewObject() }

// NullObject is a prototype-less object (`Object.create(null)`).
type NullObject = values.NullObject

// NewNullObject returns an empty prototype-less object.
func NewNullObject() *NullObject { return values.NewNullObject() }

// Set is an insertion-ordered collection of unique elements, modeling JS Set.
type Set = values.Set

// NewSet returns an empty Set.
func NewSet() *Set { return values.NewSet() }

// Map is an insertion-ordered collection of key/value pairs where both key
// and value may be arbitrary values, modeling JS Map.
type Map = values.Map

// NewMap returns an empty Map.
func NewMap() *Map { return values.NewMap() }

// Symbol models a well-known JS symbol (Symbol.iterator and the like) by
// its conventional name.
type Symbol = values.Symbol

// RegExp models a JS regular expression literal.
type RegExp = values.RegExp

// ArrayBuffer is a raw byte buffer, modeling JS ArrayBuffer.
type ArrayBuffer = values.ArrayBuffer

// DataView is a typed view over a byte buffer at a given offset/length.
type DataView = values.DataView

// Typed array element kinds, modeling the standard JS typed array family.
type (
	Int8Array         = values.Int8Array
	Uint8Array        = values.Uint8Array
	Uint8ClampedArray = values.Uint8ClampedArray
	Int16Array        = values.Int16Array
	Uint16Array       = values.Uint16Array
	Int32Array        = values.Int32Array
	Uint32Array       = values.Uint32Array
	Float32Array      = values.Float32Array
	Float64Array      = values.Float64Array
	BigInt64Array     = values.BigInt64Array
	BigUint64Array    = values.BigUint64Array
)
