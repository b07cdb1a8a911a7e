// Package ir defines the intermediate representation produced by the
// parsers and consumed by the emitter: a tagged-variant tree with a
// fixed-arity frame of optional slots per node.
//
// Constructors and slot accessors live here; the IR is a pure data shape
// with a single byte per node kind (Tag), switched on in the parsers and
// the emitter, and is compared structurally as plain Go values.
package ir

// Tag discriminates the variant a Node holds. Dispatch in both the parser
// and the emitter is a single switch on Tag — there is no virtual-method
// hierarchy.
type Tag uint8

const (
	TagPrimitive Tag = iota + 1
	TagString
	TagDate
	TagRegExp
	TagArray
	TagObject
	TagNullConstructor
	TagSet
	TagMap
	TagError
	TagAggregateError
	TagTypedArray
	TagBigIntTypedArray
	TagArrayBuffer
	TagDataView
	TagBlob
	TagFile
	TagURL
	TagURLSearchParams
	TagHeaders
	TagFormData
	TagIterable
	TagPromise
	TagReference
	TagIndexedValue
	TagWellKnownSymbol
)

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "Unknown"
}

var tagNames = map[Tag]string{
	TagPrimitive:        "Primitive",
	TagString:           "String",
	TagDate:             "Date",
	TagRegExp:           "RegExp",
	TagArray:            "Array",
	TagObject:           "Object",
	TagNullConstructor:  "NullConstructor",
	TagSet:              "Set",
	TagMap:              "Map",
	TagError:            "Error",
	TagAggregateError:   "AggregateError",
	TagTypedArray:       "TypedArray",
	TagBigIntTypedArray: "BigIntTypedArray",
	TagArrayBuffer:      "ArrayBuffer",
	TagDataView:         "DataView",
	TagBlob:             "Blob",
	TagFile:             "File",
	TagURL:              "URL",
	TagURLSearchParams:  "URLSearchParams",
	TagHeaders:          "Headers",
	TagFormData:         "FormData",
	TagIterable:         "Iterable",
	TagPromise:          "Promise",
	TagReference:        "Reference",
	TagIndexedValue:     "IndexedValue",
	TagWellKnownSymbol:  "WellKnownSymbol",
}

// PrimKind distinguishes the canonical singletons and literal-carrying
// forms that all share the Primitive tag: booleans, null, undefined, NaN,
// ±Infinity, and −0 are singleton canonical nodes; plain numbers and big
// integers carry their literal text in S.
type PrimKind uint8

const (
	PrimTrue PrimKind = iota + 1
	PrimFalse
	PrimNull
	PrimUndefined
	PrimNaN
	PrimPosInfinity
	PrimNegInfinity
	PrimNegZero
	PrimNumber // literal text in Node.S
	PrimBigInt // literal text in Node.S
)

// Record is the keyed-children frame: used by Object, NullConstructor
// extra fields, Error options, and Map bodies.
//
// Object/NullConstructor/error-options/iterable-options use Keys (string
// keys) with Vals of equal length; KeyNodes is left nil. Map uses KeyNodes
// instead — a JS Map key may be any value, including an object or another
// reference-typed node, so a Map's keys cannot be carried as plain strings
// — with Keys left nil and KeyNodes/Vals of equal length, and that length
// additionally required to equal Node.L.
type Record struct {
	Keys     []string
	KeyNodes []*Node
	Vals     []*Node
}

// Node is a single IR tree node. Only the slots relevant to T are
// populated; the rest are left at their zero value.
type Node struct {
	T Tag

	I *uint32 // i: identity id, reference types only
	P PrimKind
	S string   // s: literal payload (number text, bigint text, regex source, escaped string body, URL href)
	L *uint32  // l: array length / set size / map pair count
	C string   // c: constructor name (errors), MIME/content type (blob/file), or flags (regexp)
	M string   // m: message (errors) / filename (file)
	D *Record  // d: keyed children
	A []*Node  // a: ordered children; nil element denotes an array hole
	F *Node    // f: single child (promise value, blob/file payload bytes)
	B *int64   // b: auxiliary numeric (file last-modified timestamp, ms; dataview byte length)
}

// WithID returns a shallow copy of n with the identity id set. Used by
// parsers to stamp the introducing node once an id has been interned.
func (n *Node) WithID(id uint32) *Node {
	cp := *n
	cp.I = &id
	return &cp
}

// ID returns the node's identity id and whether it carries one.
func (n *Node) ID() (uint32, bool) {
	if n == nil || n.I == nil {
		return 0, false
	}
	return *n.I, true
}

// Len returns the node's L slot and whether it is set.
func (n *Node) Len() (uint32, bool) {
	if n == nil || n.L == nil {
		return 0, false
	}
	return *n.L, true
}

func u32(v uint32) *uint32 { return &v }
func i64(v int64) *int64   { return &v }

// --- Constructors -----------------------------------------------------

func Bool(v bool) *Node {
	if v {
		return &Node{T: TagPrimitive, P: PrimTrue}
	}
	return &Node{T: TagPrimitive, P: PrimFalse}
}

func Null() *Node      { return &Node{T: TagPrimitive, P: PrimNull} }
func Undefined() *Node { return &Node{T: TagPrimitive, P: PrimUndefined} }
func NaN() *Node       { return &Node{T: TagPrimitive, P: PrimNaN} }
func PosInfinity() *Node { return &Node{T: TagPrimitive, P: PrimPosInfinity} }
func NegInfinity() *Node { return &Node{T: TagPrimitive, P: PrimNegInfinity} }
func NegZero() *Node     { return &Node{T: TagPrimitive, P: PrimNegZero} }

// Number stores a plain number's textual form (the parser is responsible
// for formatting it; the emitter reproduces the text verbatim).
func Number(text string) *Node { return &Node{T: TagPrimitive, P: PrimNumber, S: text} }

// BigIntLit stores a big integer's textual form (without the "n" suffix;
// the emitter appends it).
func BigIntLit(text string) *Node { return &Node{T: TagPrimitive, P: PrimBigInt, S: text} }

// Str is a reference-typed boxed string or a free-standing string literal
// node; escaped is the already-escape-routine-processed literal body.
func Str(id uint32, escaped string) *Node {
	return &Node{T: TagString, I: u32(id), S: escaped}
}

func Date(id uint32, iso string) *Node {
	return &Node{T: TagDate, I: u32(id), S: iso}
}

func RegExp(id uint32, source, flags string) *Node {
	return &Node{T: TagRegExp, I: u32(id), S: source, C: flags}
}

func Array(id uint32, elems []*Node) *Node {
	return &Node{T: TagArray, I: u32(id), A: elems, L: u32(uint32(len(elems)))}
}

func Object(id uint32, rec *Record) *Node {
	return &Node{T: TagObject, I: u32(id), D: rec}
}

func NullConstructor(id uint32, rec *Record) *Node {
	return &Node{T: TagNullConstructor, I: u32(id), D: rec}
}

func SetNode(id uint32, elems []*Node) *Node {
	return &Node{T: TagSet, I: u32(id), A: elems, L: u32(uint32(len(elems)))}
}

// MapNode requires len(rec.KeyNodes) == len(rec.Vals) == pairs.
func MapNode(id uint32, pairs int, rec *Record) *Node {
	return &Node{T: TagMap, I: u32(id), D: rec, L: u32(uint32(pairs))}
}

func ErrorNode(id uint32, ctor, msg string, options *Record) *Node {
	return &Node{T: TagError, I: u32(id), C: ctor, M: msg, D: options}
}

func AggregateErrorNode(id uint32, errs []*Node, msg string, options *Record) *Node {
	return &Node{T: TagAggregateError, I: u32(id), A: errs, M: msg, D: options}
}

func TypedArray(id uint32, ctor string, elems []*Node, byteOffset *uint32) *Node {
	n := &Node{T: TagTypedArray, I: u32(id), C: ctor, A: elems}
	if byteOffset != nil {
		n.L = byteOffset
	}
	return n
}

func BigIntTypedArray(id uint32, ctor string, elems []*Node, byteOffset *uint32) *Node {
	n := &Node{T: TagBigIntTypedArray, I: u32(id), C: ctor, A: elems}
	if byteOffset != nil {
		n.L = byteOffset
	}
	return n
}

func ArrayBuffer(id uint32, bytesB64 string) *Node {
	return &Node{T: TagArrayBuffer, I: u32(id), S: bytesB64}
}

func DataView(id uint32, bufferChild *Node, byteOffset, byteLength uint32) *Node {
	return &Node{T: TagDataView, I: u32(id), F: bufferChild, L: u32(byteOffset), B: i64(int64(byteLength))}
}

func Blob(id uint32, mime string, bytesChild *Node) *Node {
	return &Node{T: TagBlob, I: u32(id), C: mime, F: bytesChild}
}

func File(id uint32, mime, filename string, lastModified int64, bytesChild *Node) *Node {
	return &Node{T: TagFile, I: u32(id), C: mime, M: filename, B: i64(lastModified), F: bytesChild}
}

func URL(id uint32, href string) *Node {
	return &Node{T: TagURL, I: u32(id), S: href}
}

func URLSearchParams(id uint32, rec *Record) *Node {
	return &Node{T: TagURLSearchParams, I: u32(id), D: rec}
}

func Headers(id uint32, rec *Record) *Node {
	return &Node{T: TagHeaders, I: u32(id), D: rec}
}

func FormData(id uint32, rec *Record) *Node {
	return &Node{T: TagFormData, I: u32(id), D: rec}
}

func Iterable(id uint32, elems []*Node) *Node {
	return &Node{T: TagIterable, I: u32(id), A: elems, L: u32(uint32(len(elems)))}
}

func Promise(id uint32, resolved *Node) *Node {
	return &Node{T: TagPromise, I: u32(id), F: resolved}
}

func Reference(key string) *Node {
	return &Node{T: TagReference, S: key}
}

func IndexedValue(id uint32) *Node {
	return &Node{T: TagIndexedValue, I: u32(id)}
}

func WellKnownSymbol(name string) *Node {
	return &Node{T: TagWellKnownSymbol, S: name}
}
