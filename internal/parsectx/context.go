// Package parsectx implements the parser context: the identity table for
// one parse, its feature gate, and the marked set of ids the emitter must
// hoist into variables.
//
// A Context is single-use: callers must never reuse a parser context
// across overlapping parses, since between suspensions the parser must
// not observe concurrent mutation of its own bookkeeping. This is
// enforced with a one-shot atomic guard rather than a mutex — a second
// concurrent parse on the same Context is a caller bug to be caught, not a
// contended resource to wait for.
package parsectx

import (
	"reflect"
	"sort"
	"sync/atomic"

	"github.com/aledsdavies/graphcode/gate"
	"github.com/aledsdavies/graphcode/internal/invariant"
)

// identKey uniquely names a reference-typed Go value for the duration of
// one parse. Go's garbage collector does not relocate heap objects, so the
// (type, address) pair a reflect.Value.Pointer() yields is stable for as
// long as the value is reachable — exactly the lifetime of one parse.
type identKey struct {
	typ  reflect.Type
	addr uintptr
}

// Context holds the identity table, feature gate, and marked set for one
// parse/emit pair.
type Context struct {
	mask gate.Mask

	nextID uint32
	ids    map[identKey]uint32
	strs   map[string]uint32
	marked map[uint32]bool

	used int32 // atomic one-shot guard, 0 = unused, 1 = in use
}

// New creates a Context gated by mask. mask is typically gate.All or the
// result of applying Options.DisabledFeatures.
func New(mask gate.Mask) *Context {
	return &Context{
		mask:   mask,
		ids:    make(map[identKey]uint32),
		strs:   make(map[string]uint32),
		marked: make(map[uint32]bool),
	}
}

// Begin claims this Context for a single parse. It panics (AssertionFailed
// at the API boundary) if the Context is already in use.
func (c *Context) Begin() {
	invariant.Precondition(atomic.CompareAndSwapInt32(&c.used, 0, 1),
		"parser context must not be reused across overlapping parses")
}

// End releases the Context so it may — per its owner's discretion — be
// reused for a subsequent, non-overlapping parse. The envelope path does
// this deliberately: parsing, then later compiling the same Context's IR,
// are sequential, not overlapping.
func (c *Context) End() {
	atomic.StoreInt32(&c.used, 0)
}

// Gate returns the feature gate in effect for this parse.
func (c *Context) Gate() gate.Mask {
	return c.mask
}

// Intern returns the id assigned to v, allocating a fresh one on first
// encounter. ok is false when v has no stable pointer identity (for
// example, a plain struct value rather than a pointer/map/slice) — such
// values cannot be recognized as "the same object" on a later encounter
// and the caller must treat them as non-reference-sharing.
func (c *Context) Intern(v any) (id uint32, wasFresh bool, ok bool) {
	key, ok := identify(v)
	if !ok {
		return 0, false, false
	}

	if existing, found := c.ids[key]; found {
		return existing, false, true
	}

	id = c.nextID
	c.nextID++
	c.ids[key] = id
	return id, true, true
}

// InternString returns the id assigned to a string's content, allocating a
// fresh one on first encounter. Unlike Intern, identity here is by value:
// two Go strings with equal content are the same JS string primitive and
// may share a single hoisted variable if repeated often enough to be worth
// back-referencing.
func (c *Context) InternString(s string) (id uint32, wasFresh bool) {
	if existing, found := c.strs[s]; found {
		return existing, false
	}

	id = c.nextID
	c.nextID++
	c.strs[s] = id
	return id, true
}

// AllocID allocates a fresh id without recording it in the identity table.
// Used for reference-typed values with no stable Go pointer identity (a
// struct passed by value, such as a RegExp or Date literal): the value
// still needs an id to satisfy the IR node constructors, but it can never
// be recognized as "the same object" on a later encounter, so there is
// nothing to intern.
func (c *Context) AllocID() uint32 {
	id := c.nextID
	c.nextID++
	return id
}

// Mark records that id must be hoisted into a variable by the emitter: it
// is either referenced more than once or participates in a cycle.
func (c *Context) Mark(id uint32) {
	c.marked[id] = true
}

// IsMarked reports whether id has been marked.
func (c *Context) IsMarked(id uint32) bool {
	return c.marked[id]
}

// MarkedIDs returns every marked id in ascending order — the order
// persisted in the envelope's `m` field.
func (c *Context) MarkedIDs() []uint32 {
	out := make([]uint32, 0, len(c.marked))
	for id := range c.marked {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SeedMarked pre-populates the marked set — used when reconstructing a
// Context from an envelope's persisted `m` field.
func (c *Context) SeedMarked(ids []uint32) {
	for _, id := range ids {
		c.marked[id] = true
	}
}

// SeedNextID advances the id allocator past max — used when a Context is
// reconstructed for emission only and must not collide with ids already
// present in the IR it did not itself intern.
func (c *Context) SeedNextID(max uint32) {
	if max >= c.nextID {
		c.nextID = max + 1
	}
}

func identify(v any) (identKey, bool) {
	if v == nil {
		return identKey{}, false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		if rv.IsNil() {
			return identKey{}, false
		}
		return identKey{typ: rv.Type(), addr: rv.Pointer()}, true
	default:
		return identKey{}, false
	}
}
