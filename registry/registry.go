// Package registry implements the process-wide identity registry: a
// bidirectional table between caller-chosen string keys and host values,
// pre-registered before a parse so that functions, symbols, and any other
// value the caller wants to treat as opaque serialize as a lookup rather
// than being decomposed.
//
// A sync.RWMutex-guarded map backs a package-level singleton, with free
// functions delegating to it (the database/sql driver-registration idiom).
package registry

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry is a bidirectional key<->value table. The zero value is not
// usable; construct with New.
type Registry struct {
	mu        sync.RWMutex
	byKey     map[string]any
	keyOfAddr map[any]string // reverse index, keyed by comparable values only
}

// New creates an empty Registry. Most callers use the package-level
// singleton via Register/LookupByValue/LookupByKey instead of a private
// instance, but tests benefit from an isolated Registry per case.
func New() *Registry {
	return &Registry{
		byKey:     make(map[string]any),
		keyOfAddr: make(map[any]string),
	}
}

// Register binds key to value. It fails if key is already bound —
// registration is write-once.
func (r *Registry) Register(key string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKey[key]; exists {
		return fmt.Errorf("registry: key %q is already registered", key)
	}

	r.byKey[key] = value
	if isComparable(value) {
		r.keyOfAddr[value] = key
	}
	return nil
}

// LookupByKey returns the value bound to key, if any.
func (r *Registry) LookupByKey(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byKey[key]
	return v, ok
}

// LookupByValue returns the key a value was registered under, if any.
//
// Only comparable values (those usable as Go map keys — this excludes
// slices, maps, and funcs) can be looked up by value; a value of an
// incomparable type can still be registered and looked up by key, but the
// parser cannot recognize it by identity alone and so cannot emit a
// Reference node for it automatically.
func (r *Registry) LookupByValue(value any) (string, bool) {
	if !isComparable(value) {
		return "", false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	k, ok := r.keyOfAddr[value]
	return k, ok
}

func isComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

// global is the process-wide registry that the emitted code's host lookup
// global is expected to read from at evaluation time.
var global = New()

// Register binds key to value in the process-wide registry.
func Register(key string, value any) error {
	return global.Register(key, value)
}

// LookupByKey looks up a value in the process-wide registry by key.
func LookupByKey(key string) (any, bool) {
	return global.LookupByKey(key)
}

// LookupByValue looks up a key in the process-wide registry by value.
func LookupByValue(value any) (string, bool) {
	return global.LookupByValue(value)
}

// Global returns the process-wide registry, for hosts that need to expose
// it under a conventional global name to the evaluator.
func Global() *Registry {
	return global
}
