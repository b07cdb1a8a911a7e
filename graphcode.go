// Package graphcode converts an in-memory object graph — including shared
// references, cycles, and stateful container types — into an executable
// source-code string that reconstructs an isomorphic graph when evaluated
// in a compatible host, plus an intermediate tree form (the envelope) that
// can be transported as structured data and compiled later.
//
// The parser and emitter that do the actual work live in internal/parser
// and internal/emitter; this file is the public entry surface wiring them
// together with options resolution, the JSON envelope, and panic recovery
// at the API boundary.
package graphcode

import (
	"context"
	"fmt"

	"github.com/aledsdavies/graphcode/envelope"
	"github.com/aledsdavies/graphcode/internal/emitter"
	"github.com/aledsdavies/graphcode/internal/errs"
	"github.com/aledsdavies/graphcode/internal/parser"
	"github.com/aledsdavies/graphcode/internal/parsectx"
	"github.com/aledsdavies/graphcode/options"
	"github.com/aledsdavies/graphcode/registry"
)

// Options configures one serialize/toJSON call.
type Options = options.Options

// ParseMapOptions builds Options from an untyped configuration bag,
// rejecting unrecognized keys and flag names with a "did you mean"
// suggestion rather than ignoring them silently.
func ParseMapOptions(raw map[string]any) (Options, error) {
	return options.ParseMap(raw)
}

// RegistryLookup looks up a pre-registered value by key. A host evaluator
// must expose this under the conventional global name the emitted
// `__graphcode_ref("key")` calls expect; see Evaluator.
func RegistryLookup(key string) (any, bool) {
	return registry.LookupByKey(key)
}

// Register pre-declares value under key in the process-wide identity
// registry, so it serializes as a Reference instead of being walked
// structurally.
func Register(key string, value any) error {
	return registry.Register(key, value)
}

// Serialize walks value into IR and emits the reconstructing expression
// string.
func Serialize(value any, opts Options) (out string, err error) {
	defer recoverAssertion(&err)

	mask, err := opts.Resolve()
	if err != nil {
		return "", err
	}
	pc := parsectx.New(mask)
	pc.Begin()
	defer pc.End()

	n, err := parser.ParseSync(pc, value)
	if err != nil {
		return "", err
	}
	return emitter.Emit(pc, n)
}

// SerializeAsync is Serialize, but awaits any Promise encountered instead
// of leaving it unresolved.
func SerializeAsync(ctx context.Context, value any, opts Options) (out string, err error) {
	defer recoverAssertion(&err)

	mask, err := opts.Resolve()
	if err != nil {
		return "", err
	}
	pc := parsectx.New(mask)
	pc.Begin()
	defer pc.End()

	n, err := parser.ParseAsync(ctx, pc, value)
	if err != nil {
		return "", err
	}
	return emitter.Emit(pc, n)
}

// ToJSON walks value into IR and returns its envelope as a JSON string.
func ToJSON(value any, opts Options) (out string, err error) {
	defer recoverAssertion(&err)

	mask, err := opts.Resolve()
	if err != nil {
		return "", err
	}
	pc := parsectx.New(mask)
	pc.Begin()
	defer pc.End()

	n, err := parser.ParseSync(pc, value)
	if err != nil {
		return "", err
	}
	return envelope.ToJSON(pc, n)
}

// ToJSONAsync is ToJSON, but awaits any Promise encountered.
func ToJSONAsync(ctx context.Context, value any, opts Options) (out string, err error) {
	defer recoverAssertion(&err)

	mask, err := opts.Resolve()
	if err != nil {
		return "", err
	}
	pc := parsectx.New(mask)
	pc.Begin()
	defer pc.End()

	n, err := parser.ParseAsync(ctx, pc, value)
	if err != nil {
		return "", err
	}
	return envelope.ToJSON(pc, n)
}

// CompileJSON reconstructs the serialization context from an envelope's
// JSON and runs the emitter, without evaluating the result.
func CompileJSON(json string) (out string, err error) {
	defer recoverAssertion(&err)
	return envelope.CompileJSON([]byte(json))
}

// Deserialize evaluates an expression string produced by Serialize /
// SerializeAsync / CompileJSON. ev must make RegistryLookup available to
// the evaluated code under the `__graphcode_ref` global name any
// Reference node the expression contains expects to call.
func Deserialize(ctx context.Context, ev Evaluator, code string) (any, error) {
	v, err := ev.Eval(ctx, code)
	if err != nil {
		return nil, errs.Wrap(errs.EvaluationFailed, "deserialize: evaluator failed", err)
	}
	return v, nil
}

// FromJSON compiles an envelope's JSON to an expression and evaluates it.
func FromJSON(ctx context.Context, ev Evaluator, json string) (out any, err error) {
	defer recoverAssertion(&err)

	code, err := envelope.CompileJSON([]byte(json))
	if err != nil {
		return nil, err
	}
	return Deserialize(ctx, ev, code)
}

// recoverAssertion turns a panic raised by internal/invariant into a
// graphcode.Error{Kind: AssertionFailed} instead of letting it cross the
// API boundary.
func recoverAssertion(err *error) {
	if r := recover(); r != nil {
		*err = errs.New(errs.AssertionFailed, fmt.Sprintf("%v", r))
	}
}
