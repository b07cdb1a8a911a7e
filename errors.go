package graphcode

import "github.com/aledsdavies/graphcode/internal/errs"

// Kind classifies a graphcode.Error into one of four fixed categories.
type Kind = errs.Kind

const (
	// UnsupportedType: the parser encountered a value it has no variant
	// for and that is not pre-registered in the identity registry.
	UnsupportedType = errs.UnsupportedType
	// FeatureMissing: a value needs an optional target-syntax feature the
	// caller's gate.Mask has disabled.
	FeatureMissing = errs.FeatureMissing
	// AssertionFailed: an internal invariant was violated — a bug, never
	// expected in valid use. Raised by recovering an internal/invariant
	// panic at the public API boundary.
	AssertionFailed = errs.AssertionFailed
	// EvaluationFailed: an Evaluator returned an error, or an envelope
	// failed schema validation during Deserialize/FromJSON.
	EvaluationFailed = errs.EvaluationFailed
)

// Error is the single error type this module returns. Context carries
// ad-hoc diagnostic key/value pairs (the Go value's type name, the offending
// map key, the missing feature name) without growing the Kind enum.
type Error = errs.Error
