// Package errs holds the Error/Kind shape in an internal package so that
// internal/parser and internal/emitter can construct and return it
// directly — the root graphcode package aliases Kind and Error, so callers
// only ever see graphcode.Error.
package errs

import "fmt"

// Kind classifies an Error into one of four fixed categories.
type Kind uint8

const (
	// UnsupportedType: the parser encountered a value it has no variant
	// for and that is not pre-registered in the identity registry.
	UnsupportedType Kind = iota
	// FeatureMissing: a value needs an optional target-syntax feature the
	// caller's gate.Mask has disabled.
	FeatureMissing
	// AssertionFailed: an internal invariant was violated — a bug, never
	// expected in valid use. Raised by recovering an internal/invariant
	// panic at the public API boundary.
	AssertionFailed
	// EvaluationFailed: an Evaluator returned an error, or an envelope
	// failed schema validation during Deserialize/FromJSON.
	EvaluationFailed
)

func (k Kind) String() string {
	switch k {
	case UnsupportedType:
		return "UnsupportedType"
	case FeatureMissing:
		return "FeatureMissing"
	case AssertionFailed:
		return "AssertionFailed"
	case EvaluationFailed:
		return "EvaluationFailed"
	default:
		return "Unknown"
	}
}

// Error is the single error type graphcode returns. Context carries ad-hoc
// diagnostic key/value pairs without growing the Kind enum.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext attaches a diagnostic key/value pair and returns e for
// chaining.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New creates an Error with no cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// UnsupportedTypeError reports a value the parser has no variant for.
func UnsupportedTypeError(v any) *Error {
	return New(UnsupportedType, fmt.Sprintf("unsupported value of type %T", v)).
		WithContext("goType", fmt.Sprintf("%T", v))
}

// FeatureMissingError reports a value that needs a disabled feature flag.
func FeatureMissingError(cause error) *Error {
	return Wrap(FeatureMissing, "required feature is disabled", cause)
}
