package values

import "context"

// Evaluator is the ambient host evaluator that executes an emitted
// expression string; this module only emits syntax, it never runs it.
// Deserialize/FromJSON take one explicitly rather than reaching for a
// package-global, so a caller can plug in whatever embedded runtime — or
// test double — it has.
type Evaluator interface {
	Eval(ctx context.Context, expr string) (any, error)
}

// Awaitable models a JS Promise for the async parser. Go has no native
// await; the async parser calls Await directly and propagates ctx.Err() as
// a failure if the context is cancelled first.
type Awaitable interface {
	Await(ctx context.Context) (any, error)
}

// Iterable models a one-shot, possibly-exhausting source of values (a
// generator). Next returns ok=false once exhausted.
type Iterable interface {
	Next(ctx context.Context) (value any, ok bool, err error)
}

// NamedError lets an error override the constructor name the parser would
// otherwise use, which is "Error".
type NamedError interface {
	error
	ErrorName() string
}

// AggregateError models JS AggregateError: an error bundling others.
type AggregateError interface {
	error
	Errors() []error
}

// Blob models a binary payload with a MIME type. BlobBytes takes a context
// since a host-backed Blob may read from disk or network.
type Blob interface {
	BlobBytes(ctx context.Context) ([]byte, error)
	MIMEType() string
}

// File is a named, timestamped Blob.
type File interface {
	Blob
	FileName() string
	LastModified() int64 // ms since epoch
}

// URLValue models a JS URL.
type URLValue interface {
	Href() string
}

// URLSearchParamsValue models a JS URLSearchParams as ordered pairs.
type URLSearchParamsValue interface {
	Pairs() [][2]string
}

// HeadersValue models a JS Headers as ordered pairs.
type HeadersValue interface {
	Pairs() [][2]string
}

// FormDataEntry is one field of a FormData body. Value is either a string
// or a Blob.
type FormDataEntry struct {
	Key   string
	Value any
}

// FormDataValue models a JS FormData.
type FormDataValue interface {
	Entries() []FormDataEntry
}
