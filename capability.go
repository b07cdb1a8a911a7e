package graphcode

import "github.com/aledsdavies/graphcode/internal/values"

// Evaluator is the ambient host evaluator that executes an emitted
// expression string; this module only emits syntax, it never runs it.
// Deserialize/FromJSON take one explicitly rather than reaching for a
// package-global, so a caller can plug in whatever embedded runtime — or
// test double — it has.
type Evaluator = values.Evaluator

// Awaitable models a JS Promise for the async parser. Go has no native
// await; the async parser calls Await directly and propagates ctx.Err() as
// a failure if the context is cancelled first.
type Awaitable = values.Awaitable

// Iterable models a one-shot, possibly-exhausting source of values (a
// generator). Next returns ok=false once exhausted.
type Iterable = values.Iterable

// NamedError lets an error override the constructor name the parser would
// otherwise use, which is "Error".
type NamedError = values.NamedError

// AggregateError models JS AggregateError: an error bundling others.
type AggregateError = values.AggregateError

// Blob models a binary payload with a MIME type.
type Blob = values.Blob

// File is a named, timestamped Blob.
type File = values.File

// URLValue models a JS URL.
type URLValue = values.URLValue

// URLSearchParamsValue models a JS URLSearchParams as ordered pairs.
type URLSearchParamsValue = values.URLSearchParamsValue

// HeadersValue models a JS Headers as ordered pairs.
type HeadersValue = values.HeadersValue

// FormDataEntry is one field of a FormData body. Value is either a string
// or a Blob.
type FormDataEntry = values.FormDataEntry

// FormDataValue models a JS FormData.
type FormDataValue = values.FormDataValue
