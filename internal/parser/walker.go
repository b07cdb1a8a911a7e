// Package parser implements the sync and async graph walkers: recursive
// traversal of a Go value into the IR, sharing almost all of their
// dispatch logic (the async walker differs only in awaiting Promise
// values and threading a context.Context through recursion). Dispatch is
// a type switch on the concrete input, one small function per variant.
package parser

import (
	"context"
	"encoding/base64"
	"math"
	"math/big"
	"sort"
	"strconv"
	"time"

	"github.com/aledsdavies/graphcode/escape"
	"github.com/aledsdavies/graphcode/gate"
	"github.com/aledsdavies/graphcode/internal/errs"
	"github.com/aledsdavies/graphcode/internal/parsectx"
	"github.com/aledsdavies/graphcode/internal/values"
	"github.com/aledsdavies/graphcode/ir"
	"github.com/aledsdavies/graphcode/registry"
)

// walker holds the state threaded through one parse. async is false for
// the sync walker; ctx is nil in that case and background() is used
// instead for interface methods that always take a context.Context.
type walker struct {
	pc    *parsectx.Context
	ctx   context.Context
	async bool
}

func (w *walker) background() context.Context {
	if w.async {
		return w.ctx
	}
	return context.Background()
}

// parse dispatches on the concrete type of v, the single recursion point
// for both walkers.
func (w *walker) parse(v any) (*ir.Node, error) {
	if v == nil {
		return ir.Null(), nil
	}
	if v == values.Undefined {
		return ir.Undefined(), nil
	}

	if w.async {
		if err := w.ctx.Err(); err != nil {
			return nil, err
		}
	}

	if key, ok := registry.LookupByValue(v); ok {
		return ir.Reference(key), nil
	}

	if node, ok := numericNode(v); ok {
		return node, nil
	}

	if node, handled, err := w.parseTypedArray(v); handled {
		return node, err
	}

	switch vv := v.(type) {
	case bool:
		return ir.Bool(vv), nil
	case string:
		return w.parseString(vv)
	case *big.Int:
		return w.parseBigInt(vv)
	case time.Time:
		return w.parseDate(vv)
	case values.RegExp:
		return w.parseRegExp(vv)
	case []any:
		return w.parseArray(vv)
	case *values.Object:
		return w.parseObject(vv)
	case map[string]any:
		return w.parseGoMap(vv)
	case *values.NullObject:
		return w.parseNullObject(vv)
	case *values.Set:
		return w.parseSet(vv)
	case *values.Map:
		return w.parseMap(vv)
	case values.AggregateError:
		return w.parseAggregateError(vv)
	case error:
		return w.parseError(vv)
	case values.ArrayBuffer:
		return w.parseArrayBuffer(vv)
	case *values.DataView:
		return w.parseDataView(*vv, vv)
	case values.DataView:
		return w.parseDataView(vv, nil)
	case values.File:
		return w.parseFile(vv)
	case values.Blob:
		return w.parseBlob(vv)
	case values.URLValue:
		return w.parseURL(vv)
	case values.URLSearchParamsValue:
		return w.parseURLSearchParams(vv)
	case values.HeadersValue:
		return w.parseHeaders(vv)
	case values.FormDataValue:
		return w.parseFormData(vv)
	case values.Symbol:
		return w.parseSymbol(vv)
	case values.Iterable:
		return w.parseIterable(vv)
	case values.Awaitable:
		return w.parsePromise(vv)
	default:
		return nil, errs.UnsupportedTypeError(v)
	}
}

// identifyOrAlloc is the single entry point for claiming an id for a
// reference-typed value. fresh reports whether this is the value's first
// encounter this parse (build a full node); when false the caller must
// mark id and emit an IndexedValue back-reference instead.
func identifyOrAlloc(pc *parsectx.Context, v any) (id uint32, fresh bool) {
	if id, wasFresh, ok := pc.Intern(v); ok {
		return id, wasFresh
	}
	return pc.AllocID(), true
}

// --- Primitives ---------------------------------------------------------

func numericNode(v any) (*ir.Node, bool) {
	switch vv := v.(type) {
	case int:
		return ir.Number(strconv.Itoa(vv)), true
	case int8:
		return ir.Number(strconv.FormatInt(int64(vv), 10)), true
	case int16:
		return ir.Number(strconv.FormatInt(int64(vv), 10)), true
	case int32:
		return ir.Number(strconv.FormatInt(int64(vv), 10)), true
	case int64:
		return ir.Number(strconv.FormatInt(vv, 10)), true
	case uint:
		return ir.Number(strconv.FormatUint(uint64(vv), 10)), true
	case uint8:
		return ir.Number(strconv.FormatUint(uint64(vv), 10)), true
	case uint16:
		return ir.Number(strconv.FormatUint(uint64(vv), 10)), true
	case uint32:
		return ir.Number(strconv.FormatUint(uint64(vv), 10)), true
	case uint64:
		return ir.Number(strconv.FormatUint(vv, 10)), true
	case float32:
		return numberNodeFromFloat(float64(vv)), true
	case float64:
		return numberNodeFromFloat(vv), true
	default:
		return nil, false
	}
}

func numberNodeFromFloat(f float64) *ir.Node {
	switch {
	case math.IsNaN(f):
		return ir.NaN()
	case math.IsInf(f, 1):
		return ir.PosInfinity()
	case math.IsInf(f, -1):
		return ir.NegInfinity()
	case f == 0 && math.Signbit(f):
		return ir.NegZero()
	default:
		return ir.Number(formatFloatText(f))
	}
}

func formatFloatText(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// parseString interns by content: two equal strings share one id and the
// second occurrence is a back-reference, a deliberate deduplication
// optimization (see DESIGN.md).
func (w *walker) parseString(s string) (*ir.Node, error) {
	id, fresh := w.pc.InternString(s)
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}
	return ir.Str(id, escape.Escape(s)), nil
}

// parseBigInt never tracks identity: big integers share the Primitive
// tag's literal-text treatment with plain numbers, not the reference-typed
// identity list.
func (w *walker) parseBigInt(b *big.Int) (*ir.Node, error) {
	if err := gate.Require(w.pc.Gate(), gate.BigInt); err != nil {
		return nil, errs.FeatureMissingError(err)
	}
	return ir.BigIntLit(b.String()), nil
}

func (w *walker) parseDate(t time.Time) (*ir.Node, error) {
	id := w.pc.AllocID() // time.Time is a value type; no stable pointer identity
	return ir.Date(id, t.UTC().Format(time.RFC3339Nano)), nil
}

func (w *walker) parseRegExp(r values.RegExp) (*ir.Node, error) {
	id := w.pc.AllocID()
	return ir.RegExp(id, r.Source, r.Flags), nil
}

func (w *walker) parseSymbol(s values.Symbol) (*ir.Node, error) {
	if err := gate.Require(w.pc.Gate(), gate.Symbol); err != nil {
		return nil, errs.FeatureMissingError(err)
	}
	return ir.WellKnownSymbol(s.Name), nil
}

// --- Containers -----------------------------------------------------

func (w *walker) parseArray(a []any) (*ir.Node, error) {
	id, fresh := identifyOrAlloc(w.pc, a)
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}

	elems := make([]*ir.Node, len(a))
	for i, v := range a {
		if v == values.Hole {
			continue // nil element denotes a hole
		}
		node, err := w.parse(v)
		if err != nil {
			return nil, err
		}
		elems[i] = node
	}
	return ir.Array(id, elems), nil
}

func (w *walker) parseObject(o *values.Object) (*ir.Node, error) {
	id, fresh := identifyOrAlloc(w.pc, o)
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}

	rec, err := w.parseKeyedFields(o.Keys, o.Vals)
	if err != nil {
		return nil, err
	}
	return ir.Object(id, rec), nil
}

func (w *walker) parseGoMap(m map[string]any) (*ir.Node, error) {
	id, fresh := identifyOrAlloc(w.pc, m)
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}

	keys := sortedKeys(m)
	vals := make([]any, len(keys))
	for i, k := range keys {
		vals[i] = m[k]
	}

	rec, err := w.parseKeyedFields(keys, vals)
	if err != nil {
		return nil, err
	}
	return ir.Object(id, rec), nil
}

func (w *walker) parseNullObject(o *values.NullObject) (*ir.Node, error) {
	id, fresh := identifyOrAlloc(w.pc, o)
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}

	rec, err := w.parseKeyedFields(o.Keys, o.Vals)
	if err != nil {
		return nil, err
	}
	return ir.NullConstructor(id, rec), nil
}

// parseKeyedFields recurses eager (non-iterable) values first in
// insertion order, then deferred (iterable) values afterwards in
// insertion order, while assembling the result back into original key
// order.
func (w *walker) parseKeyedFields(keys []string, vals []any) (*ir.Record, error) {
	n := len(keys)
	order := partitionEagerDeferred(n, func(i int) bool { return isDeferred(vals[i]) })

	nodes := make([]*ir.Node, n)
	for _, i := range order {
		node, err := w.parse(vals[i])
		if err != nil {
			return nil, err
		}
		nodes[i] = node
	}
	return &ir.Record{Keys: append([]string(nil), keys...), Vals: nodes}, nil
}

func (w *walker) parseSet(s *values.Set) (*ir.Node, error) {
	if err := gate.Require(w.pc.Gate(), gate.Set); err != nil {
		return nil, errs.FeatureMissingError(err)
	}

	id, fresh := identifyOrAlloc(w.pc, s)
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}

	items := s.Items()
	elems := make([]*ir.Node, len(items))
	for i, v := range items {
		node, err := w.parse(v)
		if err != nil {
			return nil, err
		}
		elems[i] = node
	}
	return ir.SetNode(id, elems), nil
}

func (w *walker) parseMap(m *values.Map) (*ir.Node, error) {
	if err := gate.Require(w.pc.Gate(), gate.Map); err != nil {
		return nil, errs.FeatureMissingError(err)
	}

	id, fresh := identifyOrAlloc(w.pc, m)
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}

	n := len(m.Keys)
	order := partitionEagerDeferred(n, func(i int) bool {
		return isDeferred(m.Keys[i]) || isDeferred(m.Vals[i])
	})

	keyNodes := make([]*ir.Node, n)
	valNodes := make([]*ir.Node, n)
	for _, i := range order {
		kn, err := w.parse(m.Keys[i])
		if err != nil {
			return nil, err
		}
		vn, err := w.parse(m.Vals[i])
		if err != nil {
			return nil, err
		}
		keyNodes[i] = kn
		valNodes[i] = vn
	}

	return ir.MapNode(id, n, &ir.Record{KeyNodes: keyNodes, Vals: valNodes}), nil
}

func isDeferred(v any) bool {
	_, ok := v.(values.Iterable)
	return ok
}

// partitionEagerDeferred returns the indices [0,n) reordered so every index
// for which deferred reports false comes first (in original order),
// followed by every index for which it reports true (also in original
// order).
func partitionEagerDeferred(n int, deferred func(i int) bool) []int {
	order := make([]int, 0, n)
	var tail []int
	for i := 0; i < n; i++ {
		if deferred(i) {
			tail = append(tail, i)
		} else {
			order = append(order, i)
		}
	}
	return append(order, tail...)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- Errors -----------------------------------------------------

func (w *walker) parseError(err error) (*ir.Node, error) {
	id, fresh := identifyOrAlloc(w.pc, err)
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}

	ctor := "Error"
	if named, ok := err.(values.NamedError); ok {
		ctor = named.ErrorName()
	}
	return ir.ErrorNode(id, ctor, err.Error(), nil), nil
}

func (w *walker) parseAggregateError(agg values.AggregateError) (*ir.Node, error) {
	if gateErr := gate.Require(w.pc.Gate(), gate.AggregateError); gateErr != nil {
		return nil, errs.FeatureMissingError(gateErr)
	}

	id, fresh := identifyOrAlloc(w.pc, agg)
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}

	inner := agg.Errors()
	elems := make([]*ir.Node, len(inner))
	for i, e := range inner {
		node, err := w.parse(e)
		if err != nil {
			return nil, err
		}
		elems[i] = node
	}
	return ir.AggregateErrorNode(id, elems, agg.Error(), nil), nil
}

// --- Buffers & web-platform values -----------------------------------

func (w *walker) parseArrayBuffer(b values.ArrayBuffer) (*ir.Node, error) {
	id, fresh := identifyOrAlloc(w.pc, []byte(b))
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}
	return ir.ArrayBuffer(id, base64.StdEncoding.EncodeToString(b)), nil
}

// parseDataView identifies by identity (a *DataView pointer) when the
// caller supplied one; a bare value has no stable identity of its own and
// falls back to an always-fresh id, matching the RegExp/Date treatment of
// pass-by-value reference types.
func (w *walker) parseDataView(dv values.DataView, identity any) (*ir.Node, error) {
	id, fresh := identifyOrAlloc(w.pc, identity)
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}
	bufChild := ir.ArrayBuffer(w.pc.AllocID(), base64.StdEncoding.EncodeToString(dv.Buffer))
	return ir.DataView(id, bufChild, uint32(dv.ByteOffset), uint32(dv.ByteLength)), nil
}

func (w *walker) parseBlob(b values.Blob) (*ir.Node, error) {
	if err := gate.Require(w.pc.Gate(), gate.WebAPI); err != nil {
		return nil, errs.FeatureMissingError(err)
	}

	id, fresh := identifyOrAlloc(w.pc, b)
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}

	bytes, err := b.BlobBytes(w.background())
	if err != nil {
		return nil, err
	}
	bytesChild := ir.ArrayBuffer(w.pc.AllocID(), base64.StdEncoding.EncodeToString(bytes))
	return ir.Blob(id, b.MIMEType(), bytesChild), nil
}

func (w *walker) parseFile(f values.File) (*ir.Node, error) {
	if err := gate.Require(w.pc.Gate(), gate.WebAPI); err != nil {
		return nil, errs.FeatureMissingError(err)
	}

	id, fresh := identifyOrAlloc(w.pc, f)
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}

	bytes, err := f.BlobBytes(w.background())
	if err != nil {
		return nil, err
	}
	bytesChild := ir.ArrayBuffer(w.pc.AllocID(), base64.StdEncoding.EncodeToString(bytes))
	return ir.File(id, f.MIMEType(), f.FileName(), f.LastModified(), bytesChild), nil
}

func (w *walker) parseURL(u values.URLValue) (*ir.Node, error) {
	if err := gate.Require(w.pc.Gate(), gate.WebAPI); err != nil {
		return nil, errs.FeatureMissingError(err)
	}
	id, fresh := identifyOrAlloc(w.pc, u)
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}
	return ir.URL(id, u.Href()), nil
}

func (w *walker) parseURLSearchParams(p values.URLSearchParamsValue) (*ir.Node, error) {
	if err := gate.Require(w.pc.Gate(), gate.WebAPI); err != nil {
		return nil, errs.FeatureMissingError(err)
	}
	id, fresh := identifyOrAlloc(w.pc, p)
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}
	rec, err := w.parsePairs(p.Pairs())
	if err != nil {
		return nil, err
	}
	return ir.URLSearchParams(id, rec), nil
}

func (w *walker) parseHeaders(h values.HeadersValue) (*ir.Node, error) {
	if err := gate.Require(w.pc.Gate(), gate.WebAPI); err != nil {
		return nil, errs.FeatureMissingError(err)
	}
	id, fresh := identifyOrAlloc(w.pc, h)
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}
	rec, err := w.parsePairs(h.Pairs())
	if err != nil {
		return nil, err
	}
	return ir.Headers(id, rec), nil
}

func (w *walker) parsePairs(pairs [][2]string) (*ir.Record, error) {
	keys := make([]string, len(pairs))
	vals := make([]any, len(pairs))
	for i, p := range pairs {
		keys[i] = p[0]
		vals[i] = p[1]
	}
	return w.parseKeyedFields(keys, vals)
}

func (w *walker) parseFormData(f values.FormDataValue) (*ir.Node, error) {
	if err := gate.Require(w.pc.Gate(), gate.WebAPI); err != nil {
		return nil, errs.FeatureMissingError(err)
	}
	id, fresh := identifyOrAlloc(w.pc, f)
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}

	entries := f.Entries()
	keys := make([]string, len(entries))
	vals := make([]any, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
		vals[i] = e.Value
	}
	rec, err := w.parseKeyedFields(keys, vals)
	if err != nil {
		return nil, err
	}
	return ir.FormData(id, rec), nil
}

// --- Iterables & promises -----------------------------------------------

func (w *walker) parseIterable(it values.Iterable) (*ir.Node, error) {
	id, fresh := identifyOrAlloc(w.pc, it)
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}

	var elems []*ir.Node
	for {
		v, ok, err := it.Next(w.background())
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		node, err := w.parse(v)
		if err != nil {
			return nil, err
		}
		elems = append(elems, node)
	}
	return ir.Iterable(id, elems), nil
}

func (w *walker) parsePromise(a values.Awaitable) (*ir.Node, error) {
	if err := gate.Require(w.pc.Gate(), gate.Promise); err != nil {
		return nil, errs.FeatureMissingError(err)
	}

	id, fresh := identifyOrAlloc(w.pc, a)
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}

	if !w.async {
		// The sync walker never awaits; the promise node is emitted
		// unresolved.
		return ir.Promise(id, nil), nil
	}

	resolved, err := a.Await(w.ctx)
	if err != nil {
		if ctxErr := w.ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	child, err := w.parse(resolved)
	if err != nil {
		return nil, err
	}
	return ir.Promise(id, child), nil
}
