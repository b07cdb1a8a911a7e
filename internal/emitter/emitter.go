// Package emitter renders an IR tree into a single, self-contained
// expression string that reconstructs an isomorphic value graph when
// evaluated: a recursive writer switching on a node's tag, assembling
// output by string concatenation rather than through an AST library.
package emitter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aledsdavies/graphcode/escape"
	"github.com/aledsdavies/graphcode/gate"
	"github.com/aledsdavies/graphcode/internal/errs"
	"github.com/aledsdavies/graphcode/internal/parsectx"
	"github.com/aledsdavies/graphcode/ir"
)

// Emit renders n into an executable expression string. pc must be the
// parsectx.Context that produced n: its gate and marked ids drive emission.
func Emit(pc *parsectx.Context, n *ir.Node) (string, error) {
	e := newEmitter(pc.Gate(), pc.MarkedIDs())
	rootExpr, err := e.emitNode(n)
	if err != nil {
		return "", err
	}
	patches := e.flushDeferred()
	return e.finalize(rootExpr, patches, n), nil
}

type emitter struct {
	gate   gate.Mask
	marked map[uint32]bool

	names map[uint32]string
	order []uint32 // allocation order — doubles as the closure's parameter list

	ancestors []uint32
	deferred  []deferredEntry
}

func newEmitter(mask gate.Mask, markedIDs []uint32) *emitter {
	marked := make(map[uint32]bool, len(markedIDs))
	for _, id := range markedIDs {
		marked[id] = true
	}
	return &emitter{
		gate:   mask,
		marked: marked,
		names:  make(map[uint32]string),
	}
}

// varName assigns a name to id on first request and remembers the
// allocation order: each marked id gets a short variable name on first
// emission.
func (e *emitter) varName(id uint32) string {
	if name, ok := e.names[id]; ok {
		return name
	}
	name := encodeVarName(uint32(len(e.order)))
	e.names[id] = name
	e.order = append(e.order, id)
	return name
}

func (e *emitter) isAncestorRef(n *ir.Node) (uint32, bool) {
	if n == nil || n.T != ir.TagIndexedValue {
		return 0, false
	}
	id, _ := n.ID()
	for _, a := range e.ancestors {
		if a == id {
			return id, true
		}
	}
	return 0, false
}

// childText renders n normally unless it is a reference to a
// currently-open ancestor, in which case isRef reports true and text holds
// the ancestor's variable name — the caller must defer this child rather
// than embed it inline.
func (e *emitter) childText(n *ir.Node) (text string, isRef bool, err error) {
	if refID, ok := e.isAncestorRef(n); ok {
		return e.varName(refID), true, nil
	}
	text, err = e.emitNode(n)
	return text, false, err
}

// emitNode is the single dispatch point: it resolves back-references and
// references directly, then hands everything else to buildExpr, wrapping
// the result as `(vN=expr)` when n's id is shared or needed as a deferred
// patch target.
func (e *emitter) emitNode(n *ir.Node) (string, error) {
	switch n.T {
	case ir.TagIndexedValue:
		id, _ := n.ID()
		return e.varName(id), nil
	case ir.TagReference:
		return e.emitReference(n), nil
	}

	id, hasID := n.ID()
	originallyMarked := hasID && e.marked[id]

	if hasID {
		e.ancestors = append(e.ancestors, id)
	}
	deferredBefore := len(e.deferred)
	expr, err := e.buildExpr(n, id)
	if hasID {
		e.ancestors = e.ancestors[:len(e.ancestors)-1]
	}
	if err != nil {
		return "", err
	}
	if !hasID {
		return expr, nil
	}

	needsBind := originallyMarked
	if !needsBind {
		for _, d := range e.deferred[deferredBefore:] {
			if d.targetID == id {
				needsBind = true
				break
			}
		}
	}
	if needsBind {
		return "(" + e.varName(id) + "=" + expr + ")", nil
	}
	return expr, nil
}

func (e *emitter) emitReference(n *ir.Node) string {
	return `__graphcode_ref("` + escape.Escape(n.S) + `")`
}

func (e *emitter) buildExpr(n *ir.Node, selfID uint32) (string, error) {
	switch n.T {
	case ir.TagPrimitive:
		return e.primitiveText(n), nil
	case ir.TagString:
		return `"` + n.S + `"`, nil
	case ir.TagDate:
		return `new Date("` + n.S + `")`, nil
	case ir.TagRegExp:
		return "/" + n.S + "/" + n.C, nil
	case ir.TagWellKnownSymbol:
		return "Symbol." + n.S, nil
	case ir.TagArray:
		return e.emitArray(n, selfID)
	case ir.TagObject:
		return e.emitObject(n, selfID)
	case ir.TagNullConstructor:
		return e.emitNullConstructor(n, selfID)
	case ir.TagSet:
		return e.emitSet(n, selfID)
	case ir.TagMap:
		return e.emitMap(n, selfID)
	case ir.TagError:
		return e.emitError(n, selfID)
	case ir.TagAggregateError:
		return e.emitAggregateError(n, selfID)
	case ir.TagTypedArray:
		return e.emitTypedArray(n)
	case ir.TagBigIntTypedArray:
		return e.emitTypedArray(n)
	case ir.TagArrayBuffer:
		return e.emitArrayBuffer(n)
	case ir.TagDataView:
		return e.emitDataView(n)
	case ir.TagBlob:
		return e.emitBlob(n)
	case ir.TagFile:
		return e.emitFile(n)
	case ir.TagURL:
		return e.emitURL(n)
	case ir.TagURLSearchParams:
		return e.emitPairs(n, "URLSearchParams")
	case ir.TagHeaders:
		return e.emitPairs(n, "Headers")
	case ir.TagFormData:
		return e.emitFormData(n)
	case ir.TagIterable:
		return e.emitIterable(n)
	case ir.TagPromise:
		return e.emitPromise(n)
	default:
		return "", errs.New(errs.AssertionFailed, fmt.Sprintf("emitter: unhandled tag %s", n.T))
	}
}

func (e *emitter) primitiveText(n *ir.Node) string {
	switch n.P {
	case ir.PrimTrue:
		return "true"
	case ir.PrimFalse:
		return "false"
	case ir.PrimNull:
		return "null"
	case ir.PrimUndefined:
		return "undefined"
	case ir.PrimNaN:
		return "NaN"
	case ir.PrimPosInfinity:
		return "Infinity"
	case ir.PrimNegInfinity:
		return "-Infinity"
	case ir.PrimNegZero:
		return "-0"
	case ir.PrimNumber:
		return n.S
	case ir.PrimBigInt:
		return n.S + "n"
	default:
		return "undefined"
	}
}

func (e *emitter) emitArray(n *ir.Node, selfID uint32) (string, error) {
	parts := make([]string, len(n.A))
	for i, c := range n.A {
		if c == nil {
			continue
		}
		text, isRef, err := e.childText(c)
		if err != nil {
			return "", err
		}
		if isRef {
			e.pushDeferredIndex(selfID, "["+strconv.Itoa(i)+"]", text)
			continue
		}
		parts[i] = text
	}
	joined := strings.Join(parts, ",")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		joined += ","
	}
	return "[" + joined + "]", nil
}

func (e *emitter) emitObject(n *ir.Node, selfID uint32) (string, error) {
	fields, err := e.objectFields(n.D, selfID)
	if err != nil {
		return "", err
	}
	return "{" + strings.Join(fields, ",") + "}", nil
}

// objectFields renders a Record's keyed children as `key:value` pairs,
// deferring any value that is an ancestor reference instead of inlining it.
func (e *emitter) objectFields(rec *ir.Record, selfID uint32) ([]string, error) {
	if rec == nil {
		return nil, nil
	}
	fields := make([]string, 0, len(rec.Keys))
	for i, k := range rec.Keys {
		text, isRef, err := e.childText(rec.Vals[i])
		if err != nil {
			return nil, err
		}
		if isRef {
			e.pushDeferredIndex(selfID, accessorFor(k), text)
			continue
		}
		fields = append(fields, keyText(k)+":"+text)
	}
	return fields, nil
}

func (e *emitter) emitNullConstructor(n *ir.Node, selfID uint32) (string, error) {
	base := "Object.create(null)"
	if n.D == nil || len(n.D.Keys) == 0 {
		return base, nil
	}
	if e.gate.Has(gate.ObjectAssign) {
		fields, err := e.objectFields(n.D, selfID)
		if err != nil {
			return "", err
		}
		return "Object.assign(" + base + ",{" + strings.Join(fields, ",") + "})", nil
	}
	// No Object.assign: there is no literal syntax that sets fields on a
	// null-prototype object in one expression, so every field becomes a
	// deferred assignment, forcing this node to be bound.
	for i, k := range n.D.Keys {
		text, _, err := e.childText(n.D.Vals[i])
		if err != nil {
			return "", err
		}
		e.pushDeferredIndex(selfID, accessorFor(k), text)
	}
	return base, nil
}

func (e *emitter) emitSet(n *ir.Node, selfID uint32) (string, error) {
	parts := make([]string, 0, len(n.A))
	for _, c := range n.A {
		text, isRef, err := e.childText(c)
		if err != nil {
			return "", err
		}
		if isRef {
			e.pushDeferredSetAdd(selfID, text)
			continue
		}
		parts = append(parts, text)
	}
	return "new Set([" + strings.Join(parts, ",") + "])", nil
}

func (e *emitter) emitMap(n *ir.Node, selfID uint32) (string, error) {
	rec := n.D
	parts := make([]string, 0, len(rec.Vals))
	for i, vn := range rec.Vals {
		kn := rec.KeyNodes[i]
		kt, kIsRef, err := e.childText(kn)
		if err != nil {
			return "", err
		}
		vt, vIsRef, err := e.childText(vn)
		if err != nil {
			return "", err
		}
		if kIsRef || vIsRef {
			e.pushDeferredMapSet(selfID, kt, vt)
			continue
		}
		parts = append(parts, "["+kt+","+vt+"]")
	}
	return "new Map([" + strings.Join(parts, ",") + "])", nil
}

func (e *emitter) emitError(n *ir.Node, selfID uint32) (string, error) {
	base := "new " + n.C + "(\"" + escape.Escape(n.M) + "\")"
	return e.decorateWithOptions(base, n.D, selfID)
}

func (e *emitter) emitAggregateError(n *ir.Node, selfID uint32) (string, error) {
	parts := make([]string, len(n.A))
	for i, c := range n.A {
		// An AggregateError's errors array has no post-hoc mutation point
		// to target with a deferred patch; even an ancestor reference is
		// inlined here as its variable name.
		text, err := e.emitNode(c)
		if err != nil {
			return "", err
		}
		parts[i] = text
	}
	base := "new AggregateError([" + strings.Join(parts, ",") + "],\"" + escape.Escape(n.M) + "\")"
	return e.decorateWithOptions(base, n.D, selfID)
}

func (e *emitter) decorateWithOptions(base string, rec *ir.Record, selfID uint32) (string, error) {
	if rec == nil || len(rec.Keys) == 0 {
		return base, nil
	}
	if e.gate.Has(gate.ObjectAssign) {
		fields, err := e.objectFields(rec, selfID)
		if err != nil {
			return "", err
		}
		return "Object.assign(" + base + ",{" + strings.Join(fields, ",") + "})", nil
	}
	for i, k := range rec.Keys {
		text, _, err := e.childText(rec.Vals[i])
		if err != nil {
			return "", err
		}
		e.pushDeferredIndex(selfID, accessorFor(k), text)
	}
	return base, nil
}

func (e *emitter) emitTypedArray(n *ir.Node) (string, error) {
	parts := make([]string, len(n.A))
	for i, c := range n.A {
		text, err := e.emitNode(c)
		if err != nil {
			return "", err
		}
		parts[i] = text
	}
	args := "[" + strings.Join(parts, ",") + "]"
	if offset, ok := n.Len(); ok {
		return "new " + n.C + "(" + args + "," + strconv.FormatUint(uint64(offset), 10) + ")", nil
	}
	return "new " + n.C + "(" + args + ")", nil
}

func (e *emitter) emitArrayBuffer(n *ir.Node) (string, error) {
	return `Uint8Array.from(atob("` + n.S + `"), c => c.charCodeAt(0)).buffer`, nil
}

func (e *emitter) emitDataView(n *ir.Node) (string, error) {
	if n.F == nil {
		return "", errs.New(errs.AssertionFailed, "emitter: dataview node missing buffer child")
	}
	bufText, err := e.emitNode(n.F)
	if err != nil {
		return "", err
	}
	offset, _ := n.Len()
	var length int64
	if n.B != nil {
		length = *n.B
	}
	return fmt.Sprintf("new DataView((%s),%d,%d)", bufText, offset, length), nil
}

func (e *emitter) emitBlob(n *ir.Node) (string, error) {
	bytesText, err := e.emitNode(n.F)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`new Blob([%s],{type:"%s"})`, bytesText, escape.Escape(n.C)), nil
}

func (e *emitter) emitFile(n *ir.Node) (string, error) {
	bytesText, err := e.emitNode(n.F)
	if err != nil {
		return "", err
	}
	var lastModified int64
	if n.B != nil {
		lastModified = *n.B
	}
	return fmt.Sprintf(`new File([%s],"%s",{type:"%s",lastModified:%d})`, bytesText, escape.Escape(n.M), escape.Escape(n.C), lastModified), nil
}

func (e *emitter) emitURL(n *ir.Node) (string, error) {
	return `new URL("` + escape.Escape(n.S) + `")`, nil
}

func (e *emitter) emitPairs(n *ir.Node, ctor string) (string, error) {
	rec := n.D
	parts := make([]string, len(rec.Keys))
	for i, k := range rec.Keys {
		text, err := e.emitNode(rec.Vals[i])
		if err != nil {
			return "", err
		}
		parts[i] = `["` + escape.Escape(k) + `",` + text + `]`
	}
	return "new " + ctor + "([" + strings.Join(parts, ",") + "])", nil
}

func (e *emitter) emitFormData(n *ir.Node) (string, error) {
	rec := n.D
	var b strings.Builder
	b.WriteString("(function(){var fd=new FormData();")
	for i, k := range rec.Keys {
		text, err := e.emitNode(rec.Vals[i])
		if err != nil {
			return "", err
		}
		b.WriteString(`fd.append("` + escape.Escape(k) + `",` + text + ");")
	}
	b.WriteString("return fd})()")
	return b.String(), nil
}

func (e *emitter) emitIterable(n *ir.Node) (string, error) {
	parts := make([]string, len(n.A))
	for i, c := range n.A {
		text, err := e.emitNode(c)
		if err != nil {
			return "", err
		}
		parts[i] = text
	}
	arr := "[" + strings.Join(parts, ",") + "]"
	return "{" + e.iteratorMethodText(arr) + "}", nil
}

// iteratorMethodText picks the most compact syntax the feature gate
// allows for a `[Symbol.iterator]` method, falling back all the way to a
// plain function expression when neither shorthand is available.
func (e *emitter) iteratorMethodText(arrExpr string) string {
	switch {
	case e.gate.Has(gate.MethodShorthand):
		return "[Symbol.iterator](){return (" + arrExpr + ")[Symbol.iterator]()}"
	case e.gate.Has(gate.ArrowFunction):
		return "[Symbol.iterator]:()=>(" + arrExpr + ")[Symbol.iterator]()"
	default:
		return "[Symbol.iterator]:function(){return (" + arrExpr + ")[Symbol.iterator]()}"
	}
}

func (e *emitter) emitPromise(n *ir.Node) (string, error) {
	if n.F == nil {
		return "Promise.resolve()", nil
	}
	if refID, ok := e.isAncestorRef(n.F); ok {
		return "Promise.resolve().then(()=>" + e.varName(refID) + ")", nil
	}
	text, err := e.emitNode(n.F)
	if err != nil {
		return "", err
	}
	return "Promise.resolve(" + text + ")", nil
}

var identifierKeyRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// isBareKey reports whether key may be written without quotes: either a
// valid identifier, or a non-negative integer with no leading zero —
// leading-zero numeric keys are treated as non-identifier, per the Open
// Question resolution in DESIGN.md.
func isBareKey(key string) bool {
	if identifierKeyRe.MatchString(key) {
		return true
	}
	return isNonNegativeInteger(key)
}

func isNonNegativeInteger(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if r < '0' || r > '9' {
			return false
		}
	}
	return key == "0" || key[0] != '0'
}

func keyText(k string) string {
	if isBareKey(k) {
		return k
	}
	return `"` + escape.Escape(k) + `"`
}

// accessorFor renders the LHS suffix for a deferred property assignment:
// dot syntax for identifier keys, bracket syntax otherwise.
func accessorFor(k string) string {
	if identifierKeyRe.MatchString(k) {
		return "." + k
	}
	return `["` + escape.Escape(k) + `"]`
}
