package emitter

import (
	"strings"

	"github.com/aledsdavies/graphcode/gate"
	"github.com/aledsdavies/graphcode/ir"
)

// finalize assembles the emitted body and its wrapper:
//
//   - No variable was ever allocated: the root expression stands alone,
//     parenthesized only if it would otherwise be misread as a block (a
//     bare object literal at statement position: an Object or an
//     Iterable root).
//   - No deferred patches need to run after the root expression: the root
//     expression already evaluates to the right value on its own (inline
//     variable bindings for any shared descendants are embedded in it),
//     so the body is the root expression alone — forcing a name onto the
//     root here would allocate an unused binding. It is still wrapped in
//     the IIFE described below, which declares the allocated names.
//   - Otherwise the body is `E, P, vRoot` — the root's own expression
//     (already bound to its own variable if emission needed one, or
//     bound here purely so the patches have something to return),
//     followed by every deferred patch, followed by the root variable as
//     the completion value — wrapped in an IIFE that declares every
//     allocated name as a parameter, so each is a fresh, function-scoped
//     binding with no `let` needed.
func (e *emitter) finalize(rootExpr string, patches []string, root *ir.Node) string {
	if len(e.order) == 0 {
		if root.T == ir.TagObject || root.T == ir.TagIterable {
			return "(" + rootExpr + ")"
		}
		return rootExpr
	}

	body := rootExpr
	rootID, hasID := root.ID()
	if hasID && len(patches) > 0 {
		rootName := e.varName(rootID)
		if !strings.HasPrefix(body, rootName+"=") && !strings.HasPrefix(body, "("+rootName+"=") {
			body = rootName + "=" + body
		}
		body = body + "," + strings.Join(patches, ",") + "," + rootName
	} else if len(patches) > 0 {
		body = strings.Join(append([]string{body}, patches...), ",")
	}

	params := make([]string, len(e.order))
	for i, id := range e.order {
		params[i] = e.varName(id)
	}
	paramList := strings.Join(params, ",")

	if e.gate.Has(gate.ArrowFunction) {
		return "((" + paramList + ")=>(" + body + "))()"
	}
	return "(function(" + paramList + "){return " + body + "})()"
}
