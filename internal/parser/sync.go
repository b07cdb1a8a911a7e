package parser

import (
	"github.com/aledsdavies/graphcode/internal/parsectx"
	"github.com/aledsdavies/graphcode/ir"
)

// ParseSync walks value into an IR tree without ever suspending: Promise
// values are emitted unresolved and Iterable values are drained eagerly
// against a background context.
func ParseSync(pc *parsectx.Context, value any) (*ir.Node, error) {
	w := &walker{pc: pc, async: false}
	return w.parse(value)
}
