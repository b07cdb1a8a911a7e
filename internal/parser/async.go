package parser

import (
	"context"

	"github.com/aledsdavies/graphcode/internal/parsectx"
	"github.com/aledsdavies/graphcode/ir"
)

// ParseAsync walks value into an IR tree, awaiting every Promise it
// encounters and recursing into the resolved value. Iterable values are
// drained against ctx, so cancellation propagates mid-drain.
func ParseAsync(ctx context.Context, pc *parsectx.Context, value any) (*ir.Node, error) {
	w := &walker{pc: pc, ctx: ctx, async: true}
	return w.parse(value)
}
