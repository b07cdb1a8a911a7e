// Package envelope implements the JSON envelope: the transportable
// structured document that splits the parse/emit pipeline in two, so an
// IR tree produced by one process can be compiled to an expression by
// another.
package envelope

import (
	"encoding/json"

	"github.com/aledsdavies/graphcode/gate"
	"github.com/aledsdavies/graphcode/internal/emitter"
	"github.com/aledsdavies/graphcode/internal/errs"
	"github.com/aledsdavies/graphcode/internal/parsectx"
	"github.com/aledsdavies/graphcode/ir"
)

// envelope is the `{t,r,i,f,m}` document. Unexported: callers only see
// the []byte/string produced by ToJSON and consumed by CompileJSON.
type envelope struct {
	T *node    `json:"t"`
	R uint32   `json:"r"`
	I bool     `json:"i"`
	F uint32   `json:"f"`
	M []uint32 `json:"m"`
}

// ToJSON serializes an already-parsed IR tree and its parse context into
// the envelope's JSON form.
func ToJSON(pc *parsectx.Context, root *ir.Node) (string, error) {
	rootID, _ := root.ID()
	env := envelope{
		T: fromNode(root),
		R: rootID,
		I: root.T == ir.TagObject,
		F: uint32(pc.Gate()),
		M: pc.MarkedIDs(),
	}
	out, err := json.Marshal(env)
	if err != nil {
		return "", errs.Wrap(errs.AssertionFailed, "envelope: marshal", err)
	}
	return string(out), nil
}

// FromJSON validates and decodes raw into a reconstructed IR root plus the
// parse context the emitter needs. CompileJSON builds on this and then
// runs the emitter; the root graphcode package's FromJSON builds on
// CompileJSON and then evaluates.
func FromJSON(raw []byte) (*parsectx.Context, *ir.Node, error) {
	if err := Validate(raw); err != nil {
		return nil, nil, errs.Wrap(errs.EvaluationFailed, "envelope: malformed document", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, nil, errs.Wrap(errs.EvaluationFailed, "envelope: decode", err)
	}

	root := env.T.toIR()
	if root == nil {
		return nil, nil, errs.New(errs.EvaluationFailed, "envelope: t must be a node, not null")
	}
	rootID, hasID := root.ID()
	if env.I != (root.T == ir.TagObject) {
		return nil, nil, errs.New(errs.EvaluationFailed, "envelope: i does not match whether the root node is an Object")
	}
	if hasID && rootID != env.R {
		return nil, nil, errs.New(errs.EvaluationFailed, "envelope: r does not match the root node's own id")
	}

	pc := parsectx.New(gate.Mask(env.F))
	pc.SeedMarked(env.M)
	pc.SeedNextID(maxNodeID(root, env.R))
	return pc, root, nil
}

// maxNodeID returns the largest identity id reachable anywhere in the
// tree rooted at n, starting from floor.
func maxNodeID(n *ir.Node, floor uint32) uint32 {
	if n == nil {
		return floor
	}
	max := floor
	if id, ok := n.ID(); ok && id > max {
		max = id
	}
	if n.D != nil {
		for _, k := range n.D.KeyNodes {
			if v := maxNodeID(k, max); v > max {
				max = v
			}
		}
		for _, v := range n.D.Vals {
			if w := maxNodeID(v, max); w > max {
				max = w
			}
		}
	}
	for _, c := range n.A {
		if v := maxNodeID(c, max); v > max {
			max = v
		}
	}
	if v := maxNodeID(n.F, max); v > max {
		max = v
	}
	return max
}

// CompileJSON reconstructs the serialization context from raw and runs
// the emitter, returning the executable expression string.
func CompileJSON(raw []byte) (string, error) {
	pc, root, err := FromJSON(raw)
	if err != nil {
		return "", err
	}
	return emitter.Emit(pc, root)
}
