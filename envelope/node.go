package envelope

import "github.com/aledsdavies/graphcode/ir"

// node is the JSON-shaped mirror of ir.Node: a plain record using the
// slot names, with undefined slots omitted or null. Field names are the
// single-letter slots; p carries the PrimKind split that distinguishes
// the singleton/literal variants folded into a single Primitive tag.
type node struct {
	T  ir.Tag      `json:"t"`
	I  *uint32     `json:"i,omitempty"`
	P  ir.PrimKind `json:"p,omitempty"`
	S  string      `json:"s,omitempty"`
	L  *uint32     `json:"l,omitempty"`
	C  string      `json:"c,omitempty"`
	M  string      `json:"m,omitempty"`
	D  *record     `json:"d,omitempty"`
	A  []*node     `json:"a,omitempty"`
	F  *node       `json:"f,omitempty"`
	B  *int64      `json:"b,omitempty"`
}

// record is the JSON mirror of ir.Record.
type record struct {
	K  []string `json:"k,omitempty"`
	KN []*node  `json:"kn,omitempty"`
	V  []*node  `json:"v,omitempty"`
}

// fromNode converts an IR tree to its JSON mirror. nil children (array
// holes) round-trip as nil *node, which encoding/json renders as `null`.
func fromNode(n *ir.Node) *node {
	if n == nil {
		return nil
	}
	jn := &node{T: n.T, P: n.P, S: n.S, C: n.C, M: n.M, L: n.L, B: n.B}
	jn.I = n.I
	if n.D != nil {
		jn.D = fromRecord(n.D)
	}
	if n.A != nil {
		jn.A = make([]*node, len(n.A))
		for i, c := range n.A {
			jn.A[i] = fromNode(c)
		}
	}
	if n.F != nil {
		jn.F = fromNode(n.F)
	}
	return jn
}

func fromRecord(rec *ir.Record) *record {
	r := &record{K: rec.Keys, V: make([]*node, len(rec.Vals))}
	for i, v := range rec.Vals {
		r.V[i] = fromNode(v)
	}
	if rec.KeyNodes != nil {
		r.KN = make([]*node, len(rec.KeyNodes))
		for i, k := range rec.KeyNodes {
			r.KN[i] = fromNode(k)
		}
	}
	return r
}

// toIR converts the JSON mirror back to an IR tree.
func (jn *node) toIR() *ir.Node {
	if jn == nil {
		return nil
	}
	n := &ir.Node{T: jn.T, P: jn.P, S: jn.S, C: jn.C, M: jn.M, L: jn.L, B: jn.B}
	n.I = jn.I
	if jn.D != nil {
		n.D = jn.D.toIR()
	}
	if jn.A != nil {
		n.A = make([]*ir.Node, len(jn.A))
		for i, c := range jn.A {
			n.A[i] = c.toIR()
		}
	}
	if jn.F != nil {
		n.F = jn.F.toIR()
	}
	return n
}

func (r *record) toIR() *ir.Record {
	rec := &ir.Record{Keys: r.K, Vals: make([]*ir.Node, len(r.V))}
	for i, v := range r.V {
		rec.Vals[i] = v.toIR()
	}
	if r.KN != nil {
		rec.KeyNodes = make([]*ir.Node, len(r.KN))
		for i, k := range r.KN {
			rec.KeyNodes[i] = k.toIR()
		}
	}
	return rec
}
