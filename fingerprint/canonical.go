package fingerprint

import "github.com/aledsdavies/graphcode/ir"

// canonicalNode mirrors ir.Node as a plain, CBOR-friendly struct: every
// variant's fields flattened into one shape rather than a tagged
// interface, so cbor.Marshal never has to resolve an interface value.
// Fields use the same names as ir.Node for a mechanical mapping.
type canonicalNode struct {
	T uint8
	I uint32
	HasI bool
	P uint8
	S string
	L uint32
	HasL bool
	C string
	M string
	D *canonicalRecord
	A []*canonicalNode
	F *canonicalNode
	B int64
	HasB bool
}

type canonicalRecord struct {
	K  []string
	KN []*canonicalNode
	V  []*canonicalNode
}

// canonicalize converts an IR tree into its canonical mirror. Unlike
// envelope's JSON mirror, optional slots are never simply omitted — a
// present-but-zero id and an absent id must hash differently, so each
// optional slot carries its own Has* boolean rather than relying on
// omitempty-style elision.
func canonicalize(n *ir.Node) *canonicalNode {
	if n == nil {
		return nil
	}
	cn := &canonicalNode{T: uint8(n.T), P: uint8(n.P), S: n.S, C: n.C, M: n.M}
	if id, ok := n.ID(); ok {
		cn.I, cn.HasI = id, true
	}
	if l, ok := n.Len(); ok {
		cn.L, cn.HasL = l, true
	}
	if n.B != nil {
		cn.B, cn.HasB = *n.B, true
	}
	if n.D != nil {
		cn.D = canonicalizeRecord(n.D)
	}
	if n.A != nil {
		cn.A = make([]*canonicalNode, len(n.A))
		for i, c := range n.A {
			cn.A[i] = canonicalize(c)
		}
	}
	if n.F != nil {
		cn.F = canonicalize(n.F)
	}
	return cn
}

func canonicalizeRecord(rec *ir.Record) *canonicalRecord {
	cr := &canonicalRecord{K: rec.Keys, V: make([]*canonicalNode, len(rec.Vals))}
	for i, v := range rec.Vals {
		cr.V[i] = canonicalize(v)
	}
	if rec.KeyNodes != nil {
		cr.KN = make([]*canonicalNode, len(rec.KeyNodes))
		for i, k := range rec.KeyNodes {
			cr.KN[i] = canonicalize(k)
		}
	}
	return cr
}
