package ir_test

import (
	"testing"

	"github.com/aledsdavies/graphcode/ir"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveSingletons(t *testing.T) {
	assert.Equal(t, ir.PrimTrue, ir.Bool(true).P)
	assert.Equal(t, ir.PrimFalse, ir.Bool(false).P)
	assert.Equal(t, ir.PrimNull, ir.Null().P)
	assert.Equal(t, ir.PrimUndefined, ir.Undefined().P)
	assert.Equal(t, ir.PrimNaN, ir.NaN().P)
	assert.Equal(t, ir.PrimPosInfinity, ir.PosInfinity().P)
	assert.Equal(t, ir.PrimNegInfinity, ir.NegInfinity().P)
	assert.Equal(t, ir.PrimNegZero, ir.NegZero().P)
}

func TestNumberAndBigIntCarryText(t *testing.T) {
	n := ir.Number("42")
	assert.Equal(t, "42", n.S)
	assert.Equal(t, ir.PrimNumber, n.P)

	b := ir.BigIntLit("9007199254740993")
	assert.Equal(t, ir.PrimBigInt, b.P)
}

func TestArrayCarriesIDAndLength(t *testing.T) {
	n := ir.Array(3, []*ir.Node{ir.Number("1"), nil, ir.Number("3")})
	id, ok := n.ID()
	require.True(t, ok)
	assert.Equal(t, uint32(3), id)

	l, ok := n.Len()
	require.True(t, ok)
	assert.Equal(t, uint32(3), l)

	assert.Nil(t, n.A[1], "hole must be a nil element")
}

func TestMapNodeLengthMatchesPairs(t *testing.T) {
	rec := &ir.Record{
		KeyNodes: []*ir.Node{ir.Str(0, "k0"), ir.Str(1, "k1")},
		Vals:     []*ir.Node{ir.Number("1"), ir.Number("2")},
	}
	n := ir.MapNode(1, 2, rec)
	l, _ := n.Len()
	assert.Equal(t, uint32(2), l)
	assert.Equal(t, len(rec.KeyNodes), len(rec.Vals))
}

func TestTagStringKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "Array", ir.TagArray.String())
	assert.Equal(t, "Unknown", ir.Tag(255).String())
}

func TestNodeStructuralEquality(t *testing.T) {
	a := ir.Object(1, &ir.Record{Keys: []string{"x"}, Vals: []*ir.Node{ir.Number("1")}})
	b := ir.Object(1, &ir.Record{Keys: []string{"x"}, Vals: []*ir.Node{ir.Number("1")}})
	assert.Empty(t, cmp.Diff(a, b))
}

func TestWithIDCopiesNotMutates(t *testing.T) {
	base := ir.Reference("x")
	withID := base.WithID(5)
	_, hadID := base.ID()
	assert.False(t, hadID, "original Reference node must be unaffected")
	id, ok := withID.ID()
	require.True(t, ok)
	assert.Equal(t, uint32(5), id)
}
