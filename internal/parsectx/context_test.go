package parsectx_test

import (
	"testing"

	"github.com/aledsdavies/graphcode/gate"
	"github.com/aledsdavies/graphcode/internal/parsectx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternAllocatesIncreasingIDs(t *testing.T) {
	c := parsectx.New(gate.All)
	a := map[string]any{"a": 1}
	b := map[string]any{"b": 2}

	id1, fresh1, ok1 := c.Intern(a)
	require.True(t, ok1)
	assert.True(t, fresh1)
	assert.Equal(t, uint32(0), id1)

	id2, fresh2, ok2 := c.Intern(b)
	require.True(t, ok2)
	assert.True(t, fresh2)
	assert.Equal(t, uint32(1), id2)
}

func TestInternSameValueReturnsSameID(t *testing.T) {
	c := parsectx.New(gate.All)
	a := map[string]any{"a": 1}

	id1, _, _ := c.Intern(a)
	id2, fresh, ok := c.Intern(a)
	require.True(t, ok)
	assert.False(t, fresh)
	assert.Equal(t, id1, id2)
}

func TestInternNonReferenceValueNotIdentifiable(t *testing.T) {
	c := parsectx.New(gate.All)
	_, _, ok := c.Intern(42)
	assert.False(t, ok)

	_, _, ok = c.Intern("a string")
	assert.False(t, ok)
}

func TestMarkAndMarkedIDs(t *testing.T) {
	c := parsectx.New(gate.All)
	c.Mark(3)
	c.Mark(1)
	c.Mark(3)

	assert.True(t, c.IsMarked(1))
	assert.True(t, c.IsMarked(3))
	assert.False(t, c.IsMarked(2))
	assert.Equal(t, []uint32{1, 3}, c.MarkedIDs())
}

func TestBeginEndOneShotGuard(t *testing.T) {
	c := parsectx.New(gate.All)
	c.Begin()

	assert.Panics(t, func() {
		c.Begin()
	}, "a second overlapping Begin must panic")

	c.End()
	assert.NotPanics(t, func() {
		c.Begin()
	}, "Begin after End must succeed")
}

func TestInternStringDedupesByContent(t *testing.T) {
	c := parsectx.New(gate.All)
	a := "hello" + "world" // distinct backing array from the literal below
	b := "helloworld"

	id1, fresh1 := c.InternString(a)
	assert.True(t, fresh1)

	id2, fresh2 := c.InternString(b)
	assert.False(t, fresh2)
	assert.Equal(t, id1, id2)
}

func TestAllocIDNeverCollidesOrRepeats(t *testing.T) {
	c := parsectx.New(gate.All)
	a := c.AllocID()
	b := c.AllocID()
	assert.NotEqual(t, a, b)

	m := map[string]any{}
	id, fresh, ok := c.Intern(m)
	require.True(t, ok)
	assert.True(t, fresh)
	assert.NotEqual(t, a, id)
	assert.NotEqual(t, b, id)
}

func TestSeedMarkedAndSeedNextID(t *testing.T) {
	c := parsectx.New(gate.All)
	c.SeedMarked([]uint32{2, 5})
	assert.True(t, c.IsMarked(2))
	assert.True(t, c.IsMarked(5))

	c.SeedNextID(5)
	a := map[string]any{}
	id, _, _ := c.Intern(a)
	assert.Equal(t, uint32(6), id)
}
