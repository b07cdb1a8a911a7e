package parser_test

import (
	"context"
	"testing"

	"github.com/aledsdavies/graphcode/gate"
	"github.com/aledsdavies/graphcode/internal/parser"
	"github.com/aledsdavies/graphcode/internal/parsectx"
	"github.com/aledsdavies/graphcode/internal/values"
	"github.com/aledsdavies/graphcode/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCtx() *parsectx.Context {
	return parsectx.New(gate.All)
}

// countIntroductions walks n and tallies, per id, how many nodes carry it
// as their own identity versus as an IndexedValue back-reference.
func countIntroductions(n *ir.Node, intro, backref map[uint32]int) {
	if n == nil {
		return
	}
	if n.T == ir.TagIndexedValue {
		id, _ := n.ID()
		backref[id]++
		return
	}
	if id, ok := n.ID(); ok {
		intro[id]++
	}
	if n.D != nil {
		for _, c := range n.D.Vals {
			countIntroductions(c, intro, backref)
		}
		for _, c := range n.D.KeyNodes {
			countIntroductions(c, intro, backref)
		}
	}
	for _, c := range n.A {
		countIntroductions(c, intro, backref)
	}
	if n.F != nil {
		countIntroductions(n.F, intro, backref)
	}
}

func TestScriptTagStringIsEscaped(t *testing.T) {
	n, err := parser.ParseSync(newCtx(), "<script></script>")
	require.NoError(t, err)
	assert.Equal(t, ir.TagString, n.T)
	assert.NotContains(t, n.S, "<")
	assert.Contains(t, n.S, `\x3C`)
}

func TestDirectCycleSelfReferenceHasOneIntroduction(t *testing.T) {
	o := values.NewObject()
	o.Set("self", o)

	n, err := parser.ParseSync(newCtx(), o)
	require.NoError(t, err)

	intro, backref := map[uint32]int{}, map[uint32]int{}
	countIntroductions(n, intro, backref)

	id, ok := n.ID()
	require.True(t, ok)
	assert.Equal(t, 1, intro[id])
	assert.Equal(t, 1, backref[id])
}

func TestSharedSubobjectHasOneIntroduction(t *testing.T) {
	s := values.NewObject()
	s.Set("v", 1)
	o := values.NewObject()
	o.Set("x", s)
	o.Set("y", s)

	n, err := parser.ParseSync(newCtx(), o)
	require.NoError(t, err)

	intro, backref := map[uint32]int{}, map[uint32]int{}
	countIntroductions(n, intro, backref)

	rootID, _ := n.ID()
	sID := n.D.Vals[0].I
	require.NotNil(t, sID)
	require.NotEqual(t, rootID, *sID)

	assert.Equal(t, 1, intro[*sID])
	assert.Equal(t, 1, backref[*sID])
}

func TestMapWithCyclicKey(t *testing.T) {
	m := values.NewMap()
	m.Set(m, 1)

	n, err := parser.ParseSync(newCtx(), m)
	require.NoError(t, err)
	require.Equal(t, ir.TagMap, n.T)

	id, ok := n.ID()
	require.True(t, ok)

	require.Len(t, n.D.KeyNodes, 1)
	keyNode := n.D.KeyNodes[0]
	assert.Equal(t, ir.TagIndexedValue, keyNode.T)
	keyID, _ := keyNode.ID()
	assert.Equal(t, id, keyID)
}

func TestSparseArrayHasHoleAtIndex(t *testing.T) {
	n, err := parser.ParseSync(newCtx(), []any{1, values.Hole, 3})
	require.NoError(t, err)
	require.Equal(t, ir.TagArray, n.T)

	length, ok := n.Len()
	require.True(t, ok)
	assert.Equal(t, uint32(3), length)
	require.Len(t, n.A, 3)
	assert.Nil(t, n.A[1])
	assert.NotNil(t, n.A[0])
	assert.NotNil(t, n.A[2])
}

func TestSyncPromiseNeverAwaits(t *testing.T) {
	p := &fakeAwaitable{resolved: "value"}
	n, err := parser.ParseSync(newCtx(), p)
	require.NoError(t, err)
	assert.Equal(t, ir.TagPromise, n.T)
	assert.Nil(t, n.F)
	assert.False(t, p.awaited)
}

func TestAsyncPromiseAwaitsAndRecurses(t *testing.T) {
	p := &fakeAwaitable{resolved: "value"}
	n, err := parser.ParseAsync(context.Background(), newCtx(), p)
	require.NoError(t, err)
	assert.Equal(t, ir.TagPromise, n.T)
	require.NotNil(t, n.F)
	assert.Equal(t, ir.TagString, n.F.T)
	assert.True(t, p.awaited)
}

func TestAsyncFileDrainsBytesAsBase64(t *testing.T) {
	f := &fakeFile{
		bytes:        []byte("Hello World"),
		mime:         "text/plain",
		name:         "hello.txt",
		lastModified: 1681027542680,
	}
	p := &fakeAwaitable{resolved: f}

	n, err := parser.ParseAsync(context.Background(), newCtx(), p)
	require.NoError(t, err)
	require.NotNil(t, n.F)
	fileNode := n.F
	assert.Equal(t, ir.TagFile, fileNode.T)
	assert.Equal(t, "text/plain", fileNode.C)
	assert.Equal(t, "hello.txt", fileNode.M)
	require.NotNil(t, fileNode.F)
	assert.NotEmpty(t, fileNode.F.S)
}

// TestNestedDeferredIterableDrainsAfterEagerSiblings exercises the
// eager/deferred ordering rule one level deeper: an object field holding an
// iterable must drain only after every eager sibling field has already been
// walked, even when that iterable's own elements include another object
// with its own eager/deferred split.
func TestNestedDeferredIterableDrainsAfterEagerSiblings(t *testing.T) {
	var drainOrder []string

	o := values.NewObject()
	o.Set("eagerFirst", 1)
	o.Set("gen", &orderTrackingIterable{
		name:  "gen",
		order: &drainOrder,
		values: []any{
			func() any {
				inner := values.NewObject()
				inner.Set("a", 1)
				inner.Set("innerGen", &orderTrackingIterable{name: "innerGen", order: &drainOrder, values: []any{1}})
				return inner
			}(),
		},
	})
	o.Set("eagerSecond", 2)

	_, err := parser.ParseSync(newCtx(), o)
	require.NoError(t, err)

	require.Equal(t, []string{"gen", "innerGen"}, drainOrder)
}

func TestFeatureMissingWhenMapGateDisabled(t *testing.T) {
	pc := parsectx.New(gate.All.Without(gate.Map))
	_, err := parser.ParseSync(pc, values.NewMap())
	require.Error(t, err)
}

func TestUnsupportedTypeForUnregisteredFunction(t *testing.T) {
	fn := func() {}
	_, err := parser.ParseSync(newCtx(), fn)
	require.Error(t, err)
}

type fakeAwaitable struct {
	resolved any
	awaited  bool
}

func (f *fakeAwaitable) Await(ctx context.Context) (any, error) {
	f.awaited = true
	return f.resolved, nil
}

type fakeFile struct {
	bytes        []byte
	mime         string
	name         string
	lastModified int64
}

func (f *fakeFile) BlobBytes(ctx context.Context) ([]byte, error) { return f.bytes, nil }
func (f *fakeFile) MIMEType() string                              { return f.mime }
func (f *fakeFile) FileName() string                              { return f.name }
func (f *fakeFile) LastModified() int64                           { return f.lastModified }

// orderTrackingIterable records its name into order the first time it is
// drained, then yields its values in order.
type orderTrackingIterable struct {
	name    string
	order   *[]string
	values  []any
	started bool
	i       int
}

func (it *orderTrackingIterable) Next(ctx context.Context) (any, bool, error) {
	if !it.started {
		it.started = true
		*it.order = append(*it.order, it.name)
	}
	if it.i >= len(it.values) {
		return nil, false, nil
	}
	v := it.values[it.i]
	it.i++
	return v, true, nil
}
