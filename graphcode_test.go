package graphcode_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aledsdavies/graphcode"
	"github.com/aledsdavies/graphcode/gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoEvaluator is a test double standing in for a real JS host: it never
// actually runs the expression, only records it, which is enough to test
// that Deserialize/FromJSON wire the compiled code through correctly.
type echoEvaluator struct {
	lastCode string
	result   any
	err      error
}

func (e *echoEvaluator) Eval(_ context.Context, expr string) (any, error) {
	e.lastCode = expr
	if e.err != nil {
		return nil, e.err
	}
	return e.result, nil
}

func TestSerializeProducesExpressionForPlainObject(t *testing.T) {
	o := graphcode.NewObject()
	o.Set("name", "graph")
	o.Set("count", 3)

	out, err := graphcode.Serialize(o, graphcode.Options{})
	require.NoError(t, err)
	assert.Contains(t, out, `name:"graph"`)
	assert.Contains(t, out, "count:3")
}

func TestSerializeRespectsDisabledArrowFunction(t *testing.T) {
	o := graphcode.NewObject()
	o.Set("self", o)

	out, err := graphcode.Serialize(o, graphcode.Options{})
	require.NoError(t, err)
	assert.Contains(t, out, "=>")

	downgraded, err := graphcode.Serialize(o, graphcode.Options{DisabledFeatures: gate.Mask(gate.ArrowFunction)})
	require.NoError(t, err)
	assert.NotContains(t, downgraded, "=>")
	assert.Contains(t, downgraded, "function(")
}

func TestToJSONThenCompileJSONRoundTrips(t *testing.T) {
	o := graphcode.NewObject()
	o.Set("a", 1)

	raw, err := graphcode.ToJSON(o, graphcode.Options{})
	require.NoError(t, err)

	code, err := graphcode.CompileJSON(raw)
	require.NoError(t, err)
	assert.Contains(t, code, "a:1")
}

func TestDeserializeInvokesEvaluatorAndPropagatesResult(t *testing.T) {
	ev := &echoEvaluator{result: "reconstructed"}
	ctx := context.Background()

	out, err := graphcode.Deserialize(ctx, ev, "({a:1})")
	require.NoError(t, err)
	assert.Equal(t, "reconstructed", out)
	assert.Equal(t, "({a:1})", ev.lastCode)
}

func TestDeserializeWrapsEvaluatorFailure(t *testing.T) {
	ev := &echoEvaluator{err: errors.New("syntax error")}
	ctx := context.Background()

	_, err := graphcode.Deserialize(ctx, ev, "(")
	require.Error(t, err)

	var gerr *graphcode.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, graphcode.EvaluationFailed, gerr.Kind)
}

func TestFromJSONCompilesThenEvaluates(t *testing.T) {
	o := graphcode.NewObject()
	o.Set("k", "v")
	raw, err := graphcode.ToJSON(o, graphcode.Options{})
	require.NoError(t, err)

	ev := &echoEvaluator{result: map[string]any{"k": "v"}}
	out, err := graphcode.FromJSON(context.Background(), ev, raw)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": "v"}, out)
	assert.Contains(t, ev.lastCode, "k:")
}

func TestRegisterAndRegistryLookupRoundTrip(t *testing.T) {
	fn := func() {}
	require.NoError(t, graphcode.Register("test:handler", fn))

	got, ok := graphcode.RegistryLookup("test:handler")
	require.True(t, ok)
	assert.NotNil(t, got)
}

type clickHandler struct{}

func TestSerializeOfRegisteredValueEmitsHostLookupCall(t *testing.T) {
	h := &clickHandler{}
	require.NoError(t, graphcode.Register("test:onClick", h))

	out, err := graphcode.Serialize(h, graphcode.Options{})
	require.NoError(t, err)
	assert.Contains(t, out, `__graphcode_ref("test:onClick")`)
}

func TestParseMapOptionsFeedsSerialize(t *testing.T) {
	opts, err := graphcode.ParseMapOptions(map[string]any{"preset": "es2020"})
	require.NoError(t, err)

	o := graphcode.NewObject()
	o.Set("big", 1)
	out, err := graphcode.Serialize(o, opts)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
