package gate_test

import (
	"testing"

	"github.com/aledsdavies/graphcode/gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskHasWithWithout(t *testing.T) {
	var m gate.Mask
	assert.False(t, m.Has(gate.Map))

	m = m.With(gate.Map)
	assert.True(t, m.Has(gate.Map))
	assert.False(t, m.Has(gate.Set))

	m = m.Without(gate.Map)
	assert.False(t, m.Has(gate.Map))
}

func TestCombine(t *testing.T) {
	m := gate.Combine(gate.Mask(gate.Map), gate.Mask(gate.Set))
	assert.True(t, m.Has(gate.Map))
	assert.True(t, m.Has(gate.Set))
	assert.False(t, m.Has(gate.Promise))
}

func TestAllHasEveryFlag(t *testing.T) {
	for _, f := range []gate.Flag{
		gate.AggregateError, gate.ArrayPrototypeValues, gate.ArrowFunction,
		gate.BigInt, gate.ErrorPrototypeStack, gate.Map, gate.MethodShorthand,
		gate.ObjectAssign, gate.Promise, gate.Set, gate.Symbol,
		gate.TypedArray, gate.BigIntTypedArray, gate.WebAPI,
	} {
		assert.True(t, gate.All.Has(f))
	}
}

func TestPresetMonotonic(t *testing.T) {
	es2015, err := gate.Preset("es2015")
	require.NoError(t, err)
	es2020, err := gate.Preset("es2020")
	require.NoError(t, err)
	latest, err := gate.Preset("latest")
	require.NoError(t, err)

	// Every flag es2015 carries, es2020 and latest must also carry.
	for f := range maskFlags(es2015) {
		assert.True(t, es2020.Has(f))
		assert.True(t, latest.Has(f))
	}
	assert.True(t, latest.Has(gate.WebAPI))
	assert.False(t, es2020.Has(gate.WebAPI))
}

func TestPresetUnknown(t *testing.T) {
	_, err := gate.Preset("es1999")
	require.Error(t, err)
}

func TestRequire(t *testing.T) {
	m := gate.Mask(gate.Map)
	assert.NoError(t, gate.Require(m, gate.Map))
	assert.Error(t, gate.Require(m, gate.Set))
}

func TestMaskString(t *testing.T) {
	m := gate.Combine(gate.Mask(gate.Set), gate.Mask(gate.Map))
	assert.Equal(t, "Map,Set", m.String())

	var zero gate.Mask
	assert.Equal(t, "(none)", zero.String())
}

func maskFlags(m gate.Mask) map[gate.Flag]bool {
	out := map[gate.Flag]bool{}
	for _, f := range []gate.Flag{
		gate.AggregateError, gate.ArrayPrototypeValues, gate.ArrowFunction,
		gate.BigInt, gate.ErrorPrototypeStack, gate.Map, gate.MethodShorthand,
		gate.ObjectAssign, gate.Promise, gate.Set, gate.Symbol,
		gate.TypedArray, gate.BigIntTypedArray, gate.WebAPI,
	} {
		if m.Has(f) {
			out[f] = true
		}
	}
	return out
}
