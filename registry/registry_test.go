package registry_test

import (
	"testing"

	"github.com/aledsdavies/graphcode/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLookup(t *testing.T) {
	r := registry.New()
	fn := func() {}

	require.NoError(t, r.Register("app:onClick", fn))

	v, ok := r.LookupByKey("app:onClick")
	require.True(t, ok)
	assert.NotNil(t, v)

	key, ok := r.LookupByValue(fn)
	require.True(t, ok)
	assert.Equal(t, "app:onClick", key)
}

func TestRegisterDuplicateKeyFails(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register("k", 1))
	err := r.Register("k", 2)
	require.Error(t, err)
}

func TestLookupMissing(t *testing.T) {
	r := registry.New()
	_, ok := r.LookupByKey("nope")
	assert.False(t, ok)

	_, ok = r.LookupByValue(42)
	assert.False(t, ok)
}

func TestLookupByValueIncomparable(t *testing.T) {
	r := registry.New()
	slice := []int{1, 2, 3}
	require.NoError(t, r.Register("slice", slice))

	// Incomparable values can still be looked up by key...
	v, ok := r.LookupByKey("slice")
	require.True(t, ok)
	assert.Equal(t, slice, v)

	// ...but not recognized by value.
	_, ok = r.LookupByValue(slice)
	assert.False(t, ok)
}

func TestGlobalSingleton(t *testing.T) {
	key := "graphcode_test:global_marker"
	val := struct{ n int }{n: 7}
	require.NoError(t, registry.Register(key, val))

	got, ok := registry.LookupByKey(key)
	require.True(t, ok)
	assert.Equal(t, val, got)

	k, ok := registry.LookupByValue(val)
	require.True(t, ok)
	assert.Equal(t, key, k)

	assert.Same(t, registry.Global(), registry.Global())
}
