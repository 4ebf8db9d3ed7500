package intern_test

import (
	"fmt"
	"testing"

	"github.com/mna/ember/lang/intern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableSetGet(t *testing.T) {
	tbl := intern.NewTable[int]()
	tbl.Set("a", intern.FNV1a("a"), 1)
	tbl.Set("b", intern.FNV1a("b"), 2)

	v, ok := tbl.Get("a", intern.FNV1a("a"))
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = tbl.Get("b", intern.FNV1a("b"))
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = tbl.Get("c", intern.FNV1a("c"))
	assert.False(t, ok)
	assert.Equal(t, 2, tbl.Len())
}

func TestTableOverwrite(t *testing.T) {
	tbl := intern.NewTable[string]()
	inserted := tbl.Set("x", intern.FNV1a("x"), "one")
	assert.True(t, inserted)
	inserted = tbl.Set("x", intern.FNV1a("x"), "two")
	assert.False(t, inserted)

	v, ok := tbl.Get("x", intern.FNV1a("x"))
	require.True(t, ok)
	assert.Equal(t, "two", v)
	assert.Equal(t, 1, tbl.Len())
}

func TestTableDeleteLeavesTombstoneProbeable(t *testing.T) {
	tbl := intern.NewTable[int]()
	// force several keys into the same table without growing past them
	keys := []string{"alpha", "beta", "gamma", "delta"}
	for i, k := range keys {
		tbl.Set(k, intern.FNV1a(k), i)
	}

	ok := tbl.Delete("beta", intern.FNV1a("beta"))
	assert.True(t, ok)
	assert.Equal(t, 3, tbl.Len())

	// the other keys must still be reachable even though a tombstone now
	// sits somewhere along their probe chain
	for i, k := range keys {
		if k == "beta" {
			_, ok := tbl.Get(k, intern.FNV1a(k))
			assert.False(t, ok)
			continue
		}
		v, ok := tbl.Get(k, intern.FNV1a(k))
		require.True(t, ok, "key %s should still be reachable", k)
		assert.Equal(t, i, v)
	}
}

func TestTableGrowsAndRehashesEverything(t *testing.T) {
	tbl := intern.NewTable[int]()
	const n = 500
	for i := 0; i < n; i++ {
		k := fmt.Sprintf("key-%d", i)
		tbl.Set(k, intern.FNV1a(k), i)
	}
	assert.Equal(t, n, tbl.Len())
	for i := 0; i < n; i++ {
		k := fmt.Sprintf("key-%d", i)
		v, ok := tbl.Get(k, intern.FNV1a(k))
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}

func TestFNV1aIsDeterministic(t *testing.T) {
	assert.Equal(t, intern.FNV1a("hello"), intern.FNV1a("hello"))
	assert.NotEqual(t, intern.FNV1a("hello"), intern.FNV1a("world"))
}
