package cache

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrLoadCallsLoaderOnce(t *testing.T) {
	c := NewLRU[string, int](4)

	loads := 0
	loader := func() (int, error) {
		loads++
		return 42, nil
	}

	v, hit, err := c.GetOrLoad("a", loader)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 42, v)

	v, hit, err = c.GetOrLoad("a", loader)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, loads)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestGetOrLoadDoesNotCacheErrors(t *testing.T) {
	c := NewLRU[string, int](4)
	boom := errors.New("boom")

	_, _, err := c.GetOrLoad("a", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, c.Contains("a"))
	assert.Equal(t, 0, c.Len())

	v, hit, err := c.GetOrLoad("a", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 7, v)
}

func TestCapacityBound(t *testing.T) {
	c := NewLRU[string, int](DefaultCapacity)

	for i := 0; i < DefaultCapacity+10; i++ {
		c.Add(fmt.Sprintf("key-%d", i), i)
		assert.LessOrEqual(t, c.Len(), DefaultCapacity)
	}

	assert.Equal(t, DefaultCapacity, c.Len())
	assert.Equal(t, 10, c.Stats().Evictions)
	for i := 0; i < 10; i++ {
		assert.False(t, c.Contains(fmt.Sprintf("key-%d", i)), "key-%d should be evicted", i)
	}
	for i := 10; i < DefaultCapacity+10; i++ {
		assert.True(t, c.Contains(fmt.Sprintf("key-%d", i)), "key-%d should be cached", i)
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[string, int](3)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	// touching "a" makes "b" the least recently used entry
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Add("d", 4)
	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("b"))
	assert.True(t, c.Contains("c"))
	assert.True(t, c.Contains("d"))
}

func TestContainsDoesNotTouchRecency(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Add("a", 1)
	c.Add("b", 2)

	assert.True(t, c.Contains("a"))
	c.Add("c", 3)

	assert.False(t, c.Contains("a"))
	assert.True(t, c.Contains("b"))
}

func TestAddExistingKeyReplacesValue(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Add("a", 1)
	c.Add("a", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 0, c.Stats().Evictions)
}

func TestPurge(t *testing.T) {
	c := NewLRU[int, string](2)
	c.Add(1, "x")
	c.Add(2, "y")
	c.Add(3, "z")
	c.Purge()

	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Contains(3))
	assert.Equal(t, 1, c.Stats().Evictions)

	c.Add(4, "w")
	assert.Equal(t, 1, c.Len())
}

func TestMinimumCapacity(t *testing.T) {
	c := NewLRU[int, int](0)
	assert.Equal(t, 1, c.Capacity())
	c.Add(1, 1)
	c.Add(2, 2)
	assert.Equal(t, 1, c.Len())
}
