package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/sourcegen/internal/cache"
)

func TestTTL_GetSet(t *testing.T) {
	c := cache.NewTTL[string](time.Minute, 10)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", "value-a")
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "value-a", got)

	c.Set("a", "value-a2")
	got, _ = c.Get("a")
	assert.Equal(t, "value-a2", got)
	assert.Equal(t, 1, c.Len())
}

func TestTTL_Expiry(t *testing.T) {
	c := cache.NewTTL[int](10*time.Millisecond, 10)
	c.Set("k", 42)

	_, ok := c.Get("k")
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok, "entry should expire after the TTL")
}

func TestTTL_EvictsOldestAtCapacity(t *testing.T) {
	c := cache.NewTTL[int](time.Hour, 2)

	c.Set("first", 1)
	time.Sleep(time.Millisecond)
	c.Set("second", 2)
	time.Sleep(time.Millisecond)
	c.Set("third", 3)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("first")
	assert.False(t, ok, "oldest entry should be evicted")
	_, ok = c.Get("second")
	assert.True(t, ok)
	_, ok = c.Get("third")
	assert.True(t, ok)
}

func TestTTL_Clear(t *testing.T) {
	c := cache.NewTTL[int](time.Hour, 10)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}
