package index

import (
	"testing"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestHotCacheGetPut(t *testing.T) {
	hc := NewHotCache(4, logger.Discard())

	_, ok := hc.Get("ca", 10)
	assert.False(t, ok)

	hc.Put("ca", 10, "ca", []string{"cat", "car"})
	got, ok := hc.Get("ca", 10)
	assert.True(t, ok)
	assert.Equal(t, []string{"cat", "car"}, got)

	_, ok = hc.Get("ca", 5)
	assert.False(t, ok, "Different limits are cached separately")

	stats := hc.Stats()
	assert.Equal(t, 1, stats["cacheHits"])
	assert.Equal(t, 2, stats["cacheMisses"])
}

// TestHotCacheInvalidate checks only entries filed under prefixes of the word are dropped.
func TestHotCacheInvalidate(t *testing.T) {
	hc := NewHotCache(8, logger.Discard())
	hc.Put("", 10, "", []string{"cat"})
	hc.Put("c", 10, "c", []string{"cat"})
	hc.Put("cax", 10, "ca", []string{})
	hc.Put("cat", 10, "cat", []string{"cat"})
	hc.Put("do", 10, "do", []string{"dog"})

	dropped := hc.Invalidate("cab")
	assert.Equal(t, 3, dropped)
	assert.Equal(t, 2, hc.Len())

	_, ok := hc.Get("cat", 10)
	assert.True(t, ok)
	_, ok = hc.Get("do", 10)
	assert.True(t, ok)

	assert.Equal(t, 0, hc.Invalidate("zebra"))
	assert.Equal(t, 1, hc.Invalidate("dog"))
	assert.Equal(t, 1, hc.Len())
}

func TestHotCacheEvictsLeastRecentlyUsed(t *testing.T) {
	hc := NewHotCache(2, logger.Discard())
	hc.Put("a", 10, "a", []string{"a"})
	hc.Put("b", 10, "b", []string{"b"})

	// touch "a" so "b" becomes the oldest
	_, ok := hc.Get("a", 10)
	assert.True(t, ok)

	hc.Put("c", 10, "c", []string{"c"})
	assert.Equal(t, 2, hc.Len())

	_, ok = hc.Get("b", 10)
	assert.False(t, ok)
	_, ok = hc.Get("a", 10)
	assert.True(t, ok)

	// evicted entries are gone from the path trie too
	assert.Equal(t, 0, hc.Invalidate("b"))
}

func TestHotCacheReplace(t *testing.T) {
	hc := NewHotCache(2, logger.Discard())
	hc.Put("ca", 10, "c", []string{"old"})
	hc.Put("ca", 10, "ca", []string{"new"})
	assert.Equal(t, 1, hc.Len())

	got, _ := hc.Get("ca", 10)
	assert.Equal(t, []string{"new"}, got)

	assert.Equal(t, 0, hc.Invalidate("cx"), "Entry moved off the old path")
	assert.Equal(t, 1, hc.Invalidate("cat"))
}
