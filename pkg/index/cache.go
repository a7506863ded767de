package index

import (
	"math"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

type cacheKey struct {
	input string
	limit int
}

type cacheEntry struct {
	results    []string
	path       string
	accessTime int64
}

// bucket groups the cached searches whose descent stopped on the same path.
type bucket map[cacheKey]struct{}

// HotCache keeps recent search results.
//
// Entries are also filed in a patricia trie under the path the search
// descended through. A search can only change when a word is written
// below that path, so Invalidate drops exactly the entries whose path is
// a prefix of the written word.
type HotCache struct {
	entries     map[cacheKey]*cacheEntry
	paths       *patricia.Trie
	accessCount int64
	hits        int
	misses      int
	maxEntries  int
	log         *log.Logger
	mu          sync.Mutex
}

// NewHotCache creates a cache holding at most maxEntries searches.
func NewHotCache(maxEntries int, logger *log.Logger) *HotCache {
	return &HotCache{
		entries:    make(map[cacheKey]*cacheEntry, maxEntries),
		paths:      patricia.NewTrie(),
		maxEntries: maxEntries,
		log:        logger,
	}
}

// pathKey prefixes every key with a marker byte so the empty path is a valid trie key.
func pathKey(s string) patricia.Prefix {
	return patricia.Prefix("\x00" + s)
}

// Get returns a copy of the cached results for input and limit.
func (hc *HotCache) Get(input string, limit int) ([]string, bool) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	e, ok := hc.entries[cacheKey{input, limit}]
	if !ok {
		hc.misses++
		return nil, false
	}
	hc.hits++
	e.accessTime = hc.nextAccessTime()
	return slices.Clone(e.results), true
}

// Put stores results for input and limit; path is the part of input the
// search descended through.
func (hc *HotCache) Put(input string, limit int, path string, results []string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	key := cacheKey{input, limit}
	if e, ok := hc.entries[key]; ok {
		hc.unfile(key, e.path)
	} else if len(hc.entries) >= hc.maxEntries {
		hc.evictLRU()
	}

	hc.entries[key] = &cacheEntry{
		results:    slices.Clone(results),
		path:       path,
		accessTime: hc.nextAccessTime(),
	}

	pk := pathKey(path)
	b, _ := hc.paths.Get(pk).(bucket)
	if b == nil {
		b = make(bucket)
		hc.paths.Insert(pk, b)
	}
	b[key] = struct{}{}
}

// Invalidate drops every entry a write of word could change and returns how many were dropped.
func (hc *HotCache) Invalidate(word string) int {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	var stale []patricia.Prefix
	var dropped int
	err := hc.paths.VisitPrefixes(pathKey(word), func(p patricia.Prefix, item patricia.Item) error {
		b := item.(bucket)
		for key := range b {
			delete(hc.entries, key)
			dropped++
		}
		stale = append(stale, slices.Clone(p))
		return nil
	})
	if err != nil {
		hc.log.Errorf("Error visiting cache paths: %v", err)
	}

	for _, p := range stale {
		hc.paths.Delete(p)
	}
	return dropped
}

// Len returns the number of cached searches.
func (hc *HotCache) Len() int {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return len(hc.entries)
}

// Stats returns counters about the cache.
func (hc *HotCache) Stats() map[string]int {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	return map[string]int{
		"cacheEntries":    len(hc.entries),
		"maxCacheEntries": hc.maxEntries,
		"cacheHits":       hc.hits,
		"cacheMisses":     hc.misses,
	}
}

func (hc *HotCache) nextAccessTime() int64 {
	hc.accessCount++
	return hc.accessCount
}

// unfile removes key from the bucket stored under path.
func (hc *HotCache) unfile(key cacheKey, path string) {
	pk := pathKey(path)
	b, _ := hc.paths.Get(pk).(bucket)
	if b == nil {
		return
	}
	delete(b, key)
	if len(b) == 0 {
		hc.paths.Delete(pk)
	}
}

func (hc *HotCache) evictLRU() {
	var oldestKey cacheKey
	var oldest *cacheEntry
	oldestTime := int64(math.MaxInt64)

	for key, e := range hc.entries {
		if e.accessTime < oldestTime {
			oldestTime = e.accessTime
			oldestKey = key
			oldest = e
		}
	}

	if oldest != nil {
		delete(hc.entries, oldestKey)
		hc.unfile(oldestKey, oldest.path)
		hc.log.Debugf("Evicted search '%s' from hot cache", oldestKey.input)
	}
}
