package index

import (
	"fmt"
	"sync"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
)

// DefaultCacheSize is the number of searches cached when no option overrides it.
const DefaultCacheSize = 1024

// Index is a trie guarded by a reader-writer lock.
// Searches and count lookups run concurrently; writes are exclusive.
type Index struct {
	trie  *trie.Trie
	cache *HotCache
	log   *log.Logger
	mu    sync.RWMutex

	cacheSize int
}

// Option configures an Index.
type Option func(*Index)

// WithCacheSize sets how many searches are cached. Zero or less disables the cache.
func WithCacheSize(n int) Option {
	return func(idx *Index) {
		idx.cacheSize = n
	}
}

// WithLogger replaces the default "index" logger.
func WithLogger(l *log.Logger) Option {
	return func(idx *Index) {
		idx.log = l
	}
}

// New creates an empty index.
func New(opts ...Option) *Index {
	idx := &Index{
		trie:      trie.New(),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(idx)
	}
	if idx.log == nil {
		idx.log = logger.New("index")
	}
	if idx.cacheSize > 0 {
		idx.cache = NewHotCache(idx.cacheSize, idx.log)
	}
	return idx
}

// AddWord records one occurrence of word.
func (idx *Index) AddWord(word string) error {
	return idx.AddWordCount(word, 1)
}

// AddWordCount records n occurrences of word and drops cached searches it affects.
func (idx *Index) AddWordCount(word string, n int) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if err := idx.trie.AddWordCount(word, n); err != nil {
		return fmt.Errorf("add word %q: %w", word, err)
	}
	if idx.cache != nil {
		if dropped := idx.cache.Invalidate(word); dropped > 0 {
			idx.log.Debugf("Dropped %d cached searches after adding '%s'", dropped, word)
		}
	}
	return nil
}

// GetCount returns how often word was added.
func (idx *Index) GetCount(word string) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.trie.GetCount(word)
}

// Search returns up to trie.MaxResults words starting with prefix.
func (idx *Index) Search(prefix string) []string {
	return idx.SearchLimit(prefix, trie.MaxResults)
}

// SearchLimit returns up to limit words starting with prefix.
// The returned slice belongs to the caller.
func (idx *Index) SearchLimit(prefix string, limit int) []string {
	if limit < 1 {
		limit = trie.MaxResults
	}

	// writers are excluded for the whole lookup so a result is never
	// cached after a write that should have invalidated it
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.cache != nil {
		if results, ok := idx.cache.Get(prefix, limit); ok {
			return results
		}
	}

	results := idx.trie.SearchLimit(prefix, limit)
	if idx.cache != nil {
		idx.cache.Put(prefix, limit, idx.trie.MatchedPrefix(prefix), results)
	}
	return results
}

// Stats returns word, node and cache counters.
func (idx *Index) Stats() map[string]int {
	idx.mu.RLock()
	stats := map[string]int{
		"words":      idx.trie.Len(),
		"nodes":      idx.trie.NodeCount(),
		"totalCount": idx.trie.Total(),
	}
	idx.mu.RUnlock()

	if idx.cache != nil {
		for k, v := range idx.cache.Stats() {
			stats[k] = v
		}
		stats["cache"] = 1
	} else {
		stats["cache"] = 0
	}
	return stats
}
