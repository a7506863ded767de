// Package index wraps the word trie for use from several goroutines and
// caches search results between writes.
package index

// Searcher is the word index used by the server and the CLI.
type Searcher interface {
	// AddWord records one occurrence of word.
	AddWord(word string) error

	// AddWordCount records n occurrences of word.
	AddWordCount(word string, n int) error

	// GetCount returns how often word was added, 0 when never.
	GetCount(word string) int

	// Search returns up to trie.MaxResults words starting with prefix.
	Search(prefix string) []string

	// SearchLimit is Search with a custom bound.
	SearchLimit(prefix string, limit int) []string

	// Stats returns counters about the index.
	Stats() map[string]int
}
