package trie

import (
	"errors"
	"math"
	"strings"
)

// MaxResults is the number of words Search returns at most.
const MaxResults = 10

var (
	// ErrEmptyWord is returned when inserting a word with no characters.
	ErrEmptyWord = errors.New("trie: empty word")
	// ErrInvalidCount is returned when a bulk increment is not positive.
	ErrInvalidCount = errors.New("trie: count must be positive")
	// ErrCountOverflow is returned when an increment would overflow the counters.
	ErrCountOverflow = errors.New("trie: count overflow")
)

// Trie stores words with occurrence counts.
// It is not safe for concurrent use; see package index for a locked wrapper.
type Trie struct {
	root  *Node
	nodes int
	words int
	total int
}

// New creates an empty trie.
func New() *Trie {
	return &Trie{root: newNode(rootChar)}
}

// Root returns the root node, which represents the empty prefix.
func (t *Trie) Root() *Node {
	return t.root
}

// AddWord inserts word once, creating nodes along its path as needed.
// Adding is O(|A| * |W|) where A is the branching factor and W the word.
func (t *Trie) AddWord(word string) error {
	return t.AddWordCount(word, 1)
}

// AddWordCount inserts word n times in one pass.
func (t *Trie) AddWordCount(word string, n int) error {
	if word == "" {
		return ErrEmptyWord
	}
	if n < 1 {
		return ErrInvalidCount
	}
	// every word count is bounded by the total
	if n > math.MaxInt-t.total {
		return ErrCountOverflow
	}

	curr := t.root
	for _, c := range word {
		next, created := curr.GetOrCreateChild(c)
		if created {
			t.nodes++
		}
		curr = next
	}

	if !curr.IsTerminal() {
		t.words++
	}
	curr.add(n)
	t.total += n
	return nil
}

// GetCount returns how many times word was inserted, 0 when it never was.
// A path that only exists as the prefix of longer words also counts 0.
func (t *Trie) GetCount(word string) int {
	if word == "" {
		return 0
	}
	curr := t.root
	for _, c := range word {
		curr = curr.GetChild(c)
		if curr == nil {
			return 0
		}
	}
	return curr.count
}

// Search returns up to MaxResults stored words starting with input,
// compared case-insensitively, in depth-first insertion order.
func (t *Trie) Search(input string) []string {
	return t.SearchLimit(input, MaxResults)
}

// SearchLimit is Search with a custom bound. A limit below 1 means MaxResults.
//
// The walk starts wherever the case-sensitive descent over input stops.
// When input leaves the tree early, the walk still runs from that node,
// seeded with the input consumed so far, and keeps only words passing the
// prefix check against the whole input.
func (t *Trie) SearchLimit(input string, limit int) []string {
	if limit < 1 {
		limit = MaxResults
	}
	start, _, seed := t.descend([]rune(input))
	return t.collect(start, seed, strings.ToLower(input), limit)
}

// MatchedPrefix returns the longest leading part of input that exists as a
// path from the root, compared case-sensitively.
func (t *Trie) MatchedPrefix(input string) string {
	runes := []rune(input)
	_, depth, _ := t.descend(runes)
	return string(runes[:depth])
}

// Len returns the number of distinct words stored.
func (t *Trie) Len() int {
	return t.words
}

// NodeCount returns the number of nodes below the root.
func (t *Trie) NodeCount() int {
	return t.nodes
}

// Total returns the sum of all word counts.
func (t *Trie) Total() int {
	return t.total
}

// descend follows input from the root until a rune has no child.
// seed holds every rune looked at except the last rune of input; the
// final rune is re-added by the walk through the node's own character.
func (t *Trie) descend(input []rune) (curr *Node, depth int, seed string) {
	var b strings.Builder
	curr = t.root
	for i, c := range input {
		if i < len(input)-1 {
			b.WriteRune(c)
		}
		child := curr.GetChild(c)
		if child == nil {
			break
		}
		curr = child
		depth++
	}
	return curr, depth, b.String()
}

type frame struct {
	node *Node
	word string
}

// collect walks the subtree under start in pre-order with an explicit stack.
func (t *Trie) collect(start *Node, seed, lowerInput string, limit int) []string {
	results := make([]string, 0, limit)

	// the root adds its sentinel like any other node, except for an empty
	// input where the walk lists the stored words themselves
	first := seed + string(start.char)
	if start == t.root && lowerInput == "" {
		first = seed
	}
	stack := []frame{{node: start, word: first}}

	for len(stack) > 0 && len(results) < limit {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.node.IsTerminal() && strings.HasPrefix(strings.ToLower(f.word), lowerInput) {
			results = append(results, f.word)
		}

		// pushed in reverse so the earliest inserted branch pops first
		for i := len(f.node.children) - 1; i >= 0; i-- {
			child := f.node.children[i]
			stack = append(stack, frame{node: child, word: f.word + string(child.char)})
		}
	}
	return results
}
