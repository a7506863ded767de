// Package trie implements a prefix tree that counts word occurrences.
//
// Each Node holds one character; the chain of nodes from the root spells a
// prefix, and a node whose count is above zero ends at least one inserted
// word. Words sharing a prefix share its nodes.
//
// # Example usage:
//
//	t := trie.New()
//	_ = t.AddWord("cat")
//	_ = t.AddWord("car")
//	_ = t.AddWord("cart")
//
//	t.GetCount("cat") // 1
//	t.GetCount("ca")  // 0, only a prefix
//	t.Search("ca")    // [cat car cart]
//
// Search returns at most MaxResults words in depth-first order, earliest
// inserted branch first. Results are neither sorted nor ranked by count.
//
// A Trie is not safe for concurrent use. Callers sharing one across
// goroutines should use package index, which adds a reader-writer lock.
package trie
