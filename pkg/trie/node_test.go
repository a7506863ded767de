package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewNode verifies a fresh node has no count and no children.
func TestNewNode(t *testing.T) {
	n := newNode('a')
	assert.Equal(t, 'a', n.Char())
	assert.Equal(t, 0, n.Count())
	assert.False(t, n.IsTerminal())
	assert.Empty(t, n.Children())
}

func TestGetChildMissing(t *testing.T) {
	n := newNode('a')
	assert.Nil(t, n.GetChild('b'), "Missing child should be nil")
}

// TestGetOrCreateChild checks creation happens once and order is kept.
func TestGetOrCreateChild(t *testing.T) {
	n := newNode(rootChar)

	b, created := n.GetOrCreateChild('b')
	assert.True(t, created)
	assert.Equal(t, 'b', b.Char())
	assert.Equal(t, 0, b.Count())

	a, created := n.GetOrCreateChild('a')
	assert.True(t, created)

	again, created := n.GetOrCreateChild('b')
	assert.False(t, created, "Existing child must not be duplicated")
	assert.Same(t, b, again)

	assert.Equal(t, []*Node{b, a}, n.Children(), "Children should keep insertion order")
	assert.Same(t, a, n.GetChild('a'))
}

func TestIncrement(t *testing.T) {
	n := newNode('x')
	n.Increment()
	assert.True(t, n.IsTerminal())
	n.Increment()
	assert.Equal(t, 2, n.Count())
}

// TestTerminalWithChildren checks a word end keeps counting as one after children are added.
func TestTerminalWithChildren(t *testing.T) {
	n := newNode('r')
	n.Increment()
	n.GetOrCreateChild('t')
	assert.True(t, n.IsTerminal())
	assert.Len(t, n.Children(), 1)
}
