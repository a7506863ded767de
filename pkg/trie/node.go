package trie

// rootChar is the sentinel held by the root node. It is never matched
// against input and contributes nothing to assembled words.
const rootChar = ' '

// Node is one character position in the trie.
// A node ends a word when its count is above zero, whether or not it has children.
type Node struct {
	char     rune
	count    int
	children []*Node
}

func newNode(c rune) *Node {
	return &Node{char: c}
}

// Char returns the character this node represents.
func (n *Node) Char() rune {
	return n.char
}

// Count returns how many times the word ending here was inserted.
func (n *Node) Count() int {
	return n.count
}

// IsTerminal reports whether at least one inserted word ends at this node.
func (n *Node) IsTerminal() bool {
	return n.count > 0
}

// Children returns the child nodes in insertion order.
// The slice is owned by the node and must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// GetChild returns the child holding c, or nil.
// Siblings never share a character so the first hit is the only one.
func (n *Node) GetChild(c rune) *Node {
	for _, child := range n.children {
		if child.char == c {
			return child
		}
	}
	return nil
}

// GetOrCreateChild returns the child holding c, appending a new empty one
// when missing. The bool is true when a node was created.
func (n *Node) GetOrCreateChild(c rune) (*Node, bool) {
	if child := n.GetChild(c); child != nil {
		return child, false
	}
	child := newNode(c)
	n.children = append(n.children, child)
	return child, true
}

// Increment bumps the count by one.
func (n *Node) Increment() {
	n.count++
}

func (n *Node) add(delta int) {
	n.count += delta
}
