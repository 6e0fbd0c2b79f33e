/*
Package trie implements the rune-keyed prefix tree used for title lookups.

Two indexes share the same node structure:

  - PrefixIndex stores whole phrases and answers exact and prefix queries.
  - SubstringIndex stores every suffix of every phrase, so a prefix walk over it
    answers "does the query occur anywhere inside a stored phrase".

Characters are compared as raw Unicode code points (runes); no case folding or
normalization happens here. Both indexes are append-only.

Neither index synchronizes access. Build the index before sharing it with
concurrent readers, or guard Insert with a write lock (see pkg/suggest).
*/
package trie

// Node is a single trie vertex. Each node is owned by exactly one parent.
type Node struct {
	children map[rune]*Node
	terminal bool
	// refs holds phrase ordinals of the substring index whose suffix ends here.
	refs []int
}

func newNode() *Node {
	return &Node{children: make(map[rune]*Node)}
}

// Terminal reports whether an inserted sequence ends exactly at n.
func (n *Node) Terminal() bool {
	return n.terminal
}

// Child returns the child reached through r, or nil.
func (n *Node) Child(r rune) *Node {
	return n.children[r]
}

// Degree returns the number of children of n.
func (n *Node) Degree() int {
	return len(n.children)
}

// tree is the shared trie machinery behind both indexes.
type tree struct {
	root  *Node
	nodes int
	// terminals counts nodes marked terminal.
	terminals int
}

func newTree() tree {
	return tree{root: newNode(), nodes: 1}
}

// insert walks rs from the root, creating missing children, and marks the
// landing node terminal. It returns the landing node.
func (t *tree) insert(rs []rune) *Node {
	current := t.root
	for _, r := range rs {
		next, ok := current.children[r]
		if !ok {
			next = newNode()
			current.children[r] = next
			t.nodes++
		}
		current = next
	}
	if !current.terminal {
		current.terminal = true
		t.terminals++
	}
	return current
}

// walk follows phrase from the root. It returns nil as soon as a character has
// no matching child.
func (t *tree) walk(phrase string) *Node {
	current := t.root
	for _, r := range phrase {
		next, ok := current.children[r]
		if !ok {
			return nil
		}
		current = next
	}
	return current
}
