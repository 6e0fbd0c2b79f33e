package trie

import "io"

// Result is the outcome of a prefix search.
//
// Exact can be false while Suggestions is non-empty: the query is then a
// strict prefix of stored phrases without being stored itself.
type Result struct {
	Exact       bool
	Suggestions []string
}

// PrefixIndex is a trie over whole phrases.
type PrefixIndex struct {
	t tree
}

// NewPrefixIndex returns an empty PrefixIndex.
func NewPrefixIndex() *PrefixIndex {
	return &PrefixIndex{t: newTree()}
}

// Insert stores phrase. Inserting the same phrase again changes nothing, and
// the empty phrase marks the root itself terminal.
func (p *PrefixIndex) Insert(phrase string) {
	p.t.insert([]rune(phrase))
}

// Search walks phrase from the root. A missing transition yields a zero
// Result; there is no closest-match fallback. Otherwise Exact is the terminal
// flag of the landing node and Suggestions holds every stored phrase starting
// with phrase, in no particular order.
func (p *PrefixIndex) Search(phrase string) Result {
	n := p.t.walk(phrase)
	if n == nil {
		return Result{}
	}
	return Result{
		Exact:       n.terminal,
		Suggestions: Collect(n, phrase),
	}
}

// Contains reports whether phrase itself was inserted, without collecting
// suggestions.
func (p *PrefixIndex) Contains(phrase string) bool {
	n := p.t.walk(phrase)
	return n != nil && n.terminal
}

// Len returns the number of distinct phrases stored.
func (p *PrefixIndex) Len() int {
	return p.t.terminals
}

// NodeCount returns the number of nodes in the tree, root included.
func (p *PrefixIndex) NodeCount() int {
	return p.t.nodes
}

// Root exposes the root node for read-only traversal.
func (p *PrefixIndex) Root() *Node {
	return p.t.root
}

// Dump writes a human-readable rendering of the tree to w.
func (p *PrefixIndex) Dump(w io.Writer) error {
	return dump(w, p.t.root)
}
