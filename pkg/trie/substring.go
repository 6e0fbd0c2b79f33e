package trie

import (
	"io"
	"sort"
)

// SubstringIndex answers substring membership queries. It stores every
// non-empty suffix of every inserted phrase in the same trie structure as
// PrefixIndex, which turns a prefix walk into a substring test.
//
// Inserting a phrase of n runes performs n suffix insertions, O(n²) runes in
// total. That is fine for titles; it is not meant for long documents.
type SubstringIndex struct {
	t       tree
	phrases []string
	ordinal map[string]int
}

// NewSubstringIndex returns an empty SubstringIndex.
func NewSubstringIndex() *SubstringIndex {
	return &SubstringIndex{
		t:       newTree(),
		ordinal: make(map[string]int),
	}
}

// Insert stores every suffix of phrase, longest first. Each suffix's terminal
// node remembers phrase so that hits can be mapped back to it. Inserting an
// already indexed phrase is a no-op.
func (s *SubstringIndex) Insert(phrase string) {
	if _, ok := s.ordinal[phrase]; ok {
		return
	}
	ord := len(s.phrases)
	s.phrases = append(s.phrases, phrase)
	s.ordinal[phrase] = ord

	rs := []rune(phrase)
	if len(rs) == 0 {
		// the empty phrase has no non-empty suffix; it lives at the root
		root := s.t.insert(rs)
		root.refs = append(root.refs, ord)
		return
	}
	for i := 0; i < len(rs); i++ {
		n := s.t.insert(rs[i:])
		n.refs = append(n.refs, ord)
	}
}

// Search reports whether query occurs inside some inserted phrase. The empty
// query matches as soon as anything has been inserted.
func (s *SubstringIndex) Search(query string) bool {
	n := s.t.walk(query)
	if n == nil {
		return false
	}
	return n.terminal || len(n.children) > 0
}

// Matches returns the inserted phrases that contain query, sorted and without
// duplicates.
func (s *SubstringIndex) Matches(query string) []string {
	n := s.t.walk(query)
	if n == nil {
		return nil
	}
	refs := CollectRefs(n)
	if len(refs) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(refs))
	out := make([]string, 0, len(refs))
	for _, ord := range refs {
		if _, dup := seen[ord]; dup {
			continue
		}
		seen[ord] = struct{}{}
		out = append(out, s.phrases[ord])
	}
	sort.Strings(out)
	return out
}

// Len returns the number of distinct phrases indexed.
func (s *SubstringIndex) Len() int {
	return len(s.phrases)
}

// NodeCount returns the number of nodes in the suffix tree, root included.
func (s *SubstringIndex) NodeCount() int {
	return s.t.nodes
}

// Dump writes a human-readable rendering of the suffix tree to w.
func (s *SubstringIndex) Dump(w io.Writer) error {
	return dump(w, s.t.root)
}
