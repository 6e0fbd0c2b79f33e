package trie

import (
	"bufio"
	"io"
	"sort"
	"strings"
)

// dump renders the subtree under n one edge per line, indented by depth.
// Children are sorted by rune so the output is stable.
func dump(w io.Writer, n *Node) error {
	bw := bufio.NewWriter(w)
	if n.terminal {
		bw.WriteString("(end)\n")
	}
	dumpChildren(bw, n, 0)
	return bw.Flush()
}

func dumpChildren(bw *bufio.Writer, n *Node, depth int) {
	keys := make([]rune, 0, len(n.children))
	for r := range n.children {
		keys = append(keys, r)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	indent := strings.Repeat("  ", depth)
	for _, r := range keys {
		child := n.children[r]
		bw.WriteString(indent)
		bw.WriteString("└─ ")
		bw.WriteRune(r)
		if child.terminal {
			bw.WriteString(" (end)")
		}
		bw.WriteByte('\n')
		dumpChildren(bw, child, depth+1)
	}
}
