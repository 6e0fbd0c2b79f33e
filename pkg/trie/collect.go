package trie

// frame is one pending step of the suggestion traversal.
type frame struct {
	node *Node
	acc  string
}

// Collect returns every complete phrase stored at or below start, each
// prefixed with prefix, the string that spells the path to start.
//
// The traversal is depth-first over an explicit stack, so its depth is not
// bounded by the goroutine stack. Output order follows map iteration and is
// unspecified; sort the result if order matters. Concurrent calls are safe as
// long as nothing inserts into the tree meanwhile.
func Collect(start *Node, prefix string) []string {
	if start == nil {
		return nil
	}
	var out []string
	stack := []frame{{node: start, acc: prefix}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.node.terminal {
			out = append(out, top.acc)
		}
		for r, child := range top.node.children {
			stack = append(stack, frame{node: child, acc: top.acc + string(r)})
		}
	}
	return out
}

// CollectRefs walks the same way as Collect but gathers the phrase ordinals
// recorded at terminal nodes instead of spelling strings. Ordinals may repeat.
func CollectRefs(start *Node) []int {
	if start == nil {
		return nil
	}
	var refs []int
	stack := []*Node{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		refs = append(refs, n.refs...)
		for _, child := range n.children {
			stack = append(stack, child)
		}
	}
	return refs
}
