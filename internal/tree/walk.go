package tree

// Walk visits node and its descendants depth-first. Returning false from fn
// skips the node's children.
func Walk(node Node, fn func(n Node, depth int) bool) {
	walk(node, 0, fn)
}

func walk(node Node, depth int, fn func(Node, int) bool) {
	if !fn(node, depth) {
		return
	}
	for _, child := range node.Children {
		walk(child, depth+1, fn)
	}
}

// Focusables lists the interactive nodes in render order.
func Focusables(node Node) []Node {
	var out []Node
	Walk(node, func(n Node, _ int) bool {
		if n.Kind == NodeTextField || n.Kind == NodeButton {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Find returns the first node with the given id.
func Find(node Node, id string) (Node, bool) {
	var found Node
	ok := false
	Walk(node, func(n Node, _ int) bool {
		if ok {
			return false
		}
		if n.ID == id {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}
