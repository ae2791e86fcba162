package document

// Path addresses a node by child indexes from the root.
type Path []int

// Clone copies the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Parent returns the path of the parent node.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1].Clone()
}

// Index returns the last index of the path.
func (p Path) Index() int {
	if len(p) == 0 {
		return -1
	}
	return p[len(p)-1]
}

// Child returns the path of the i-th child.
func (p Path) Child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// Equal compares two paths.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix addresses an ancestor-or-self of p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

// At returns a copy of the node at path.
func (n Node) At(path Path) (Node, bool) {
	ptr := (&n).Ref(path)
	if ptr == nil {
		return Node{}, false
	}
	return *ptr, true
}

// Ref returns a pointer to the node at path inside n, or nil.
func (n *Node) Ref(path Path) *Node {
	current := n
	for _, idx := range path {
		if idx < 0 || idx >= len(current.Content) {
			return nil
		}
		current = &current.Content[idx]
	}
	return current
}

// Splice replaces deleteCount children of the node at parent starting at
// index with insert. It reports false when the path or range is invalid.
func (n *Node) Splice(parent Path, index, deleteCount int, insert ...Node) bool {
	container := n.Ref(parent)
	if container == nil || index < 0 || deleteCount < 0 || index+deleteCount > len(container.Content) {
		return false
	}

	next := make([]Node, 0, len(container.Content)-deleteCount+len(insert))
	next = append(next, container.Content[:index]...)
	next = append(next, insert...)
	next = append(next, container.Content[index+deleteCount:]...)
	container.Content = next
	return true
}

// Ancestors returns the paths of every ancestor of path, nearest first,
// excluding the root.
func Ancestors(path Path) []Path {
	var out []Path
	for i := len(path) - 1; i > 0; i-- {
		out = append(out, path[:i].Clone())
	}
	return out
}

// FindAncestor returns the nearest ancestor-or-self of path whose type
// satisfies match.
func (n Node) FindAncestor(path Path, match func(Node) bool) (Path, bool) {
	for depth := len(path); depth > 0; depth-- {
		candidate := path[:depth]
		node, ok := n.At(candidate)
		if ok && match(node) {
			return candidate.Clone(), true
		}
	}
	return nil, false
}

// Walk visits every node depth-first in document order. Returning false from
// fn skips the node's children.
func Walk(root Node, fn func(path Path, node Node) bool) {
	var walk func(path Path, node Node)
	walk = func(path Path, node Node) {
		if !fn(path, node) {
			return
		}
		for i, child := range node.Content {
			walk(path.Child(i), child)
		}
	}
	walk(Path{}, root)
}

// FindAll returns the paths of all nodes of the given type.
func FindAll(root Node, nodeType string) []Path {
	var paths []Path
	Walk(root, func(path Path, node Node) bool {
		if node.Type == nodeType {
			paths = append(paths, path.Clone())
		}
		return true
	})
	return paths
}
