package tree

import "fmt"

// rootSlot is the arena index of the synthetic root.
const rootSlot = 0

// Tree is a read-only index over a built hierarchy. It is safe for concurrent
// readers since nothing mutates it after Build.
type Tree struct {
	nodes []Node      // arena; nodes[rootSlot] is the synthetic root
	index map[int]int // option id -> arena index (root excluded)
}

// InvariantError reports a lookup that must succeed on a consistent tree.
// It is raised with panic, never returned.
type InvariantError struct {
	ID int
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("tree invariant violated: no node with id %d", e.ID)
}

// Root returns the synthetic root.
func (t *Tree) Root() *Node {
	return &t.nodes[rootSlot]
}

// TopLevel returns the children of the synthetic root.
func (t *Tree) TopLevel() []*Node {
	return t.Children(t.Root())
}

// Get returns the node with the given id. The root is never returned here;
// use Root.
func (t *Tree) Get(id int) (*Node, bool) {
	slot, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return &t.nodes[slot], true
}

// MustGet is Get for ids that came out of this tree. A miss means the caller
// mixed up trees and panics with *InvariantError.
func (t *Tree) MustGet(id int) *Node {
	n, ok := t.Get(id)
	if !ok {
		panic(&InvariantError{ID: id})
	}
	return n
}

// Parent returns the parent of n. Top-level nodes return the root; only the
// root itself has no parent.
func (t *Tree) Parent(n *Node) (*Node, bool) {
	if n == nil || n.parent == noParent {
		return nil, false
	}
	return &t.nodes[n.parent], true
}

// Children returns the direct children of n in resolution order.
func (t *Tree) Children(n *Node) []*Node {
	if n == nil || len(n.children) == 0 {
		return nil
	}
	out := make([]*Node, len(n.children))
	for i, slot := range n.children {
		out[i] = &t.nodes[slot]
	}
	return out
}

// FirstChild returns the first child of n, the landing spot when drilling in.
func (t *Tree) FirstChild(n *Node) (*Node, bool) {
	if n == nil || len(n.children) == 0 {
		return nil, false
	}
	return &t.nodes[n.children[0]], true
}

// Path returns n followed by its ancestors up to (not including) the root.
// The root's path is empty.
func (t *Tree) Path(n *Node) []*Node {
	var path []*Node
	for cur := n; cur != nil && !cur.IsRoot(); {
		path = append(path, cur)
		cur, _ = t.Parent(cur)
	}
	return path
}

// Len returns the number of real (non-root) nodes.
func (t *Tree) Len() int {
	return len(t.nodes) - 1
}

// Walk visits every real node in pre-order, children in resolution order.
// Returning false from fn skips the node's subtree.
func (t *Tree) Walk(fn func(n *Node) bool) {
	var walk func(slot int)
	walk = func(slot int) {
		for _, child := range t.nodes[slot].children {
			if fn(&t.nodes[child]) {
				walk(child)
			}
		}
	}
	walk(rootSlot)
}

// IsLastChild reports whether n is the last entry of its parent's children.
func (t *Tree) IsLastChild(n *Node) bool {
	parent, ok := t.Parent(n)
	if !ok {
		return true
	}
	last := parent.children[len(parent.children)-1]
	return &t.nodes[last] == n
}
