// Package tree builds and indexes the option hierarchy behind a drill-down picker.
//
// The tree is an arena: every node lives in one slice owned by the Tree and
// edges are slice indices. Slot 0 is the synthetic root (id 0), which turns
// "top level" into an ordinary child list.
package tree

import "github.com/vanderheijden86/drill/pkg/model"

// noParent marks the synthetic root's parent slot.
const noParent = -1

// Node is a single option in the hierarchy.
type Node struct {
	id       int
	title    string
	parent   int   // arena index of the parent, noParent for the root
	children []int // arena indices, resolution order
	depth    int   // 0 = root, 1 = top level
}

// ID returns the option id (0 for the synthetic root).
func (n *Node) ID() int {
	return n.id
}

// Title returns the display label.
func (n *Node) Title() string {
	return n.title
}

// HasChildren reports whether selecting the node should drill into it.
func (n *Node) HasChildren() bool {
	return len(n.children) > 0
}

// IsRoot reports whether n is the synthetic root.
func (n *Node) IsRoot() bool {
	return n.parent == noParent
}

// Depth returns the nesting level: 0 for the root, 1 for top-level options.
func (n *Node) Depth() int {
	return n.depth
}

func newRoot() Node {
	return Node{id: model.RootID, parent: noParent}
}
