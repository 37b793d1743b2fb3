// Package nav decides what a drill-down picker shows for the current selection:
// the breadcrumb label, which result rows are visible, which rows are branches,
// and whether the back control is offered.
package nav

import (
	"strings"

	"github.com/vanderheijden86/drill/pkg/tree"
)

// BreadcrumbSeparator joins titles in the breadcrumb label.
const BreadcrumbSeparator = " / "

// State is the observable navigation output for one selection.
type State struct {
	Title    string `json:"title"`
	ShowBack bool   `json:"show_back"`

	// Group lists the ids of the selection's sibling group, whether or not a
	// result row exists for them.
	Group []int      `json:"group"`
	Rows  []RowState `json:"rows"`
}

// RowState describes one result row.
type RowState struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Visible bool   `json:"visible"`
	Branch  bool   `json:"branch"`
}

// Breadcrumb returns the label for n: its title followed by each ancestor's,
// deepest first. The root's label is its own (empty) title.
func Breadcrumb(t *tree.Tree, n *tree.Node) string {
	if n.IsRoot() {
		return n.Title()
	}
	path := t.Path(n)
	titles := make([]string, len(path))
	for i, p := range path {
		titles[i] = p.Title()
	}
	return strings.Join(titles, BreadcrumbSeparator)
}

// Group returns the sibling group shown when n is selected: its parent's
// children. With the root selected that is the top level.
func Group(t *tree.Tree, n *tree.Node) []*tree.Node {
	if parent, ok := t.Parent(n); ok {
		return t.Children(parent)
	}
	return t.TopLevel()
}

// InGroup reports whether n is shown while selected is the selection.
func InGroup(t *tree.Tree, selected, n *tree.Node) bool {
	want := selected
	if p, ok := t.Parent(selected); ok {
		want = p
	}
	got, ok := t.Parent(n)
	return ok && got == want
}

// HasBack reports whether ascending from n is possible: it sits below a
// top-level node.
func HasBack(t *tree.Tree, n *tree.Node) bool {
	parent, ok := t.Parent(n)
	return ok && !parent.IsRoot()
}

// Resolve maps a selected id to a node; 0 selects the root. An id the tree
// does not know panics with *tree.InvariantError.
func Resolve(t *tree.Tree, selectedID int) *tree.Node {
	if selectedID == t.Root().ID() {
		return t.Root()
	}
	return t.MustGet(selectedID)
}

// Compute evaluates the full navigation state for a selection against the
// given result rows. It has no side effects, so calling it twice yields the
// same State.
func Compute(t *tree.Tree, selectedID int, rowIDs []int) State {
	selected := Resolve(t, selectedID)
	st := State{
		Title:    Breadcrumb(t, selected),
		ShowBack: HasBack(t, selected),
		Rows:     make([]RowState, 0, len(rowIDs)),
	}
	for _, n := range Group(t, selected) {
		st.Group = append(st.Group, n.ID())
	}
	for _, id := range rowIDs {
		n := t.MustGet(id)
		visible := InGroup(t, selected, n)
		st.Rows = append(st.Rows, RowState{
			ID:      id,
			Title:   n.Title(),
			Visible: visible,
			Branch:  visible && n.HasChildren(),
		})
	}
	return st
}

// AllIDs lists every option id of t in pre-order, the natural unfiltered row
// set of a host.
func AllIDs(t *tree.Tree) []int {
	ids := make([]int, 0, t.Len())
	t.Walk(func(n *tree.Node) bool {
		ids = append(ids, n.ID())
		return true
	})
	return ids
}
