// Package export renders a built option tree as a text outline, a markdown
// list, an SVG or a PNG image.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/drill/pkg/tree"
)

// Line is one row of an outline: the connector prefix and the node it draws.
type Line struct {
	Prefix string
	Node   *tree.Node
}

// Text returns the visible text of the line, "prefix title (id)".
func (l Line) Text() string {
	return fmt.Sprintf("%s%s (%d)", l.Prefix, l.Node.Title(), l.Node.ID())
}

// Outline lays out every node in pre-order with box-drawing connectors.
// Top-level nodes have no prefix.
func Outline(t *tree.Tree) []Line {
	var lines []Line
	t.Walk(func(n *tree.Node) bool {
		lines = append(lines, Line{Prefix: buildPrefix(t, n), Node: n})
		return true
	})
	return lines
}

// buildPrefix draws one column per ancestor below the top level, then the
// branch character for n itself. Top-level rows carry no connector, so their
// children hang directly off them.
func buildPrefix(t *tree.Tree, n *tree.Node) string {
	if n.Depth() <= 1 {
		return ""
	}

	var b strings.Builder
	for _, anc := range ancestors(t, n) {
		if t.IsLastChild(anc) {
			b.WriteString("    ")
		} else {
			b.WriteString("│   ")
		}
	}
	if t.IsLastChild(n) {
		b.WriteString("└── ")
	} else {
		b.WriteString("├── ")
	}
	return b.String()
}

// ancestors returns n's proper ancestors below the top level, outermost
// first.
func ancestors(t *tree.Tree, n *tree.Node) []*tree.Node {
	path := t.Path(n) // n first, top-level last
	out := make([]*tree.Node, 0, len(path))
	for i := len(path) - 2; i >= 1; i-- {
		out = append(out, path[i])
	}
	return out
}

// Width returns the widest outline row in terminal columns.
func Width(lines []Line) int {
	w := 0
	for _, l := range lines {
		w = max(w, runewidth.StringWidth(l.Text()))
	}
	return w
}

// WriteText writes the outline as plain text, one node per line.
func WriteText(w io.Writer, t *tree.Tree) error {
	for _, l := range Outline(t) {
		if _, err := fmt.Fprintln(w, l.Text()); err != nil {
			return err
		}
	}
	return nil
}
