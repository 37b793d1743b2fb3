package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/vanderheijden86/drill/pkg/tree"
)

// Stats summarizes a tree.
type Stats struct {
	Total    int
	Groups   int
	Leaves   int
	MaxDepth int
}

// Summarize counts the nodes of t.
func Summarize(t *tree.Tree) Stats {
	var s Stats
	t.Walk(func(n *tree.Node) bool {
		s.Total++
		if n.HasChildren() {
			s.Groups++
		} else {
			s.Leaves++
		}
		s.MaxDepth = max(s.MaxDepth, n.Depth())
		return true
	})
	return s
}

// GenerateMarkdown renders t as a summary followed by a nested list.
func GenerateMarkdown(t *tree.Tree, title string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", title))

	s := Summarize(t)
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Total**: %d\n", s.Total))
	sb.WriteString(fmt.Sprintf("- **Groups**: %d\n", s.Groups))
	sb.WriteString(fmt.Sprintf("- **Leaves**: %d\n", s.Leaves))
	sb.WriteString(fmt.Sprintf("- **Depth**: %d\n\n", s.MaxDepth))

	sb.WriteString("## Options\n\n")
	t.Walk(func(n *tree.Node) bool {
		indent := strings.Repeat("  ", n.Depth()-1)
		if n.HasChildren() {
			sb.WriteString(fmt.Sprintf("%s- **%s** `#%d`\n", indent, n.Title(), n.ID()))
		} else {
			sb.WriteString(fmt.Sprintf("%s- %s `#%d`\n", indent, n.Title(), n.ID()))
		}
		return true
	})

	return sb.String()
}

// WriteMarkdown writes the markdown rendering of t to w.
func WriteMarkdown(w io.Writer, t *tree.Tree) error {
	_, err := io.WriteString(w, GenerateMarkdown(t, "Options"))
	return err
}
