package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const helpHeader = `# Keys

| Key | Action |
|-----|--------|
| enter / space | open the picker |
| ↑ ↓ | move between rows |
| enter | pick a value, or drill into a group |
| → | drill into the group under the cursor |
`

const helpUseRow = "| tab | use the group itself as the value |\n"

const helpFooter = `| ← / backspace | back to the parent level |
| esc | close the list |
| ctrl+y | copy the breadcrumb |
| f1 | toggle this help |
| ctrl+c | quit |

Groups are marked with ›. Typing filters the rows of the current level.
`

// helpMarkdown lists the key reference. The tab row only appears when
// branches offer a use button.
func helpMarkdown(useButton bool) string {
	if useButton {
		return helpHeader + helpUseRow + helpFooter
	}
	return helpHeader + helpFooter
}

// renderHelpBody renders the key reference as markdown. It falls back to the
// raw text when glamour cannot build a renderer.
func renderHelpBody(width int, useButton bool) string {
	md := helpMarkdown(useButton)
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// RenderHelp renders the help modal for the given terminal width. useButton
// adds the key that commits a group as the value.
func RenderHelp(theme Theme, width int, useButton bool) string {
	r := theme.Renderer

	modalWidth := 64
	if modalWidth > width-4 {
		modalWidth = width - 4
	}
	if modalWidth < 24 {
		modalWidth = 24
	}

	titleStyle := r.NewStyle().
		Bold(true).
		Foreground(theme.Primary)
	footerStyle := r.NewStyle().
		Foreground(theme.Muted).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quick Reference"))
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", modalWidth-4)))
	b.WriteString("\n")
	b.WriteString(renderHelpBody(modalWidth-6, useButton))
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("Press any key to close"))

	return r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(0, 1).
		Width(modalWidth).
		Render(b.String())
}
