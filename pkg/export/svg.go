package export

import (
	"io"

	svg "github.com/ajstarks/svgo"
)

const (
	svgRowHeight = 20
	svgCharWidth = 9
	svgPadding   = 12
)

// WriteSVG draws the outline as monospace text. Group rows are bold.
func WriteSVG(w io.Writer, lines []Line) error {
	width := svgPadding*2 + Width(lines)*svgCharWidth
	height := svgPadding*2 + max(1, len(lines))*svgRowHeight

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#ffffff")

	canvas.Gstyle("font-family:monospace;font-size:15px;fill:#1a1a1a")
	for i, l := range lines {
		y := svgPadding + (i+1)*svgRowHeight - 5
		canvas.Text(svgPadding, y, l.Prefix, "fill:#888888;white-space:pre")

		x := svgPadding + len([]rune(l.Prefix))*svgCharWidth
		style := "white-space:pre"
		if l.Node.HasChildren() {
			style += ";font-weight:bold"
		}
		canvas.Text(x, y, l.Node.Title(), style)
	}
	canvas.Gend()

	canvas.End()
	return nil
}
