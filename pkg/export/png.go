package export

import (
	"fmt"
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	pngRowHeight = 18
	pngIndent    = 20
	pngPadding   = 12
	pngCharWidth = 7
)

// WritePNG draws the outline as an image. The bitmap font has no box-drawing
// glyphs, so connectors are drawn as lines.
func WritePNG(w io.Writer, lines []Line) error {
	maxDepth, maxCols := 1, 1
	for _, l := range lines {
		maxDepth = max(maxDepth, l.Node.Depth())
		maxCols = max(maxCols, len(l.Node.Title())+len(fmt.Sprint(l.Node.ID()))+3)
	}

	width := pngPadding*2 + (maxDepth-1)*pngIndent + maxCols*pngCharWidth
	height := pngPadding*2 + max(1, len(lines))*pngRowHeight

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	parents := parentRows(lines)
	for i, l := range lines {
		x := float64(pngPadding + (l.Node.Depth()-1)*pngIndent)
		mid := rowMid(i)

		if p, ok := parents[i]; ok {
			elbow := x - pngIndent/2
			dc.SetRGB(0.55, 0.55, 0.55)
			dc.SetLineWidth(1)
			dc.DrawLine(elbow, rowMid(p)+5, elbow, mid)
			dc.DrawLine(elbow, mid, x-3, mid)
			dc.Stroke()
		}

		dc.SetRGB(0.1, 0.1, 0.1)
		dc.DrawString(fmt.Sprintf("%s (%d)", l.Node.Title(), l.Node.ID()), x, mid+4)
	}

	return dc.EncodePNG(w)
}

func rowMid(row int) float64 {
	return float64(pngPadding + row*pngRowHeight + pngRowHeight/2)
}

// parentRows maps each row below the top level to its parent's row. The
// parent is the nearest earlier row one level up, which pre-order guarantees.
func parentRows(lines []Line) map[int]int {
	out := make(map[int]int)
	var stack []int // rows of the current ancestor chain
	for i, l := range lines {
		depth := l.Node.Depth()
		stack = stack[:min(len(stack), depth-1)]
		if len(stack) > 0 {
			out[i] = stack[len(stack)-1]
		}
		stack = append(stack, i)
	}
	return out
}
