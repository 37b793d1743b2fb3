package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/drill/pkg/tree"
)

// Format is an export output format.
type Format string

const (
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatSVG      Format = "svg"
	FormatPNG      Format = "png"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return FormatText, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".svg":
		return FormatSVG, nil
	case ".png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use .txt, .md, .svg or .png)", filepath.Ext(path))
	}
}

// Write renders t to w in the given format.
func Write(w io.Writer, t *tree.Tree, format Format) error {
	switch format {
	case FormatText:
		return WriteText(w, t)
	case FormatMarkdown:
		return WriteMarkdown(w, t)
	case FormatSVG:
		return WriteSVG(w, Outline(t))
	case FormatPNG:
		return WritePNG(w, Outline(t))
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// ExportFile writes t to path, choosing the format from its extension.
func ExportFile(path string, t *tree.Tree) (err error) {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := Write(f, t, format); err != nil {
		return fmt.Errorf("write %s export: %w", format, err)
	}
	return nil
}
