package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"jinjade/internal/diag"
	"jinjade/internal/source"
)

// Pretty formats diagnostics for humans. Walks bag.Items() (call bag.Sort()
// first). Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by the source line with a ^~~~ underline over the span, then
// notes in the same shape.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		label := d.Severity.String()
		if opts.Color {
			label = severityColor(d.Severity).Sprint(label)
		}
		writeHeading(w, fs, opts, d.Primary, label, d.Code, d.Message)
		writeContext(w, fs, opts, d.Primary)
		if opts.ShowNotes {
			for _, n := range d.Notes {
				label := "NOTE"
				if opts.Color {
					label = color.New(color.FgHiCyan).Sprint(label)
				}
				writeHeading(w, fs, opts, n.Span, label, diag.UnknownCode, n.Msg)
				writeContext(w, fs, opts, n.Span)
			}
		}
	}
}

func writeHeading(w io.Writer, fs *source.FileSet, opts PrettyOpts, sp source.Span, label string, code diag.Code, msg string) {
	start, _ := fs.Resolve(sp)
	path := displayPath(fs, sp.File, opts.PathMode)

	if code == diag.UnknownCode {
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", path, start.Line, start.Col, label, msg)
		return
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, start.Line, start.Col, label, code.ID(), msg)
}

// writeContext prints the offending line and a caret underline matching the
// span's width on that line.
func writeContext(w io.Writer, fs *source.FileSet, opts PrettyOpts, sp source.Span) {
	if opts.Context <= 0 || sp.Empty() && sp.Start == 0 {
		return
	}
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	text := f.GetLine(start.Line)
	if text == "" && start.Line == 0 {
		return
	}

	fmt.Fprintf(w, "  %s\n", text)

	// Underline from the start column to the span end, clamped to this line.
	startCol := int(start.Col)
	endCol := len(text) + 1
	if end.Line == start.Line && int(end.Col) <= endCol {
		endCol = int(end.Col)
	}
	if endCol <= startCol {
		endCol = startCol + 1
	}
	pad := runewidth.StringWidth(text[:min(startCol-1, len(text))])
	width := endCol - startCol
	marker := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		marker = color.New(color.FgHiRed, color.Bold).Sprint(marker)
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), marker)
}

func displayPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	path := fs.Get(id).Path
	switch mode {
	case PathModeRelative:
		if rel, err := filepath.Rel(fs.BaseDir(), path); err == nil {
			return rel
		}
	case PathModeBasename:
		return filepath.Base(path)
	}
	return path
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgHiRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgHiYellow, color.Bold)
	default:
		return color.New(color.FgHiCyan)
	}
}
