package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"jinjade/internal/ast"
	"jinjade/internal/indent"
	"jinjade/internal/line"
)

type LineOutput struct {
	Index   uint32 `json:"index"`
	Indent  string `json:"indent"`
	Content string `json:"content,omitempty"`
	Blank   bool   `json:"blank,omitempty"`
}

// FormatLinesPretty dumps scanned lines in a fixed-width listing.
func FormatLinesPretty(w io.Writer, lines []line.Line) error {
	for _, l := range lines {
		if l.Blank {
			fmt.Fprintf(w, "%3d: blank\n", l.Index)
			continue
		}
		fmt.Fprintf(w, "%3d: indent=%-8q %q\n", l.Index, l.Indent, l.Content)
	}
	return nil
}

// FormatLinesJSON dumps scanned lines as a JSON array.
func FormatLinesJSON(w io.Writer, lines []line.Line) error {
	output := make([]LineOutput, 0, len(lines))
	for _, l := range lines {
		output = append(output, LineOutput{
			Index:   l.Index,
			Indent:  l.Indent,
			Content: l.Content,
			Blank:   l.Blank,
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

type EventOutput struct {
	Kind    string `json:"kind"`
	Line    uint32 `json:"line"`
	Content string `json:"content,omitempty"`
}

// FormatEventsPretty drains the block parser and dumps the event stream.
func FormatEventsPretty(w io.Writer, p *indent.Parser) error {
	for {
		ev, ok := p.Next()
		if !ok {
			return nil
		}
		if ev.Kind == indent.EventLeaf {
			fmt.Fprintf(w, "%3d: %-6s %q\n", ev.Line, ev.Kind, ev.Content)
			continue
		}
		fmt.Fprintf(w, "%3d: %s\n", ev.Line, ev.Kind)
	}
}

// FormatEventsJSON drains the block parser and dumps events as JSON.
func FormatEventsJSON(w io.Writer, p *indent.Parser) error {
	var output []EventOutput
	for {
		ev, ok := p.Next()
		if !ok {
			break
		}
		output = append(output, EventOutput{
			Kind:    ev.Kind.String(),
			Line:    ev.Line,
			Content: ev.Content,
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// FormatTree dumps the node tree with one node per row, indented by depth.
func FormatTree(w io.Writer, b *ast.Builder, root ast.NodeID) error {
	var walk func(id ast.NodeID, depth int)
	walk = func(id ast.NodeID, depth int) {
		n := b.Get(id)
		fmt.Fprintf(w, "%s%s", strings.Repeat("  ", depth), n.Kind)
		if n.Name != "" {
			fmt.Fprintf(w, " %s", n.Name)
		}
		if n.Head != "" {
			fmt.Fprintf(w, " %q", n.Head)
		}
		if len(n.Attrs) > 0 {
			fmt.Fprintf(w, " attrs=%d", len(n.Attrs))
		}
		fmt.Fprintf(w, " [%d..%d]\n", n.Line, n.LastLine)
		for c := n.FirstChild; c.IsValid(); c = b.Get(c).NextSib {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
	return nil
}
