// Package line splits a source file into classified physical lines: the
// first stage of the transpile pipeline. Indentation is kept as the literal
// whitespace prefix, not a width, so later comparison is exact.
package line

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"jinjade/internal/diag"
	"jinjade/internal/source"
)

// Line is one physical source line.
type Line struct {
	Index   uint32 // 1-based source line number
	Span    source.Span
	Indent  string // literal leading whitespace
	Content string // text after Indent, newline excluded
	Blank   bool   // whitespace-only line
}

// IndentSpan is the byte span of the leading whitespace.
func (l Line) IndentSpan() source.Span {
	indentLen, err := safecast.Conv[uint32](len(l.Indent))
	if err != nil {
		panic(fmt.Errorf("indent length overflow: %w", err))
	}
	return source.Span{File: l.Span.File, Start: l.Span.Start, End: l.Span.Start + indentLen}
}

// Scan reads every physical line of the file. Indent prefixes mixing tabs
// and spaces are reported through the reporter as IndentMixedTabs; scanning
// continues so the caller sees the full line list, but ok is false when any
// line was ambiguous.
func Scan(f *source.File, reporter diag.Reporter) (lines []Line, ok bool) {
	n := f.NumLines()
	out := make([]Line, 0, n)
	ok = true
	for i := uint32(1); i <= n; i++ {
		span, found := f.LineSpan(i)
		if !found {
			break
		}
		raw := string(f.Content[span.Start:span.End])
		indent := leadingWhitespace(raw)
		ln := Line{
			Index:   i,
			Span:    span,
			Indent:  indent,
			Content: raw[len(indent):],
			Blank:   len(indent) == len(raw),
		}
		if !ln.Blank && mixesTabsAndSpaces(indent) {
			diag.Error(reporter, diag.IndentMixedTabs, ln.IndentSpan(),
				"indentation mixes tabs and spaces")
			ok = false
		}
		out = append(out, ln)
	}
	return out, ok
}

func leadingWhitespace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[:i]
}

// mixesTabsAndSpaces reports an indent prefix whose width cannot be compared
// unambiguously against other prefixes.
func mixesTabsAndSpaces(indent string) bool {
	return strings.ContainsRune(indent, ' ') && strings.ContainsRune(indent, '\t')
}
