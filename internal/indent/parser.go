// Package indent recovers the nested block structure of an
// indentation-sensitive source from whitespace alone. It consumes classified
// lines and produces a stream of enter/leaf/exit/blank events; inconsistent
// dedents are fatal.
package indent

import (
	"strings"

	"jinjade/internal/diag"
	"jinjade/internal/line"
)

// Parser walks the line list keeping a stack of open indent prefixes.
// The bottom of the stack is the empty prefix: the document root.
//
// Prefixes are compared as literal strings: a line indented with a
// different but equal-width mixture of tabs and spaces never matches an
// open block and is an error, not a guess.
type Parser struct {
	lines    []line.Line
	pos      int
	stack    []string
	queue    []Event
	reporter diag.Reporter
	failed   bool
	done     bool
}

// New creates a parser over the scanned lines.
func New(lines []line.Line, reporter diag.Reporter) *Parser {
	return &Parser{
		lines:    lines,
		stack:    []string{""},
		reporter: reporter,
	}
}

// Failed reports whether a fatal indentation error stopped the stream.
func (p *Parser) Failed() bool {
	return p.failed
}

// Next returns the next event. ok is false when the stream is exhausted or a
// fatal error occurred (check Failed).
func (p *Parser) Next() (Event, bool) {
	for len(p.queue) == 0 {
		if p.failed || p.done {
			return Event{}, false
		}
		p.advance()
	}
	ev := p.queue[0]
	p.queue = p.queue[1:]
	return ev, true
}

func (p *Parser) advance() {
	if p.pos >= len(p.lines) {
		// Close everything still open at the last seen line.
		last := uint32(0)
		if len(p.lines) > 0 {
			last = p.lines[len(p.lines)-1].Index
		}
		for len(p.stack) > 1 {
			p.stack = p.stack[:len(p.stack)-1]
			p.queue = append(p.queue, Event{Kind: EventExit, Line: last})
		}
		p.done = true
		return
	}

	ln := p.lines[p.pos]
	p.pos++

	if ln.Blank {
		p.queue = append(p.queue, Event{Kind: EventBlank, Line: ln.Index, Span: ln.Span})
		return
	}

	top := p.stack[len(p.stack)-1]
	switch {
	case ln.Indent == top:
		// Same depth.

	case hasProperPrefix(ln.Indent, top):
		p.stack = append(p.stack, ln.Indent)
		p.queue = append(p.queue, Event{Kind: EventEnter, Line: ln.Index, Span: ln.IndentSpan()})

	default:
		// Dedent: pop until an exact match; anything else is inconsistent.
		for len(p.stack) > 1 && hasProperPrefix(p.stack[len(p.stack)-1], ln.Indent) {
			p.stack = p.stack[:len(p.stack)-1]
			p.queue = append(p.queue, Event{Kind: EventExit, Line: ln.Index, Span: ln.IndentSpan()})
		}
		if p.stack[len(p.stack)-1] != ln.Indent {
			diag.Error(p.reporter, diag.IndentBadDedent, ln.IndentSpan(),
				"indentation does not match any open block")
			p.failed = true
			p.queue = nil
			return
		}
	}

	p.queue = append(p.queue, Event{
		Kind:    EventLeaf,
		Line:    ln.Index,
		Content: ln.Content,
		Span:    ln.Span,
	})
}

// TakeVerbatim consumes the following lines belonging to a verbatim block
// whose introducing line is indented with ownerIndent: every line whose
// indent has ownerIndent as a proper prefix, plus interior blank lines.
// Trailing blank lines are left for the normal indentation flow. Verbatim
// bodies are exempt from the usual indent discipline, matching the input
// language's comment/text-block rule.
func (p *Parser) TakeVerbatim(ownerIndent string) []line.Line {
	if len(p.queue) > 0 {
		// Leaf events are handed out one at a time, so the queue is empty
		// whenever the node builder asks for a verbatim body.
		panic("indent: TakeVerbatim called with pending events")
	}

	end := p.pos // exclusive index one past the last body line
	for i := p.pos; i < len(p.lines); i++ {
		ln := p.lines[i]
		if ln.Blank {
			continue
		}
		if !hasProperPrefix(ln.Indent, ownerIndent) {
			break
		}
		end = i + 1
	}
	body := p.lines[p.pos:end]
	p.pos = end
	return body
}

// hasProperPrefix reports whether s strictly extends prefix.
func hasProperPrefix(s, prefix string) bool {
	return len(s) > len(prefix) && strings.HasPrefix(s, prefix)
}
