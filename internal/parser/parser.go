// Package parser builds the template node tree from indent events. Each leaf
// line is classified into exactly one node variant using a fixed precedence;
// enter/exit events establish nesting. Any error aborts the parse: the
// transpiler is all-or-nothing.
package parser

import (
	"jinjade/internal/ast"
	"jinjade/internal/diag"
	"jinjade/internal/indent"
	"jinjade/internal/line"
	"jinjade/internal/source"
)

type Options struct {
	Reporter diag.Reporter
}

// Parser holds per-file state for one parse.
type Parser struct {
	file   *source.File
	b      *ast.Builder
	lines  []line.Line
	events *indent.Parser
	opts   Options

	// stack of open parent nodes; stack[0] is the root
	stack []ast.NodeID
	// last node produced at the current depth: the candidate parent when an
	// enter event follows
	last ast.NodeID
}

// ParseFile scans, block-parses and classifies the whole file into b.
// Returns the root node and false if any fatal diagnostic was reported.
func ParseFile(f *source.File, b *ast.Builder, opts Options) (ast.NodeID, bool) {
	lines, ok := line.Scan(f, opts.Reporter)
	if !ok {
		// Ambiguous indentation; bail before block parsing guesses.
		return b.Root(), false
	}

	p := &Parser{
		file:   f,
		b:      b,
		lines:  lines,
		events: indent.New(lines, opts.Reporter),
		opts:   opts,
		stack:  []ast.NodeID{b.Root()},
	}
	if !p.run() {
		return b.Root(), false
	}
	b.Finish(b.Root())
	return b.Root(), true
}

func (p *Parser) run() bool {
	for {
		ev, ok := p.events.Next()
		if !ok {
			return !p.events.Failed()
		}
		switch ev.Kind {
		case indent.EventBlank:
			// Keeps its line slot; nothing to build.

		case indent.EventEnter:
			if !p.canParent(p.last) {
				diag.Error(p.opts.Reporter, diag.SynOrphanBlock, ev.Span,
					"indented block under a construct that cannot have children")
				return false
			}
			p.stack = append(p.stack, p.last)

		case indent.EventExit:
			p.stack = p.stack[:len(p.stack)-1]
			p.last = p.b.Get(p.top()).LastChild

		case indent.EventLeaf:
			id, ok := p.leaf(ev)
			if !ok {
				return false
			}
			p.last = id
		}
	}
}

func (p *Parser) top() ast.NodeID {
	return p.stack[len(p.stack)-1]
}

// canParent reports whether an indented block may open under n. Plain-text
// continuation (children of a text node) is allowed; structures that are
// complete on their own line are not.
func (p *Parser) canParent(id ast.NodeID) bool {
	if !id.IsValid() {
		return false
	}
	n := p.b.Get(id)
	switch n.Kind {
	case ast.KindRoot, ast.KindTag, ast.KindMixinDef, ast.KindText:
		return true
	case ast.KindControl:
		return n.Name != "extends" && n.Name != "include"
	default:
		return false
	}
}

// leaf classifies one content line and attaches the resulting node(s).
func (p *Parser) leaf(ev indent.Event) (ast.NodeID, bool) {
	parent := p.top()
	if p.b.Get(parent).Kind == ast.KindText {
		// Continuation under a text node: content is taken verbatim, no
		// classification.
		id := p.b.New(ast.KindText, ev.Line)
		n := p.b.Get(id)
		n.TextM = ast.TextPlain
		n.Head = ev.Content
		p.b.AppendChild(parent, id)
		return id, true
	}
	return p.classify(parent, ev)
}

// ownerIndent returns the literal indent of the source line, used to bound
// verbatim bodies.
func (p *Parser) ownerIndent(lineNum uint32) string {
	return p.lines[lineNum-1].Indent
}

// contentSpan is the byte span of the line's content, indent excluded.
func (p *Parser) contentSpan(ev indent.Event) source.Span {
	sp := ev.Span
	sp.Start = sp.End - uint32(len(ev.Content))
	return sp
}

// attachVerbatim captures the verbatim body following the owner line and
// attaches each body line as a raw text child. Body lines keep their full
// raw text (indentation included); the generator decides what to do with it.
func (p *Parser) attachVerbatim(owner ast.NodeID, lineNum uint32) {
	body := p.events.TakeVerbatim(p.ownerIndent(lineNum))
	for _, ln := range body {
		id := p.b.New(ast.KindText, ln.Index)
		n := p.b.Get(id)
		n.TextM = ast.TextRaw
		n.Head = ln.Indent + ln.Content
		p.b.AppendChild(owner, id)
	}
}
