package parser

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"jinjade/internal/ast"
	"jinjade/internal/attr"
	"jinjade/internal/diag"
	"jinjade/internal/indent"
	"jinjade/internal/source"
)

// tagLine parses a tag leaf: optional name, qualifiers (.class, #id,
// (attrs)), then an optional concluder. ":" chains another tag on the same
// physical line as the sole child; "=" and "." introduce verbatim blocks;
// anything after a space is inline text. Every synthetic child shares the
// parent's source line.
func (p *Parser) tagLine(parent ast.NodeID, ev indent.Event, content string) (ast.NodeID, bool) {
	id, rest, ok := p.tagHead(parent, ev, content)
	if !ok {
		return ast.NoNodeID, false
	}

	switch {
	case rest == "":
		return id, true

	case rest[0] == ':':
		rest = strings.TrimLeft(rest[1:], " \t")
		if rest == "" {
			diag.Error(p.opts.Reporter, diag.SynUnknownConstruct, p.contentSpan(ev),
				"expected a tag after ':'")
			return ast.NoNodeID, false
		}
		if !isTagStartByte(rest[0]) && rest[0] != '.' && rest[0] != '#' && rest[0] != '(' {
			diag.Error(p.opts.Reporter, diag.SynUnknownConstruct, p.contentSpan(ev),
				"only a tag may follow ':'")
			return ast.NoNodeID, false
		}
		return p.tagLine(id, ev, rest)

	case rest[0] == '=' || strings.HasPrefix(rest, "!="):
		escape := rest[0] == '='
		if escape {
			rest = rest[1:]
		} else {
			rest = rest[2:]
		}
		child := p.b.New(ast.KindExpr, ev.Line)
		n := p.b.Get(child)
		n.Escape = escape
		n.Head = strings.TrimLeft(rest, " \t")
		p.b.AppendChild(id, child)
		p.attachVerbatim(child, ev.Line)
		return id, true

	case rest[0] == '.' && strings.TrimSpace(rest) == ".":
		// Trailing dot: the whole indented block below is raw text.
		p.attachVerbatim(id, ev.Line)
		return id, true

	case rest[0] == ' ' || rest[0] == '\t':
		text := strings.TrimLeft(rest, " \t")
		if text != "" {
			child := p.b.New(ast.KindText, ev.Line)
			n := p.b.Get(child)
			n.TextM = ast.TextPlain
			n.Head = text
			p.b.AppendChild(id, child)
		}
		return id, true

	default:
		diag.Error(p.opts.Reporter, diag.SynUnknownConstruct, p.contentSpan(ev),
			fmt.Sprintf("unexpected %q after tag", rest[0]))
		return ast.NoNodeID, false
	}
}

// tagHead consumes the tag name and qualifiers, returning the node and the
// unconsumed remainder of the line.
func (p *Parser) tagHead(parent ast.NodeID, ev indent.Event, content string) (ast.NodeID, string, bool) {
	pos := 0
	name := ""
	if isTagStartByte(content[0]) {
		for pos < len(content) && isTagNameByte(content[pos]) {
			pos++
		}
		name = content[:pos]
	}

	id := p.b.New(ast.KindTag, ev.Line)
	p.b.Get(id).Name = name
	p.b.AppendChild(parent, id)

	var raw []attr.Attr
	for pos < len(content) {
		switch content[pos] {
		case '.':
			// ".name" is a class qualifier; a bare trailing "." is the
			// text-block concluder and belongs to the caller.
			if pos+1 >= len(content) || !isIdentByte(content[pos+1]) {
				p.b.Get(id).Attrs = attr.Normalize(raw)
				return id, content[pos:], true
			}
			start := pos + 1
			pos = start
			for pos < len(content) && isIdentByte(content[pos]) {
				pos++
			}
			raw = append(raw, attr.Attr{Key: "class", Val: `"` + content[start:pos] + `"`})

		case '#':
			start := pos + 1
			pos = start
			for pos < len(content) && isIdentByte(content[pos]) {
				pos++
			}
			if pos == start {
				diag.Error(p.opts.Reporter, diag.SynUnknownConstruct,
					p.offsetSpan(ev, start), "expected an id after '#'")
				return ast.NoNodeID, "", false
			}
			raw = append(raw, attr.Attr{Key: "id", Val: `"` + content[start:pos] + `"`})

		case '(':
			attrs, consumed, ok := attr.Scan(content[pos:], func(code diag.Code, off int, msg string) {
				// Underline from the opening paren through the offending byte.
				sp := p.offsetSpan(ev, pos).Cover(p.offsetSpan(ev, pos+off))
				p.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
			})
			if !ok {
				return ast.NoNodeID, "", false
			}
			raw = append(raw, attrs...)
			pos += consumed

		default:
			p.b.Get(id).Attrs = attr.Normalize(raw)
			return id, content[pos:], true
		}
	}

	p.b.Get(id).Attrs = attr.Normalize(raw)
	return id, "", true
}

// mixinDef parses "mixin name(params)". Parameters are opaque text.
func (p *Parser) mixinDef(parent ast.NodeID, ev indent.Event, rest string) (ast.NodeID, bool) {
	name, tail := cutIdent(rest)
	if name == "" {
		diag.Error(p.opts.Reporter, diag.SynUnknownConstruct, p.contentSpan(ev),
			"mixin definition requires a name")
		return ast.NoNodeID, false
	}
	params := ""
	if strings.HasPrefix(tail, "(") {
		inner, consumed, ok := p.balanced(ev, tail)
		if !ok {
			return ast.NoNodeID, false
		}
		params = inner
		tail = tail[consumed:]
	}
	if strings.TrimSpace(tail) != "" {
		diag.Error(p.opts.Reporter, diag.SynUnknownConstruct, p.contentSpan(ev),
			"unexpected text after mixin definition")
		return ast.NoNodeID, false
	}

	id := p.b.New(ast.KindMixinDef, ev.Line)
	n := p.b.Get(id)
	n.Name = name
	n.Head = params
	p.b.AppendChild(parent, id)
	return id, true
}

// mixinCall parses "+name(args)" with an optional trailing inline text.
func (p *Parser) mixinCall(parent ast.NodeID, ev indent.Event) (ast.NodeID, bool) {
	rest := strings.TrimPrefix(ev.Content, "+")
	name, tail := cutIdent(rest)
	if name == "" {
		diag.Error(p.opts.Reporter, diag.SynUnknownConstruct, p.contentSpan(ev),
			"mixin call requires a name")
		return ast.NoNodeID, false
	}
	args := ""
	if strings.HasPrefix(tail, "(") {
		inner, consumed, ok := p.balanced(ev, tail)
		if !ok {
			return ast.NoNodeID, false
		}
		args = inner
		tail = tail[consumed:]
	}
	if strings.TrimSpace(tail) != "" {
		diag.Error(p.opts.Reporter, diag.SynUnknownConstruct, p.contentSpan(ev),
			"unexpected text after mixin call")
		return ast.NoNodeID, false
	}

	id := p.b.New(ast.KindMixinCall, ev.Line)
	n := p.b.Get(id)
	n.Name = name
	n.Head = args
	p.b.AppendChild(parent, id)
	return id, true
}

// balanced consumes a parenthesized run starting at src[0] == '(',
// respecting quotes and nested brackets, and returns the inner text.
func (p *Parser) balanced(ev indent.Event, src string) (inner string, consumed int, ok bool) {
	depth := 0
	var quoteCh byte
	for i := 0; i < len(src); i++ {
		b := src[i]
		switch {
		case quoteCh != 0:
			if b == quoteCh {
				quoteCh = 0
			} else if b == '\\' {
				i++
			}
		case b == '"' || b == '\'':
			quoteCh = b
		case b == '(' || b == '[' || b == '{':
			depth++
		case b == ')' || b == ']' || b == '}':
			depth--
			if depth == 0 {
				return src[1:i], i + 1, true
			}
		}
	}
	diag.Error(p.opts.Reporter, diag.AttrUnterminated, p.contentSpan(ev),
		"unterminated argument list")
	return "", 0, false
}

// cutIdent splits a leading identifier off s.
func cutIdent(s string) (ident, rest string) {
	i := 0
	for i < len(s) && isIdentByte(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func isTagNameByte(b byte) bool {
	return isTagStartByte(b) || b >= '0' && b <= '9' || b == '-'
}

// offsetSpan is the span of a single byte at the given offset into the
// line's content.
func (p *Parser) offsetSpan(ev indent.Event, off int) source.Span {
	cs := p.contentSpan(ev)
	delta, err := safecast.Conv[uint32](off)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	start := cs.Start + delta
	return source.Span{File: cs.File, Start: start, End: start + 1}
}
