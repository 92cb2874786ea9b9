package parser

import (
	"strings"

	"jinjade/internal/ast"
	"jinjade/internal/diag"
	"jinjade/internal/indent"
)

// Control keywords recognized at the start of a line. The value records how
// the keyword maps onto the output language; keywords whose semantics have
// no Jinja2 counterpart are rejected rather than approximated.
var controlKeywords = map[string]bool{
	"if":      true,
	"else":    true,
	"elif":    true,
	"unless":  true,
	"each":    true,
	"for":     true,
	"while":   false, // Jinja2 has no while loop
	"case":    false, // Jinja2 has no case/switch
	"when":    false,
	"default": false,
	"block":   true,
	"append":  true,
	"prepend": true,
	"extends": true,
	"include": true,
}

// Branch keywords that may continue a chain started by one of the chainable
// heads (if / unless / elif, and for/each for loop-else).
var chainHeads = map[string]bool{
	"if": true, "unless": true, "elif": true, "each": true, "for": true,
}

// classify turns one leaf line into a node, applying the fixed precedence:
// comment markers, control keywords, mixin definition, mixin call, filter,
// code/expression leaders, doctype, piped text, then tag syntax. A line that
// matches nothing is an unknown construct, never a silent text fallback.
func (p *Parser) classify(parent ast.NodeID, ev indent.Event) (ast.NodeID, bool) {
	c := ev.Content

	switch {
	case strings.HasPrefix(c, "//-"):
		return p.comment(parent, ev, false, strings.TrimPrefix(c, "//-")), true
	case strings.HasPrefix(c, "//"):
		return p.comment(parent, ev, true, strings.TrimPrefix(c, "//")), true
	case strings.HasPrefix(c, "+"):
		return p.mixinCall(parent, ev)
	case strings.HasPrefix(c, ":"):
		return p.filter(parent, ev)
	case strings.HasPrefix(c, "!!!"):
		return p.doctype(parent, ev, strings.TrimPrefix(c, "!!!")), true
	case strings.HasPrefix(c, "!="):
		return p.exprLeader(parent, ev, strings.TrimPrefix(c, "!="), false), true
	case strings.HasPrefix(c, "="):
		return p.exprLeader(parent, ev, strings.TrimPrefix(c, "="), true), true
	case strings.HasPrefix(c, "-"):
		return p.codeLeader(parent, ev, strings.TrimPrefix(c, "-")), true
	case strings.HasPrefix(c, "|"):
		return p.piped(parent, ev, strings.TrimPrefix(c, "|")), true
	}

	word, rest := splitWord(c)
	switch {
	case word == "doctype":
		return p.doctype(parent, ev, rest), true
	case word == "mixin":
		return p.mixinDef(parent, ev, rest)
	case word != "" && isControlWord(word, c):
		return p.control(parent, ev, word, rest)
	}

	if len(c) > 0 && (isTagStartByte(c[0]) || c[0] == '.' || c[0] == '#' || c[0] == '(') {
		return p.tagLine(parent, ev, c)
	}

	diag.Error(p.opts.Reporter, diag.SynUnknownConstruct, p.contentSpan(ev),
		"unrecognized construct at start of line")
	return ast.NoNodeID, false
}

// splitWord returns the leading lowercase word and the rest of the line with
// one separating space removed.
func splitWord(c string) (word, rest string) {
	i := 0
	for i < len(c) && c[i] >= 'a' && c[i] <= 'z' {
		i++
	}
	word = c[:i]
	rest = c[i:]
	// A word followed by anything but whitespace or EOL is a tag name
	// prefix, not a keyword.
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", c
	}
	return word, strings.TrimLeft(rest, " \t")
}

// isControlWord checks the keyword table; the word must stand alone (already
// guaranteed by splitWord).
func isControlWord(word, _ string) bool {
	_, known := controlKeywords[word]
	return known
}

func (p *Parser) comment(parent ast.NodeID, ev indent.Event, buffered bool, text string) ast.NodeID {
	id := p.b.New(ast.KindComment, ev.Line)
	n := p.b.Get(id)
	n.Buffered = buffered
	n.Head = text
	p.b.AppendChild(parent, id)
	p.attachVerbatim(id, ev.Line)
	return id
}

func (p *Parser) piped(parent ast.NodeID, ev indent.Event, text string) ast.NodeID {
	id := p.b.New(ast.KindText, ev.Line)
	n := p.b.Get(id)
	n.TextM = ast.TextPiped
	n.Head = strings.TrimLeft(text, " \t")
	p.b.AppendChild(parent, id)
	return id
}

func (p *Parser) doctype(parent ast.NodeID, ev indent.Event, name string) ast.NodeID {
	id := p.b.New(ast.KindDoctype, ev.Line)
	p.b.Get(id).Name = strings.TrimSpace(name)
	p.b.AppendChild(parent, id)
	return id
}

// exprLeader handles "= expr" and "!= expr" lines. The expression may span
// further indented lines verbatim, mirroring the input language's buffered
// block rule.
func (p *Parser) exprLeader(parent ast.NodeID, ev indent.Event, text string, escape bool) ast.NodeID {
	id := p.b.New(ast.KindExpr, ev.Line)
	n := p.b.Get(id)
	n.Escape = escape
	n.Head = strings.TrimLeft(text, " \t")
	p.b.AppendChild(parent, id)
	p.attachVerbatim(id, ev.Line)
	return id
}

// codeLeader handles "- stmt" lines, emitted as statement blocks.
func (p *Parser) codeLeader(parent ast.NodeID, ev indent.Event, text string) ast.NodeID {
	id := p.b.New(ast.KindCode, ev.Line)
	p.b.Get(id).Head = strings.TrimLeft(text, " \t")
	p.b.AppendChild(parent, id)
	p.attachVerbatim(id, ev.Line)
	return id
}

func (p *Parser) filter(parent ast.NodeID, ev indent.Event) (ast.NodeID, bool) {
	name := strings.TrimSpace(strings.TrimPrefix(ev.Content, ":"))
	if name == "" || !isIdent(name) {
		diag.Error(p.opts.Reporter, diag.SynEmptyFilter, p.contentSpan(ev),
			"filter requires a name")
		return ast.NoNodeID, false
	}
	id := p.b.New(ast.KindFilter, ev.Line)
	p.b.Get(id).Name = name
	p.b.AppendChild(parent, id)
	p.attachVerbatim(id, ev.Line)
	return id, true
}

func (p *Parser) control(parent ast.NodeID, ev indent.Event, word, rest string) (ast.NodeID, bool) {
	if supported := controlKeywords[word]; !supported {
		diag.Error(p.opts.Reporter, diag.SynUnsupported, p.contentSpan(ev),
			"'"+word+"' has no equivalent in the output language")
		return ast.NoNodeID, false
	}

	// "else if cond" folds to elif.
	if word == "else" {
		if tail, found := strings.CutPrefix(rest, "if"); found && (tail == "" || tail[0] == ' ' || tail[0] == '\t') {
			word = "elif"
			rest = strings.TrimLeft(tail, " \t")
		}
	}

	id := p.b.New(ast.KindControl, ev.Line)
	n := p.b.Get(id)
	n.Name = word
	n.Head = rest

	if word == "else" || word == "elif" {
		prev := p.b.Get(parent).LastChild
		if !p.isChainTail(prev) {
			diag.Error(p.opts.Reporter, diag.SynDanglingElse, p.contentSpan(ev),
				"'"+word+"' does not continue a conditional or loop")
			return ast.NoNodeID, false
		}
		p.b.AppendChild(parent, id)
		p.b.LinkBranch(prev, id)
		return id, true
	}

	p.b.AppendChild(parent, id)
	return id, true
}

// isChainTail reports whether prev can be continued by an else/elif branch:
// a chainable control node that is not already continued.
func (p *Parser) isChainTail(prev ast.NodeID) bool {
	if !prev.IsValid() {
		return false
	}
	n := p.b.Get(prev)
	if n.Kind != ast.KindControl || n.NextBranch.IsValid() {
		return false
	}
	return chainHeads[n.Name]
}

func isTagStartByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isIdentByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' ||
		b >= '0' && b <= '9' || b == '-' || b == '_'
}

func isIdent(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	return len(s) > 0
}
