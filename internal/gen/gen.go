// Package gen renders the finished node tree as Jinja2 text. The output is
// one line per source line: each node writes its opener into the slot of its
// own line and its closer into the slot of its last descendant's line, which
// reproduces the input's dedent-implied closers without ever inventing a
// line. Rendering never fails; everything that can go wrong was rejected by
// earlier passes.
package gen

import (
	"strings"

	"jinjade/internal/ast"
	"jinjade/internal/attr"
)

// Void HTML elements never take a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Document type declarations by name; an unknown name falls back to a
// generic declaration.
var doctypes = map[string]string{
	"5":            "<!DOCTYPE html>",
	"default":      "<!DOCTYPE html>",
	"html":         "<!DOCTYPE html>",
	"xml":          `<?xml version="1.0" encoding="utf-8" ?>`,
	"transitional": `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">`,
	"strict":       `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">`,
	"frameset":     `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Frameset//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-frameset.dtd">`,
	"1.1":          `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.1//EN" "http://www.w3.org/TR/xhtml11/DTD/xhtml11.dtd">`,
	"basic":        `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML Basic 1.1//EN" "http://www.w3.org/TR/xhtml-basic/xhtml-basic11.dtd">`,
	"mobile":       `<!DOCTYPE html PUBLIC "-//WAPFORUM//DTD XHTML Mobile 1.2//EN" "http://www.openmobilealliance.org/tech/DTD/xhtml-mobile12.dtd">`,
}

// Render emits the tree as one output line per source line. Blank source
// lines and lines whose node was dropped stay empty.
func Render(b *ast.Builder, root ast.NodeID, numLines uint32) []string {
	g := &generator{b: b, out: make([]string, numLines)}
	g.children(root)
	return g.out
}

// Join assembles rendered lines into the final document, one newline per
// line including the last.
func Join(lines []string) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}

type generator struct {
	b   *ast.Builder
	out []string
}

func (g *generator) emit(lineNum uint32, s string) {
	g.out[lineNum-1] += s
}

func (g *generator) children(id ast.NodeID) {
	for c := g.b.Get(id).FirstChild; c.IsValid(); c = g.b.Get(c).NextSib {
		g.node(c)
	}
}

func (g *generator) node(id ast.NodeID) {
	n := g.b.Get(id)
	switch n.Kind {
	case ast.KindTag:
		g.tag(id, n)
	case ast.KindText:
		g.emit(n.Line, n.Head)
		g.children(id)
	case ast.KindCode:
		g.spanned(id, n, "{% ", " %}")
	case ast.KindExpr:
		if n.Escape {
			g.spanned(id, n, "{{ ", " }}")
		} else {
			g.spanned(id, n, "{{ ", " |safe }}")
		}
	case ast.KindControl:
		g.control(id, n)
	case ast.KindMixinDef:
		g.emit(n.Line, "{% macro "+n.Name+"("+n.Head+") %}")
		g.children(id)
		g.emit(n.LastLine, "{% endmacro %}")
	case ast.KindMixinCall:
		g.emit(n.Line, "{{ "+n.Name+"("+n.Head+") }}")
	case ast.KindComment:
		g.comment(id, n)
	case ast.KindFilter:
		g.emit(n.Line, "{% filter "+n.Name+" %}")
		g.rawBody(id)
		g.emit(n.LastLine, "{% endfilter %}")
	case ast.KindDoctype:
		g.emit(n.Line, doctypeFor(n.Name))
	}
}

func doctypeFor(name string) string {
	if name == "" {
		name = "default"
	}
	if d, ok := doctypes[name]; ok {
		return d
	}
	return "<!DOCTYPE " + name + ">"
}

func (g *generator) tag(id ast.NodeID, n *ast.Node) {
	name := n.Name
	if name == "" {
		name = "div"
	}
	g.emit(n.Line, "<"+name+renderAttrs(n.Attrs)+">")
	g.children(id)
	if !voidElements[name] {
		g.emit(n.LastLine, "</"+name+">")
	}
}

// renderAttrs writes the normalized attribute list in HTML form. Static
// string values stay literal; anything else is wrapped in an output
// expression so the template engine evaluates it.
func renderAttrs(attrs attr.List) string {
	var sb strings.Builder
	for _, a := range attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		if a.Boolean {
			continue
		}
		if lit, ok := attr.Literal(a.Val); ok {
			sb.WriteString(`="` + lit + `"`)
		} else {
			sb.WriteString(`="{{ ` + a.Val + ` }}"`)
		}
	}
	return sb.String()
}

// spanned renders a construct whose body may continue on deeper verbatim
// lines: opener and head on the node's line, raw body lines in place, closer
// after the last of them.
func (g *generator) spanned(id ast.NodeID, n *ast.Node, open, closer string) {
	g.emit(n.Line, open+n.Head)
	g.rawBody(id)
	g.emit(n.LastLine, closer)
}

// rawBody copies verbatim child lines into their slots unchanged.
func (g *generator) rawBody(id ast.NodeID) {
	for c := g.b.Get(id).FirstChild; c.IsValid(); c = g.b.Get(c).NextSib {
		cn := g.b.Get(c)
		g.emit(cn.Line, cn.Head)
	}
}

func (g *generator) comment(id ast.NodeID, n *ast.Node) {
	if !n.Buffered {
		// Dropped comment: its lines stay blank to keep the slot count.
		return
	}
	g.emit(n.Line, "<!--"+n.Head)
	g.rawBody(id)
	g.emit(n.LastLine, "-->")
}

func (g *generator) control(id ast.NodeID, n *ast.Node) {
	g.emit(n.Line, controlOpen(n))
	g.children(id)

	// A continued branch hands its closer duty to the next branch in the
	// chain; only the last branch closes, with the keyword of the chain head.
	if n.NextBranch.IsValid() {
		return
	}
	if closer := controlClose(g.chainHead(n)); closer != "" {
		g.emit(n.LastLine, closer)
	}
}

func controlOpen(n *ast.Node) string {
	switch n.Name {
	case "unless":
		return "{% if not (" + n.Head + ") %}"
	case "each":
		return "{% for " + n.Head + " %}"
	case "else":
		return "{% else %}"
	case "elif":
		return "{% elif " + n.Head + " %}"
	case "prepend":
		return "{% block " + n.Head + " %}"
	case "append":
		return "{% block " + n.Head + " %}{{ super() }}"
	default:
		if n.Head == "" {
			return "{% " + n.Name + " %}"
		}
		return "{% " + n.Name + " " + n.Head + " %}"
	}
}

// controlClose returns the closing statement for a chain-head keyword, or ""
// for single-sided constructs.
func controlClose(head string) string {
	switch head {
	case "if", "unless":
		return "{% endif %}"
	case "for", "each":
		return "{% endfor %}"
	case "block", "append":
		return "{% endblock %}"
	case "prepend":
		return "{{ super() }}{% endblock %}"
	case "extends", "include":
		return ""
	default:
		return "{% end" + head + " %}"
	}
}

// chainHead walks branch back-references to the keyword that opened the
// chain; a lone control node is its own head.
func (g *generator) chainHead(n *ast.Node) string {
	for n.PrevBranch.IsValid() {
		n = g.b.Get(n.PrevBranch)
	}
	return n.Name
}
