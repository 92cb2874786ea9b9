package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"jinjade/internal/ast"
	"jinjade/internal/diag"
	"jinjade/internal/parser"
	"jinjade/internal/source"
)

func parse(t *testing.T, input string) (*ast.Builder, ast.NodeID, *diag.Bag, bool) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.jade", []byte(input))
	bag := diag.NewBag(16)
	b := ast.NewBuilder(16)
	root, ok := parser.ParseFile(fs.Get(id), b, parser.Options{
		Reporter: diag.BagReporter{Bag: bag},
	})
	return b, root, bag, ok
}

func mustParse(t *testing.T, input string) (*ast.Builder, ast.NodeID) {
	t.Helper()
	b, root, bag, ok := parse(t, input)
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	return b, root
}

// dump flattens the tree into "kind name@line" strings in pre-order, with a
// dot per depth level.
func dump(b *ast.Builder, root ast.NodeID) []string {
	var out []string
	var walk func(id ast.NodeID, depth int)
	walk = func(id ast.NodeID, depth int) {
		n := b.Get(id)
		label := n.Kind.String()
		if n.Name != "" {
			label += " " + n.Name
		}
		out = append(out, fmt.Sprintf("%s%s@%d", strings.Repeat(".", depth), label, n.Line))
		for c := n.FirstChild; c.IsValid(); c = b.Get(c).NextSib {
			walk(c, depth+1)
		}
	}
	for c := b.Get(root).FirstChild; c.IsValid(); c = b.Get(c).NextSib {
		walk(c, 0)
	}
	return out
}

func TestNestedTags(t *testing.T) {
	b, root := mustParse(t, "div\n  p Hello\n")
	want := []string{
		"tag div@1",
		".tag p@2",
		"..text@2",
	}
	if diff := cmp.Diff(want, dump(b, root)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestQualifiers(t *testing.T) {
	b, root := mustParse(t, `a.btn.primary#go(href="/x", data-v=expr)`)
	n := b.Get(b.Get(root).FirstChild)
	if n.Name != "a" {
		t.Fatalf("tag name = %q", n.Name)
	}
	var got []string
	for _, a := range n.Attrs {
		got = append(got, a.Key+"="+a.Val)
	}
	want := []string{`class="btn primary"`, `id="go"`, `href="/x"`, `data-v=expr`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("attrs mismatch (-want +got):\n%s", diff)
	}
}

func TestImplicitDiv(t *testing.T) {
	b, root := mustParse(t, ".card#main\n")
	n := b.Get(b.Get(root).FirstChild)
	if n.Kind != ast.KindTag || n.Name != "" {
		t.Fatalf("implicit div: kind=%s name=%q", n.Kind, n.Name)
	}
	if len(n.Attrs) != 2 {
		t.Errorf("attrs = %+v, want class and id", n.Attrs)
	}
}

func TestInlineChain(t *testing.T) {
	b, root := mustParse(t, "li: a(href=url) Go\n")
	want := []string{
		"tag li@1",
		".tag a@1",
		"..text@1",
	}
	if diff := cmp.Diff(want, dump(b, root)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestInlineChainReturnsInnermost(t *testing.T) {
	// Children of the chain line nest under the innermost tag.
	b, root := mustParse(t, "li: a\n  span deep\n")
	want := []string{
		"tag li@1",
		".tag a@1",
		"..tag span@2",
		"...text@2",
	}
	if diff := cmp.Diff(want, dump(b, root)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestTagExprShorthand(t *testing.T) {
	b, root := mustParse(t, "p= user.name\n")
	tag := b.Get(b.Get(root).FirstChild)
	expr := b.Get(tag.FirstChild)
	if expr.Kind != ast.KindExpr || !expr.Escape || expr.Head != "user.name" {
		t.Errorf("expr child = %+v", expr)
	}
}

func TestTagUnescapedExprShorthand(t *testing.T) {
	b, root := mustParse(t, "p!= raw_html\n")
	expr := b.Get(b.Get(b.Get(root).FirstChild).FirstChild)
	if expr.Kind != ast.KindExpr || expr.Escape {
		t.Errorf("expr child = %+v, want unescaped", expr)
	}
}

func TestDotBlock(t *testing.T) {
	b, root := mustParse(t, "script.\n  var x = 1;\n  run(x);\np after\n")
	want := []string{
		"tag script@1",
		".text@2",
		".text@3",
		"tag p@4",
		".text@4",
	}
	if diff := cmp.Diff(want, dump(b, root)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	raw := b.Get(b.Get(b.Get(root).FirstChild).FirstChild)
	if raw.TextM != ast.TextRaw || raw.Head != "  var x = 1;" {
		t.Errorf("raw line = %+v", raw)
	}
}

func TestPipedAndContinuation(t *testing.T) {
	b, root := mustParse(t, "p\n  | one\n    two\n")
	want := []string{
		"tag p@1",
		".text@2",
		"..text@3",
	}
	if diff := cmp.Diff(want, dump(b, root)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestControlChain(t *testing.T) {
	b, root := mustParse(t, "if a\n  p one\nelse if b\n  p two\nelse\n  p three\n")
	kids := b.Get(root)
	first := b.Get(kids.FirstChild)
	if first.Name != "if" {
		t.Fatalf("first control = %q", first.Name)
	}
	second := b.Get(first.NextBranch)
	if second.Name != "elif" || second.Head != "b" {
		t.Errorf("folded else-if: name=%q head=%q", second.Name, second.Head)
	}
	third := b.Get(second.NextBranch)
	if third.Name != "else" {
		t.Errorf("third branch = %q", third.Name)
	}
	if third.NextBranch.IsValid() {
		t.Error("chain should end at else")
	}
}

func TestDanglingElse(t *testing.T) {
	_, _, bag, ok := parse(t, "p x\nelse\n  p y\n")
	if ok {
		t.Fatal("parse succeeded")
	}
	if d, _ := bag.FirstError(); d.Code != diag.SynDanglingElse {
		t.Errorf("code = %s, want %s", d.Code, diag.SynDanglingElse)
	}
}

func TestOrphanBlock(t *testing.T) {
	// Doctype lines are complete; nothing may nest under them.
	_, _, bag, ok := parse(t, "doctype html\n  p x\n")
	if ok {
		t.Fatal("parse succeeded")
	}
	if d, _ := bag.FirstError(); d.Code != diag.SynOrphanBlock {
		t.Errorf("code = %s, want %s", d.Code, diag.SynOrphanBlock)
	}
}

func TestUnknownConstruct(t *testing.T) {
	_, _, bag, ok := parse(t, "@weird\n")
	if ok {
		t.Fatal("parse succeeded")
	}
	if d, _ := bag.FirstError(); d.Code != diag.SynUnknownConstruct {
		t.Errorf("code = %s, want %s", d.Code, diag.SynUnknownConstruct)
	}
}

func TestUnsupportedKeyword(t *testing.T) {
	for _, kw := range []string{"case x", "while x", "when 1", "default"} {
		_, _, bag, ok := parse(t, kw+"\n")
		if ok {
			t.Fatalf("%q parsed", kw)
		}
		if d, _ := bag.FirstError(); d.Code != diag.SynUnsupported {
			t.Errorf("%q: code = %s, want %s", kw, d.Code, diag.SynUnsupported)
		}
	}
}

func TestKeywordPrefixIsTag(t *testing.T) {
	// "iframe" starts with "if" but is a tag.
	b, root := mustParse(t, "iframe(src=u)\n")
	n := b.Get(b.Get(root).FirstChild)
	if n.Kind != ast.KindTag || n.Name != "iframe" {
		t.Errorf("node = %+v, want tag iframe", n)
	}
}

func TestCommentBodiesAreOpaque(t *testing.T) {
	// Anything under a comment is captured raw, even invalid syntax.
	b, root := mustParse(t, "//- secret\n  @not jade\n  while x\ndiv\n")
	want := []string{
		"comment@1",
		".text@2",
		".text@3",
		"tag div@4",
	}
	if diff := cmp.Diff(want, dump(b, root)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestMixinDefAndCall(t *testing.T) {
	b, root := mustParse(t, "mixin item(name, url)\n  li= name\n+item('Home', '/')\n")
	want := []string{
		"mixin-def item@1",
		".tag li@2",
		"..expr@2",
		"mixin-call item@3",
	}
	if diff := cmp.Diff(want, dump(b, root)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	def := b.Get(b.Get(root).FirstChild)
	if def.Head != "name, url" {
		t.Errorf("params = %q", def.Head)
	}
}

func TestMixinCallUnterminatedArgs(t *testing.T) {
	_, _, bag, ok := parse(t, "+item('Home'\n")
	if ok {
		t.Fatal("parse succeeded")
	}
	if d, _ := bag.FirstError(); d.Code != diag.AttrUnterminated {
		t.Errorf("code = %s, want %s", d.Code, diag.AttrUnterminated)
	}
}

// Attribute errors underline the whole run from the opening paren to the
// offending byte, not a single character.
func TestAttrErrorSpanCoversParenRun(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.jade", []byte("a(href=\n"))
	bag := diag.NewBag(16)
	b := ast.NewBuilder(16)
	_, ok := parser.ParseFile(fs.Get(id), b, parser.Options{
		Reporter: diag.BagReporter{Bag: bag},
	})
	if ok {
		t.Fatal("parse succeeded")
	}
	d, found := bag.FirstError()
	if !found || d.Code != diag.AttrUnterminated {
		t.Fatalf("first error = %v", bag.Items())
	}
	start, _ := fs.Resolve(d.Primary)
	if start.Line != 1 || start.Col != 2 {
		t.Errorf("span starts at %d:%d, want 1:2 (the opening paren)", start.Line, start.Col)
	}
	if d.Primary.Len() < 2 {
		t.Errorf("span %v does not cover the attribute run", d.Primary)
	}
}

func TestFilterRequiresName(t *testing.T) {
	_, _, bag, ok := parse(t, ":\n  body\n")
	if ok {
		t.Fatal("parse succeeded")
	}
	if d, _ := bag.FirstError(); d.Code != diag.SynEmptyFilter {
		t.Errorf("code = %s, want %s", d.Code, diag.SynEmptyFilter)
	}
}

func TestLastLineCoversDescendants(t *testing.T) {
	b, root := mustParse(t, "div\n  p\n    em x\n  span y\n")
	div := b.Get(b.Get(root).FirstChild)
	if div.LastLine != 4 {
		t.Errorf("div.LastLine = %d, want 4", div.LastLine)
	}
	pNode := b.Get(div.FirstChild)
	if pNode.LastLine != 3 {
		t.Errorf("p.LastLine = %d, want 3", pNode.LastLine)
	}
}

func TestPreOrderLinesMonotonic(t *testing.T) {
	src := "doctype html\nhtml\n  head\n    title x\n  body\n    if ok\n      p yes\n    else\n      p no\n"
	b, root := mustParse(t, src)
	prev := uint32(0)
	b.Walk(root, func(_ ast.NodeID, n *ast.Node) {
		if n.Line < prev {
			t.Errorf("node %s@%d before line %d in pre-order", n.Kind, n.Line, prev)
		}
		prev = n.Line
	})
}
