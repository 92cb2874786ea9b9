package gen_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"jinjade/internal/ast"
	"jinjade/internal/diag"
	"jinjade/internal/gen"
	"jinjade/internal/mixin"
	"jinjade/internal/parser"
	"jinjade/internal/source"
)

func render(t *testing.T, input string) []string {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.jade", []byte(input))
	f := fs.Get(id)
	bag := diag.NewBag(16)
	reporter := diag.BagReporter{Bag: bag}

	b := ast.NewBuilder(16)
	root, ok := parser.ParseFile(f, b, parser.Options{Reporter: reporter})
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	if !mixin.Resolve(b, root, f, reporter) {
		t.Fatalf("resolve failed: %v", bag.Items())
	}
	return gen.Render(b, root, f.NumLines())
}

func expect(t *testing.T, input string, want []string) {
	t.Helper()
	got := render(t, input)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedTagCloser(t *testing.T) {
	expect(t, "div\n  p Hello\n", []string{
		"<div>",
		"<p>Hello</p></div>",
	})
}

func TestOneLinePerSourceLine(t *testing.T) {
	inputs := []string{
		"div\n  p Hello\n",
		"doctype html\nhtml\n  body\n    if ok\n      p yes\n    else\n      p no\n",
		"ul\n  li: a(href=url) x\n\n  li y\n",
		"//- gone\n  inner\np\n",
	}
	for _, input := range inputs {
		got := render(t, input)
		fs := source.NewFileSet()
		f := fs.Get(fs.AddVirtual("n.jade", []byte(input)))
		if uint32(len(got)) != f.NumLines() {
			t.Errorf("input %q: %d output lines, want %d", input, len(got), f.NumLines())
		}
	}
}

func TestBlankLinesStayBlank(t *testing.T) {
	expect(t, "p one\n\np two\n", []string{
		"<p>one</p>",
		"",
		"<p>two</p>",
	})
}

func TestAttributes(t *testing.T) {
	expect(t, `a.btn#go(href="/x", data-v=expr, checked)`+"\n", []string{
		`<a class="btn" id="go" href="/x" data-v="{{ expr }}" checked></a>`,
	})
}

func TestVoidElementNoCloser(t *testing.T) {
	expect(t, `img(src="a.png")`+"\n", []string{
		`<img src="a.png">`,
	})
}

func TestImplicitDiv(t *testing.T) {
	expect(t, ".card\n  p x\n", []string{
		`<div class="card">`,
		"<p>x</p></div>",
	})
}

func TestExpressions(t *testing.T) {
	expect(t, "p= user.name\np!= raw_html\n- set x = 1\n", []string{
		"<p>{{ user.name }}</p>",
		"<p>{{ raw_html |safe }}</p>",
		"{% set x = 1 %}",
	})
}

func TestConditionalChain(t *testing.T) {
	expect(t, "if a\n  p one\nelse if b\n  p two\nelse\n  p three\n", []string{
		"{% if a %}",
		"<p>one</p>",
		"{% elif b %}",
		"<p>two</p>",
		"{% else %}",
		"<p>three</p>{% endif %}",
	})
}

func TestUnless(t *testing.T) {
	expect(t, "unless user.active\n  p inactive\n", []string{
		"{% if not (user.active) %}",
		"<p>inactive</p>{% endif %}",
	})
}

func TestLoops(t *testing.T) {
	expect(t, "each item in items\n  li= item\nfor k in keys\n  li= k\n", []string{
		"{% for item in items %}",
		"<li>{{ item }}</li>{% endfor %}",
		"{% for k in keys %}",
		"<li>{{ k }}</li>{% endfor %}",
	})
}

func TestLoopElse(t *testing.T) {
	expect(t, "each x in xs\n  li= x\nelse\n  li none\n", []string{
		"{% for x in xs %}",
		"<li>{{ x }}</li>",
		"{% else %}",
		"<li>none</li>{% endfor %}",
	})
}

func TestInheritance(t *testing.T) {
	expect(t, "extends \"base.html\"\nblock content\n  p body\n", []string{
		`{% extends "base.html" %}`,
		"{% block content %}",
		"<p>body</p>{% endblock %}",
	})
}

func TestAppendPrepend(t *testing.T) {
	expect(t, "append scripts\n  script x\nprepend styles\n  link y\n", []string{
		"{% block scripts %}{{ super() }}",
		"<script>x</script>{% endblock %}",
		"{% block styles %}",
		"<link>y{{ super() }}{% endblock %}",
	})
}

func TestMixins(t *testing.T) {
	expect(t, "mixin item(name)\n  li= name\n+item('Home')\n", []string{
		"{% macro item(name) %}",
		"<li>{{ name }}</li>{% endmacro %}",
		"{{ item('Home') }}",
	})
}

func TestComments(t *testing.T) {
	expect(t, "// visible\n  body line\n//- hidden\n  secret\np end\n", []string{
		"<!-- visible",
		"  body line-->",
		"",
		"",
		"<p>end</p>",
	})
}

func TestFilterBlock(t *testing.T) {
	expect(t, ":upper\n  shout this\np after\n", []string{
		"{% filter upper %}",
		"  shout this{% endfilter %}",
		"<p>after</p>",
	})
}

func TestDoctypes(t *testing.T) {
	expect(t, "doctype html\n", []string{"<!DOCTYPE html>"})
	expect(t, "!!! 5\n", []string{"<!DOCTYPE html>"})
	expect(t, "doctype xml\n", []string{`<?xml version="1.0" encoding="utf-8" ?>`})
	expect(t, "doctype weird\n", []string{"<!DOCTYPE weird>"})
}

func TestDotBlockBody(t *testing.T) {
	expect(t, "script.\n  var x = 1;\n  go(x);\n", []string{
		"<script>",
		"  var x = 1;",
		"  go(x);</script>",
	})
}

func TestPipedTextAndContinuation(t *testing.T) {
	expect(t, "p\n  | one\n    two\n", []string{
		"<p>",
		"one",
		"two</p>",
	})
}

func TestInlineChain(t *testing.T) {
	expect(t, "li: a(href=url) Go\n", []string{
		`<li><a href="{{ url }}">Go</a></li>`,
	})
}
