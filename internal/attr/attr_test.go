package attr_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"jinjade/internal/attr"
	"jinjade/internal/diag"
)

type scanErr struct {
	code diag.Code
	off  int
}

func scan(t *testing.T, src string) ([]attr.Attr, int, bool, []scanErr) {
	t.Helper()
	var errs []scanErr
	attrs, n, ok := attr.Scan(src, func(code diag.Code, off int, _ string) {
		errs = append(errs, scanErr{code, off})
	})
	return attrs, n, ok, errs
}

func TestScanSimple(t *testing.T) {
	attrs, n, ok, _ := scan(t, `(href="/home", title='hi')`)
	if !ok {
		t.Fatal("scan failed")
	}
	if n != len(`(href="/home", title='hi')`) {
		t.Errorf("consumed %d bytes, want all", n)
	}
	want := []attr.Attr{
		{Key: "href", Val: `"/home"`},
		{Key: "title", Val: `'hi'`},
	}
	if diff := cmp.Diff(want, attrs); diff != "" {
		t.Errorf("attrs mismatch (-want +got):\n%s", diff)
	}
}

func TestScanBooleanAttr(t *testing.T) {
	attrs, _, ok, _ := scan(t, `(checked, value="")`)
	if !ok {
		t.Fatal("scan failed")
	}
	want := []attr.Attr{
		{Key: "checked", Boolean: true},
		{Key: "value", Val: `""`},
	}
	if diff := cmp.Diff(want, attrs); diff != "" {
		t.Errorf("attrs mismatch (-want +got):\n%s", diff)
	}
}

func TestScanExprWithNestedDelimiters(t *testing.T) {
	attrs, _, ok, _ := scan(t, `(data=fn(a, [1, 2]), alt="a, b")`)
	if !ok {
		t.Fatal("scan failed")
	}
	want := []attr.Attr{
		{Key: "data", Val: `fn(a, [1, 2])`},
		{Key: "alt", Val: `"a, b"`},
	}
	if diff := cmp.Diff(want, attrs); diff != "" {
		t.Errorf("attrs mismatch (-want +got):\n%s", diff)
	}
}

func TestScanEscapedQuote(t *testing.T) {
	attrs, _, ok, _ := scan(t, `(title="say \"hi\"")`)
	if !ok {
		t.Fatal("scan failed")
	}
	if attrs[0].Val != `"say \"hi\""` {
		t.Errorf("Val = %q", attrs[0].Val)
	}
}

func TestScanTrailingCommaOmitted(t *testing.T) {
	attrs, _, ok, _ := scan(t, `(a=1, b=2)`)
	if !ok || len(attrs) != 2 {
		t.Fatalf("attrs = %v ok=%v", attrs, ok)
	}
}

func TestScanErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"unterminated list", `(a=1`, diag.AttrUnterminated},
		{"unterminated string", `(a="x`, diag.AttrUnterminated},
		{"bad separator", `(a !b)`, diag.AttrBadSeparator},
		{"missing key", `(=1)`, diag.AttrBadKey},
		{"unbalanced bracket", `(a=x])`, diag.AttrUnbalanced},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, ok, errs := scan(t, tc.src)
			if ok {
				t.Fatal("scan unexpectedly succeeded")
			}
			if len(errs) == 0 || errs[0].code != tc.code {
				t.Errorf("errors = %v, want first code %s", errs, tc.code)
			}
		})
	}
}

func TestNormalizeLastWriteWins(t *testing.T) {
	got := attr.Normalize([]attr.Attr{
		{Key: "id", Val: `"a"`},
		{Key: "href", Val: `"/x"`},
		{Key: "id", Val: `"b"`},
	})
	want := attr.List{
		{Key: "id", Val: `"b"`},
		{Key: "href", Val: `"/x"`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeClassAccumulates(t *testing.T) {
	got := attr.Normalize([]attr.Attr{
		{Key: "class", Val: `"nav"`},
		{Key: "id", Val: `"menu"`},
		{Key: "class", Val: `"active"`},
	})
	want := attr.List{
		{Key: "class", Val: `"nav active"`},
		{Key: "id", Val: `"menu"`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeClassStaticPlusDynamic(t *testing.T) {
	got := attr.Normalize([]attr.Attr{
		{Key: "class", Val: `"nav"`},
		{Key: "class", Val: `extra`},
	})
	if got[0].Val != `"nav" + " " + extra` {
		t.Errorf("merged class = %q", got[0].Val)
	}
}

func TestLiteral(t *testing.T) {
	if lit, ok := attr.Literal(`"hello"`); !ok || lit != "hello" {
		t.Errorf(`Literal("hello") = %q, %v`, lit, ok)
	}
	if _, ok := attr.Literal(`name`); ok {
		t.Error("bare identifier classified as literal")
	}
	if _, ok := attr.Literal(`"a" + b`); ok {
		t.Error("concatenation classified as literal")
	}
}
