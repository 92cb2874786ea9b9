package diagfmt_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"jinjade/internal/diag"
	"jinjade/internal/diagfmt"
	"jinjade/internal/source"
)

func oneErrorBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("views/home.jade", []byte("div\n   p off\n"))
	f := fs.Get(id)
	sp, _ := f.LineSpan(2)
	bag := diag.NewBag(8)
	bag.Add(diag.NewError(diag.IndentBadDedent, sp,
		"line does not match any open block").WithNote(sp, "open widths are 0"))
	return bag, fs
}

func TestPrettyHeading(t *testing.T) {
	bag, fs := oneErrorBag(t)
	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{})
	got := buf.String()
	want := "views/home.jade:2:1: ERROR JJ1002: line does not match any open block\n"
	if got != want {
		t.Errorf("heading = %q, want %q", got, want)
	}
}

func TestPrettyContextCaret(t *testing.T) {
	bag, fs := oneErrorBag(t)
	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{Context: 1, ShowNotes: true})
	out := buf.String()
	if !strings.Contains(out, "   p off") {
		t.Errorf("missing source context:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("missing caret:\n%s", out)
	}
	if !strings.Contains(out, "NOTE: open widths are 0") {
		t.Errorf("missing note:\n%s", out)
	}
}

func TestPrettyRelativePaths(t *testing.T) {
	fs := source.NewFileSetWithBase("/proj")
	id := fs.AddVirtual("/proj/views/home.jade", []byte("@x\n"))
	sp, _ := fs.Get(id).LineSpan(1)
	bag := diag.NewBag(8)
	bag.Add(diag.NewError(diag.SynUnknownConstruct, sp, "unrecognized line"))

	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{PathMode: diagfmt.PathModeRelative})
	if got := buf.String(); !strings.HasPrefix(got, "views/home.jade:1:1:") {
		t.Errorf("heading = %q, want a path relative to /proj", got)
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs := oneErrorBag(t)
	var buf bytes.Buffer
	if err := diagfmt.JSON(&buf, bag, fs, diagfmt.JSONOpts{
		IncludePositions: true,
		IncludeNotes:     true,
	}); err != nil {
		t.Fatal(err)
	}
	var out diagfmt.DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d, diagnostics = %d", out.Count, len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.Code != "JJ1002" || d.Kind != "IndentationError" {
		t.Errorf("code=%s kind=%s", d.Code, d.Kind)
	}
	if d.Location.StartLine != 2 {
		t.Errorf("start line = %d, want 2", d.Location.StartLine)
	}
	if len(d.Notes) != 1 {
		t.Errorf("notes = %v", d.Notes)
	}
}

func TestJSONMaxTruncates(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.jade", []byte("x\n"))
	sp, _ := fs.Get(id).LineSpan(1)
	bag := diag.NewBag(8)
	for range 3 {
		bag.Add(diag.NewError(diag.SynUnknownConstruct, sp, "boom"))
	}
	out := diagfmt.BuildDiagnosticsOutput(bag, fs, diagfmt.JSONOpts{Max: 2})
	if out.Count != 2 {
		t.Errorf("count = %d, want 2", out.Count)
	}
}
