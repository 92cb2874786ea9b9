package diag

import "jinjade/internal/source"

// Reporter is the minimal contract pipeline stages use to hand off
// diagnostics. Implementations: BagReporter (collects into a Bag),
// NopReporter.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// BagReporter forwards every report into a *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes,
	})
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note) {}

// Error is a shortcut for reporting a SevError diagnostic without notes.
func Error(r Reporter, code Code, primary source.Span, msg string) {
	if r != nil {
		r.Report(code, SevError, primary, msg, nil)
	}
}

// ErrorNote reports a SevError diagnostic with one secondary note.
func ErrorNote(r Reporter, code Code, primary source.Span, msg string, noteSpan source.Span, noteMsg string) {
	if r != nil {
		r.Report(code, SevError, primary, msg, []Note{{Span: noteSpan, Msg: noteMsg}})
	}
}
