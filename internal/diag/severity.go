package diag

// Severity ranks a diagnostic. Only SevError blocks output; the transpile
// stays all-or-nothing on anything at that level.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	// SevError aborts the transpile of the current file.
	SevError
)

// String returns the uppercase label used in formatted diagnostics.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
