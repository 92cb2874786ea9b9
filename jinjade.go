// Package jinjade transpiles Jade templates to Jinja2.
//
// The transpile keeps a strict line-to-line mapping: output line k is
// produced by source line k, with closing constructs placed on the last
// line of the block they close. A call is a pure function of its input;
// independent calls may run concurrently.
package jinjade

import (
	"fmt"
	"strings"

	"jinjade/internal/driver"
)

// Error is the typed failure returned by Transpile. It reports the first
// diagnostic; the full set is available through the internal driver.
type Error struct {
	// Line is the 1-based source line of the failure, 0 if unknown.
	Line uint32
	// Code is the stable machine tag, e.g. "JJ1002".
	Code string
	// Kind is the coarse category: IndentationError, StructureError,
	// UnknownConstructError, AttributeSyntaxError, DuplicateMixinError,
	// UnresolvedMixinError or IOError.
	Kind    string
	Message string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at line %d: %s", e.Kind, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Transpile converts one Jade document to Jinja2. All-or-nothing: on any
// error the output is empty and the returned *Error names the first
// offending source line.
func Transpile(source string) (string, error) {
	res, err := driver.TranspileReader("<input>", strings.NewReader(source), driver.Options{})
	if err != nil {
		return "", &Error{Kind: "IOError", Message: err.Error()}
	}
	if res.Ok() {
		return res.Output, nil
	}
	d, _ := res.Bag.FirstError()
	start, _ := res.FileSet.Resolve(d.Primary)
	return "", &Error{
		Line:    start.Line,
		Code:    d.Code.ID(),
		Kind:    d.Code.Kind(),
		Message: d.Message,
	}
}
