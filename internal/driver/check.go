package driver

import (
	"fmt"

	"github.com/flosch/pongo2/v6"
)

// Check parses rendered output with a real template engine, catching
// anything the line-local render rules cannot see, like an opener whose
// closer landed in the wrong order. Parse-only; nothing is executed.
func Check(output string) error {
	if _, err := pongo2.FromString(output); err != nil {
		return fmt.Errorf("output does not parse as a template: %w", err)
	}
	return nil
}
