package indent

import (
	"jinjade/internal/source"
)

// EventKind tags one parse event.
type EventKind uint8

const (
	// EventEnter opens a nested block; the line that caused it follows as a Leaf.
	EventEnter EventKind = iota
	// EventLeaf is a content line at the current nesting depth.
	EventLeaf
	// EventExit closes the innermost open block.
	EventExit
	// EventBlank is a whitespace-only line; it occupies a line-number slot
	// but never changes nesting.
	EventBlank
)

func (k EventKind) String() string {
	switch k {
	case EventEnter:
		return "enter"
	case EventLeaf:
		return "leaf"
	case EventExit:
		return "exit"
	case EventBlank:
		return "blank"
	}
	return "unknown"
}

// Event is one step of the recovered block structure. Events form a
// well-parenthesized sequence over Enter/Exit; a violation is reported as a
// fatal indentation error before the event is ever produced.
type Event struct {
	Kind    EventKind
	Line    uint32 // 1-based source line
	Content string // leaf content (indent stripped); empty for Enter/Exit/Blank
	Span    source.Span
}
