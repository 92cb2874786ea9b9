package diag

import (
	"fmt"
)

// Code identifies one diagnostic kind. The numeric space is grouped by
// pipeline stage: 1xxx indentation, 2xxx structure/classification,
// 3xxx attribute lists, 4xxx mixins, 9xxx I/O.
type Code uint16

const (
	UnknownCode Code = 0

	// Indentation
	IndentInfo      Code = 1000
	IndentMixedTabs Code = 1001
	IndentBadDedent Code = 1002

	// Structure & line classification
	SynInfo             Code = 2000
	SynUnknownConstruct Code = 2001
	SynOrphanBlock      Code = 2002
	SynDanglingElse     Code = 2003
	SynUnsupported      Code = 2004
	SynEmptyFilter      Code = 2005

	// Attribute lists
	AttrInfo         Code = 3000
	AttrBadKey       Code = 3001
	AttrBadSeparator Code = 3002
	AttrUnterminated Code = 3003
	AttrUnbalanced   Code = 3004

	// Mixins
	MixinInfo       Code = 4000
	MixinDuplicate  Code = 4001
	MixinUnresolved Code = 4002

	// I/O (driver level)
	IOLoadFileError Code = 9001
)

// ID returns the stable machine-readable tag, e.g. "JJ1002".
func (c Code) ID() string {
	return fmt.Sprintf("JJ%04d", uint16(c))
}

func (c Code) String() string {
	return c.ID()
}

// Kind maps the code onto the coarse error taxonomy exposed to library
// callers: IndentationError, StructureError, UnknownConstructError,
// AttributeSyntaxError, DuplicateMixinError, UnresolvedMixinError, IOError.
func (c Code) Kind() string {
	switch {
	case c == SynUnknownConstruct || c == SynUnsupported:
		return "UnknownConstructError"
	case c == MixinDuplicate:
		return "DuplicateMixinError"
	case c == MixinUnresolved:
		return "UnresolvedMixinError"
	case c >= 1000 && c < 2000:
		return "IndentationError"
	case c >= 2000 && c < 3000:
		return "StructureError"
	case c >= 3000 && c < 4000:
		return "AttributeSyntaxError"
	case c >= 9000:
		return "IOError"
	}
	return "UnknownError"
}
