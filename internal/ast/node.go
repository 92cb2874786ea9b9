// Package ast defines the template node tree built from indent events. Nodes
// live in an arena with edges as indices; the variant set is closed and the
// generator matches over it exhaustively.
package ast

import (
	"jinjade/internal/attr"
)

// NodeID indexes a node in the builder's arena; 0 means none.
type NodeID uint32

// NoNodeID is the absent-node sentinel.
const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// NodeKind tags the template node variant.
type NodeKind uint8

const (
	KindRoot NodeKind = iota
	KindTag
	KindText
	KindCode    // "- stmt" line, rendered as a statement block
	KindExpr    // "= expr" / "!= expr", rendered as an output expression
	KindControl // if / else / each / for / block / extends / include ...
	KindMixinDef
	KindMixinCall
	KindComment
	KindFilter
	KindDoctype
)

func (k NodeKind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindTag:
		return "tag"
	case KindText:
		return "text"
	case KindCode:
		return "code"
	case KindExpr:
		return "expr"
	case KindControl:
		return "control"
	case KindMixinDef:
		return "mixin-def"
	case KindMixinCall:
		return "mixin-call"
	case KindComment:
		return "comment"
	case KindFilter:
		return "filter"
	case KindDoctype:
		return "doctype"
	}
	return "unknown"
}

// TextMode distinguishes how a text node reached the tree.
type TextMode uint8

const (
	// TextPlain is inline tag text or a continuation line under a text node.
	TextPlain TextMode = iota
	// TextPiped comes from a "| ..." line.
	TextPiped
	// TextRaw is a verbatim body line (comments, filters, dot-blocks).
	TextRaw
)

// Node is one template node. Which fields are meaningful depends on Kind;
// the variant set is fixed, so a single struct in the arena beats an
// interface hierarchy.
type Node struct {
	Kind NodeKind

	// Line is the 1-based source line that introduced the node. Synthetic
	// inline children share their parent's line. Monotonically non-decreasing
	// in pre-order.
	Line uint32
	// LastLine is the line of the node's last descendant (its own line for a
	// leaf), filled by Builder.Finish. Closing constructs are emitted here.
	LastLine uint32

	Parent     NodeID
	FirstChild NodeID
	LastChild  NodeID
	NextSib    NodeID

	// Name: tag name (empty = implicit div), control keyword, mixin name,
	// filter name, or doctype argument.
	Name string
	// Head: control condition, mixin parameter/argument list, text content,
	// or expression text. Expression text is opaque: relocated, never parsed.
	Head string

	Attrs attr.List // tags only

	TextM    TextMode // text only
	Buffered bool     // comments: "//" (kept) vs "//-" (dropped)
	Escape   bool     // exprs: "=" escapes, "!=" passes through |safe

	// PrevBranch/NextBranch join else/elif nodes to the conditional (or
	// loop) they continue. Sibling back-references, never ownership.
	PrevBranch NodeID
	NextBranch NodeID

	// Def links a mixin call to its definition; set by the resolver.
	Def NodeID
}
