package ast

// Builder owns the node arena for one transpile call. Nothing escapes the
// call; the tree is read-only once generation starts.
type Builder struct {
	nodes *Arena[Node]
	root  NodeID
}

// NewBuilder creates a builder with a pre-allocated root node.
func NewBuilder(capHint uint) *Builder {
	b := &Builder{nodes: NewArena[Node](capHint)}
	b.root = NodeID(b.nodes.Alloc(Node{Kind: KindRoot, Line: 1}))
	return b
}

// Root returns the document root node.
func (b *Builder) Root() NodeID {
	return b.root
}

// New allocates a detached node.
func (b *Builder) New(kind NodeKind, lineNum uint32) NodeID {
	return NodeID(b.nodes.Alloc(Node{Kind: kind, Line: lineNum}))
}

// Get returns the node for id, or nil for NoNodeID.
func (b *Builder) Get(id NodeID) *Node {
	return b.nodes.Get(uint32(id))
}

// AppendChild links child as the last child of parent.
func (b *Builder) AppendChild(parent, child NodeID) {
	p := b.Get(parent)
	c := b.Get(child)
	c.Parent = parent
	if !p.FirstChild.IsValid() {
		p.FirstChild = child
	} else {
		b.Get(p.LastChild).NextSib = child
	}
	p.LastChild = child
}

// LinkBranch joins a continuation branch (else / else if) to the control
// node it extends.
func (b *Builder) LinkBranch(prev, next NodeID) {
	b.Get(prev).NextBranch = next
	b.Get(next).PrevBranch = prev
}

// Finish computes LastLine for every node in the subtree. With the pre-order
// line invariant this is simply the maximum line in the subtree.
func (b *Builder) Finish(id NodeID) uint32 {
	n := b.Get(id)
	n.LastLine = n.Line
	for c := n.FirstChild; c.IsValid(); c = b.Get(c).NextSib {
		if last := b.Finish(c); last > n.LastLine {
			n.LastLine = last
		}
	}
	return n.LastLine
}

// Walk calls fn for every node in pre-order, children after their parent.
func (b *Builder) Walk(id NodeID, fn func(NodeID, *Node)) {
	n := b.Get(id)
	fn(id, n)
	for c := n.FirstChild; c.IsValid(); c = b.Get(c).NextSib {
		b.Walk(c, fn)
	}
}
