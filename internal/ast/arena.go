package ast

// Arena is an append-only store handing out 1-based indices, so zero is
// always "no node" and parent/child edges can be plain integers.
type Arena[T any] struct {
	items []T
}

// NewArena allocates an arena with the given capacity hint.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		items: make([]T, 0, capHint),
	}
}

// Alloc stores value and returns its 1-based index.
func (a *Arena[T]) Alloc(value T) uint32 {
	a.items = append(a.items, value)
	return uint32(len(a.items))
}

// Get returns a pointer to the element, or nil for index zero.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 {
		return nil
	}
	return &a.items[index-1]
}

func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.items))
}
