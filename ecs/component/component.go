package component

import "sync/atomic"

// Kind is the untyped view of a component handle, used where handles of
// different component types are mixed (queries).
type Kind interface {
	ID() ComponentID
}

type ComponentHandle[T any] struct {
	id ComponentID
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{id: ComponentID(nextComponentID.Add(1))}
}

func (h ComponentHandle[T]) ID() ComponentID {
	return h.id
}

func (h ComponentHandle[T]) Valid() bool {
	return h.id != 0
}

type ComponentID uint32

var nextComponentID atomic.Uint32
