package ecs

import "github.com/milk9111/piratesim/ecs/component"

// store is the type-erased view of a SparseSet the world needs for cascade
// removal and queries.
type store interface {
	has(e Entity) bool
	remove(e Entity) bool
	Len() int
}

// storeRegistry maps component ids to their stores, in registration order so
// cascades run deterministically.
type storeRegistry struct {
	byID  map[component.ComponentID]store
	order []store
}

func (r *storeRegistry) lookup(id component.ComponentID) store {
	if r == nil || r.byID == nil {
		return nil
	}
	return r.byID[id]
}

func (r *storeRegistry) register(id component.ComponentID, s store) {
	if r.byID == nil {
		r.byID = make(map[component.ComponentID]store)
	}
	r.byID[id] = s
	r.order = append(r.order, s)
}

// removeAll clears e from every registered store.
func (r *storeRegistry) removeAll(e Entity) {
	for _, s := range r.order {
		s.remove(e)
	}
}

func storeFor[T any](w *World, h component.ComponentHandle[T], create bool) *SparseSet[T] {
	if w == nil || !h.Valid() {
		return nil
	}
	if s := w.stores.lookup(h.ID()); s != nil {
		typed, _ := s.(*SparseSet[T])
		return typed
	}
	if !create {
		return nil
	}
	typed := &SparseSet[T]{}
	w.stores.register(h.ID(), typed)
	return typed
}
