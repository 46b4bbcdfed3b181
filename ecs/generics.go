package ecs

import (
	"fmt"

	"github.com/milk9111/piratesim/ecs/component"
)

// Add attaches value to e. It fails with ErrInvalidEntity for dead handles and
// ErrDuplicateComponent if e already has a component of this kind.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value *T) error {
	if !w.IsAlive(e) {
		return fmt.Errorf("%w: %s", ErrInvalidEntity, e)
	}
	return storeFor(w, handle, true).Add(e, value)
}

// GetOrAdd returns e's component, attaching a zero value first if it has none.
func GetOrAdd[T any](w *World, e Entity, handle component.ComponentHandle[T]) (*T, error) {
	if v, ok := Get(w, e, handle); ok {
		return v, nil
	}
	v := new(T)
	if err := Add(w, e, handle, v); err != nil {
		return nil, err
	}
	return v, nil
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return storeFor(w, handle, false).Remove(e)
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return storeFor(w, handle, false).Has(e)
}

// Get returns e's component. A missing component is (nil, false).
func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (*T, bool) {
	return storeFor(w, handle, false).Get(e)
}

// Count returns how many entities carry the component.
func Count[T any](w *World, handle component.ComponentHandle[T]) int {
	return storeFor(w, handle, false).Len()
}

// ForEach calls fn for every entity with the component, in creation order.
// The matching set is captured before the first call, so fn may create and
// destroy entities; entities destroyed mid-iteration are skipped.
func ForEach[T any](w *World, handle component.ComponentHandle[T], fn func(Entity, *T)) {
	s := storeFor(w, handle, false)
	if s == nil {
		return
	}
	for _, e := range w.Query(handle) {
		if v, ok := s.Get(e); ok {
			fn(e, v)
		}
	}
}

func ForEach2[A, B any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], fn func(Entity, *A, *B)) {
	sa, sb := storeFor(w, ha, false), storeFor(w, hb, false)
	if sa == nil || sb == nil {
		return
	}
	for _, e := range w.Query(ha, hb) {
		a, ok := sa.Get(e)
		if !ok {
			continue
		}
		b, ok := sb.Get(e)
		if !ok {
			continue
		}
		fn(e, a, b)
	}
}

func ForEach3[A, B, C any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], hc component.ComponentHandle[C], fn func(Entity, *A, *B, *C)) {
	sa, sb, sc := storeFor(w, ha, false), storeFor(w, hb, false), storeFor(w, hc, false)
	if sa == nil || sb == nil || sc == nil {
		return
	}
	for _, e := range w.Query(ha, hb, hc) {
		a, ok := sa.Get(e)
		if !ok {
			continue
		}
		b, ok := sb.Get(e)
		if !ok {
			continue
		}
		c, ok := sc.Get(e)
		if !ok {
			continue
		}
		fn(e, a, b, c)
	}
}
