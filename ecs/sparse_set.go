package ecs

// SparseSet is a cache-friendly storage for components keyed by entity slot.
// Values are stored as pointers so references handed out by Get stay valid
// while the dense arrays grow or compact.
type SparseSet[T any] struct {
	dense  []Entity
	values []*T
	// slot index -> dense position + 1, 0 when absent
	sparse []int32
}

// Has returns true if the set holds a component for exactly this handle
// (slot and generation).
func (s *SparseSet[T]) Has(e Entity) bool {
	_, ok := s.pos(e)
	return ok
}

// Get returns the component for e.
func (s *SparseSet[T]) Get(e Entity) (*T, bool) {
	p, ok := s.pos(e)
	if !ok {
		return nil, false
	}
	return s.values[p], true
}

// Add inserts a component for e. It fails if e already has one.
func (s *SparseSet[T]) Add(e Entity, v *T) error {
	if s == nil || !e.Valid() {
		return ErrInvalidEntity
	}
	if v == nil {
		return ErrNilComponent
	}
	if s.Has(e) {
		return ErrDuplicateComponent
	}
	idx := int(e.Index())
	for idx >= len(s.sparse) {
		s.sparse = append(s.sparse, 0)
	}
	// a leftover entry from a previous generation of the slot is replaced
	if old := s.sparse[idx]; old != 0 {
		s.removeAt(int(old - 1))
	}
	s.dense = append(s.dense, e)
	s.values = append(s.values, v)
	s.sparse[idx] = int32(len(s.dense))
	return nil
}

// Remove deletes the component for e if present.
func (s *SparseSet[T]) Remove(e Entity) bool {
	p, ok := s.pos(e)
	if !ok {
		return false
	}
	s.removeAt(p)
	return true
}

// Len returns the number of stored components.
func (s *SparseSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.dense)
}

// Entities returns the dense entity list. The order is not creation order.
func (s *SparseSet[T]) Entities() []Entity {
	if s == nil {
		return nil
	}
	return s.dense
}

// Values returns the dense component list, parallel to Entities.
func (s *SparseSet[T]) Values() []*T {
	if s == nil {
		return nil
	}
	return s.values
}

func (s *SparseSet[T]) pos(e Entity) (int, bool) {
	if s == nil {
		return 0, false
	}
	idx := int(e.Index())
	if idx == 0 || idx >= len(s.sparse) {
		return 0, false
	}
	p := int(s.sparse[idx]) - 1
	if p < 0 || p >= len(s.dense) || s.dense[p] != e {
		return 0, false
	}
	return p, true
}

func (s *SparseSet[T]) removeAt(p int) {
	e := s.dense[p]
	last := len(s.dense) - 1
	moved := s.dense[last]

	s.dense[p] = moved
	s.values[p] = s.values[last]
	s.sparse[moved.Index()] = int32(p + 1)

	s.values[last] = nil
	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[e.Index()] = 0
}

// these let the world treat stores of any type uniformly
func (s *SparseSet[T]) has(e Entity) bool    { return s.Has(e) }
func (s *SparseSet[T]) remove(e Entity) bool { return s.Remove(e) }
