package ecs

import (
	"container/heap"
	"fmt"
)

// EntityTable is a fixed-capacity registry of entity slots. Slots are numbered
// from 1; a slot's generation is bumped every time it is freed so handles to a
// previous occupant stop resolving. Live entities are kept on an intrusive
// list in creation order.
type EntityTable struct {
	capacity int
	count    int

	// indexed by slot; element 0 is unused
	gens   []uint32
	live   []bool
	queued []bool
	next   []uint32
	prev   []uint32

	head, tail uint32
	free       freeSlots
}

// NewEntityTable returns a table that can hold capacity live entities.
func NewEntityTable(capacity int) *EntityTable {
	t := &EntityTable{
		gens:   make([]uint32, 1),
		live:   make([]bool, 1),
		queued: make([]bool, 1),
		next:   make([]uint32, 1),
		prev:   make([]uint32, 1),
	}
	if capacity > 0 {
		_ = t.Resize(capacity)
	}
	return t
}

// Resize changes the capacity. It fails when n is negative or when a live
// entity occupies a slot above n. Slot generations survive a shrink so a
// later grow cannot revive stale handles.
func (t *EntityTable) Resize(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative capacity %d", ErrInvalidResize, n)
	}
	for i := uint32(n) + 1; int(i) < len(t.live); i++ {
		if t.live[i] {
			return fmt.Errorf("%w: slot %d is live above capacity %d", ErrInvalidResize, i, n)
		}
	}
	for len(t.gens) <= n {
		t.gens = append(t.gens, 0)
		t.live = append(t.live, false)
		t.queued = append(t.queued, false)
		t.next = append(t.next, 0)
		t.prev = append(t.prev, 0)
	}
	for i := t.capacity + 1; i <= n; i++ {
		t.pushFree(uint32(i))
	}
	t.capacity = n
	return nil
}

// Cap returns the current capacity.
func (t *EntityTable) Cap() int {
	return t.capacity
}

// Len returns the number of live entities.
func (t *EntityTable) Len() int {
	return t.count
}

// Create claims the lowest free slot.
func (t *EntityTable) Create() (Entity, error) {
	if t.count >= t.capacity {
		return 0, ErrCapacityExceeded
	}
	for t.free.Len() > 0 {
		idx := heap.Pop(&t.free).(uint32)
		t.queued[idx] = false
		if t.live[idx] || int(idx) > t.capacity {
			continue
		}
		return t.claim(idx), nil
	}
	// count < capacity guarantees a queued free slot
	return 0, ErrCapacityExceeded
}

// CreateAt claims a specific slot.
func (t *EntityTable) CreateAt(index uint32) (Entity, error) {
	if t.count >= t.capacity {
		return 0, ErrCapacityExceeded
	}
	if index == 0 || int(index) > t.capacity {
		return 0, fmt.Errorf("%w: slot %d outside capacity %d", ErrInvalidEntity, index, t.capacity)
	}
	if t.live[index] {
		return 0, fmt.Errorf("%w: slot %d", ErrSlotOccupied, index)
	}
	// the slot's heap entry, if any, is skipped lazily by Create
	return t.claim(index), nil
}

// Destroy frees the slot held by e. Destroying a dead, stale or never issued
// handle reports ErrInvalidEntity and changes nothing.
func (t *EntityTable) Destroy(e Entity) error {
	if !t.IsAlive(e) {
		return fmt.Errorf("%w: %s", ErrInvalidEntity, e)
	}
	idx := e.Index()
	t.unlink(idx)
	t.live[idx] = false
	t.gens[idx]++
	t.count--
	t.pushFree(idx)
	return nil
}

// IsAlive reports whether e refers to the current occupant of a live slot.
func (t *EntityTable) IsAlive(e Entity) bool {
	idx := e.Index()
	if idx == 0 || int(idx) > t.capacity {
		return false
	}
	return t.live[idx] && t.gens[idx] == e.Generation()
}

// Entities returns the live entities in creation order.
func (t *EntityTable) Entities() []Entity {
	out := make([]Entity, 0, t.count)
	t.Each(func(e Entity) {
		out = append(out, e)
	})
	return out
}

// Each calls fn for every live entity in creation order. fn must not create
// or destroy entities; take a snapshot with Entities for that.
func (t *EntityTable) Each(fn func(e Entity)) {
	for idx := t.head; idx != 0; idx = t.next[idx] {
		fn(makeEntity(idx, t.gens[idx]))
	}
}

func (t *EntityTable) claim(idx uint32) Entity {
	t.live[idx] = true
	t.count++
	t.next[idx] = 0
	t.prev[idx] = t.tail
	if t.tail != 0 {
		t.next[t.tail] = idx
	} else {
		t.head = idx
	}
	t.tail = idx
	return makeEntity(idx, t.gens[idx])
}

func (t *EntityTable) unlink(idx uint32) {
	p, n := t.prev[idx], t.next[idx]
	if p != 0 {
		t.next[p] = n
	} else {
		t.head = n
	}
	if n != 0 {
		t.prev[n] = p
	} else {
		t.tail = p
	}
	t.prev[idx], t.next[idx] = 0, 0
}

func (t *EntityTable) pushFree(idx uint32) {
	if t.queued[idx] {
		return
	}
	t.queued[idx] = true
	heap.Push(&t.free, idx)
}

// freeSlots is a min-heap of slot indices so Create always hands out the
// lowest free slot.
type freeSlots []uint32

func (f freeSlots) Len() int           { return len(f) }
func (f freeSlots) Less(i, j int) bool { return f[i] < f[j] }
func (f freeSlots) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }

func (f *freeSlots) Push(x any) {
	*f = append(*f, x.(uint32))
}

func (f *freeSlots) Pop() any {
	old := *f
	n := len(old)
	x := old[n-1]
	*f = old[:n-1]
	return x
}
