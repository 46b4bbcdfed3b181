package ecs

import "strconv"

// Entity is a generational handle: the slot generation lives in the high 32
// bits and the 1-based slot index in the low 32 bits. The zero Entity is never
// issued and stands for "no entity".
type Entity uint64

const entityIndexBits = 32

func makeEntity(index, gen uint32) Entity {
	return Entity(uint64(gen)<<entityIndexBits | uint64(index))
}

// Index returns the slot index of the handle.
func (e Entity) Index() uint32 {
	return uint32(e)
}

// Generation returns the slot generation the handle was issued with.
func (e Entity) Generation() uint32 {
	return uint32(uint64(e) >> entityIndexBits)
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.Index()), 10) + "v" + strconv.FormatUint(uint64(e.Generation()), 10)
}

// Valid reports whether e is a non-zero handle. It says nothing about liveness.
func (e Entity) Valid() bool {
	return e.Index() > 0
}
