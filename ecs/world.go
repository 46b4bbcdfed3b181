package ecs

import (
	"fmt"

	"github.com/milk9111/piratesim/ecs/component"
)

// DefaultCapacity is the entity capacity of a world built by NewWorld until
// the host calls Resize.
const DefaultCapacity = 1024

// World owns entities, their component stores, the event queue and the
// optional physics world. It is not safe for concurrent use.
type World struct {
	entities *EntityTable
	stores   storeRegistry
	events   EventQueue

	physicsWorld *PhysicsWorld
}

// NewWorld creates an empty ECS world with DefaultCapacity.
func NewWorld() *World {
	return &World{entities: NewEntityTable(DefaultCapacity)}
}

// Resize sets the entity capacity. See EntityTable.Resize.
func (w *World) Resize(capacity int) error {
	return w.entities.Resize(capacity)
}

// Capacity returns the entity capacity.
func (w *World) Capacity() int {
	return w.entities.Cap()
}

// CreateEntity allocates a new entity in the lowest free slot.
func (w *World) CreateEntity() (Entity, error) {
	return w.entities.Create()
}

// CreateEntityAt allocates the entity in a preferred slot.
func (w *World) CreateEntityAt(index uint32) (Entity, error) {
	return w.entities.CreateAt(index)
}

// DestroyEntity removes every component of e, detaches its physics body and
// frees its slot.
func (w *World) DestroyEntity(e Entity) error {
	if !w.entities.IsAlive(e) {
		return fmt.Errorf("%w: %s", ErrInvalidEntity, e)
	}
	w.stores.removeAll(e)
	if w.physicsWorld != nil {
		w.physicsWorld.RemoveBody(e)
	}
	return w.entities.Destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	return w.entities.IsAlive(e)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.entities.Len()
}

// Entities returns live entities in creation order.
func (w *World) Entities() []Entity {
	return w.entities.Entities()
}

// Query returns the live entities that have every given component, in
// creation order. With no kinds it returns all live entities.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil {
		return nil
	}
	stores := make([]store, 0, len(kinds))
	for _, k := range kinds {
		s := w.stores.lookup(k.ID())
		if s == nil || s.Len() == 0 {
			return nil
		}
		stores = append(stores, s)
	}
	var out []Entity
	w.entities.Each(func(e Entity) {
		for _, s := range stores {
			if !s.has(e) {
				return
			}
		}
		out = append(out, e)
	})
	return out
}

// First returns the earliest created entity that has the component.
func (w *World) First(kind component.Kind) (Entity, bool) {
	s := w.stores.lookup(kind.ID())
	if s == nil || s.Len() == 0 {
		return 0, false
	}
	var (
		found Entity
		ok    bool
	)
	w.entities.Each(func(e Entity) {
		if !ok && s.has(e) {
			found, ok = e, true
		}
	})
	return found, ok
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// SetPhysicsWorld attaches a physics world to this ECS world.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physicsWorld = pw
}

// PhysicsWorld returns the attached physics world, if any.
func (w *World) PhysicsWorld() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physicsWorld
}
