package ecs

import "github.com/jakecoffman/cp"

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventProjectileSpawned = "projectile_spawned"
	EventProjectileExpired = "projectile_expired"
	EventFireDropped       = "fire_dropped"
	EventAgentKilled       = "agent_killed"
)

// ShotEvent describes a fire attempt or a projectile leaving the world.
// Projectile is zero when the shot was dropped. Position and Traveled are
// set on expiry.
type ShotEvent struct {
	Projectile Entity
	Owner      Entity
	Target     Entity
	Position   cp.Vector
	Traveled   float64
	Err        error
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
