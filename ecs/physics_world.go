package ecs

import (
	"github.com/jakecoffman/cp"
)

// PhysicsWorld owns the Chipmunk space that integrates force-driven bodies.
// Bodies are keyed by entity handle; the ECS world removes an entity's body
// when the entity is destroyed.
type PhysicsWorld struct {
	space  *cp.Space
	bodies map[Entity]*cp.Body
}

// NewPhysicsWorld creates a physics world with no global gravity. Forces are
// supplied per body through velocity functions.
func NewPhysicsWorld() *PhysicsWorld {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})
	return &PhysicsWorld{
		space:  space,
		bodies: make(map[Entity]*cp.Body),
	}
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// EnsureBody returns e's body, creating a dynamic point body at pos with the
// given velocity and mass if it has none. velocityFn, when non-nil, replaces
// the default integration step for that body.
func (pw *PhysicsWorld) EnsureBody(e Entity, pos, vel cp.Vector, mass float64, velocityFn cp.BodyVelocityFunc) *cp.Body {
	if pw == nil || pw.space == nil || !e.Valid() {
		return nil
	}
	if body, ok := pw.bodies[e]; ok {
		return body
	}
	if mass <= 0 {
		mass = 1
	}
	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, 1, cp.Vector{}))
	body.SetPosition(pos)
	body.SetVelocityVector(vel)
	if velocityFn != nil {
		body.SetVelocityUpdateFunc(velocityFn)
	}
	pw.space.AddBody(body)
	pw.bodies[e] = body
	return body
}

// Body returns e's body if it has one.
func (pw *PhysicsWorld) Body(e Entity) (*cp.Body, bool) {
	if pw == nil {
		return nil, false
	}
	body, ok := pw.bodies[e]
	return body, ok
}

// RemoveBody detaches e's body from the space.
func (pw *PhysicsWorld) RemoveBody(e Entity) {
	if pw == nil {
		return
	}
	body, ok := pw.bodies[e]
	if !ok {
		return
	}
	pw.space.RemoveBody(body)
	delete(pw.bodies, e)
}

// Len returns the number of bodies in the space.
func (pw *PhysicsWorld) Len() int {
	if pw == nil {
		return 0
	}
	return len(pw.bodies)
}

// Step advances the physics simulation.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil {
		return
	}
	pw.space.Step(dt)
}
