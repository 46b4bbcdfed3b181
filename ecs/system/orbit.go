package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/piratesim/ecs"
	"github.com/milk9111/piratesim/ecs/component"
)

const (
	DefaultGravitationalConstant = 1000.0
	DefaultCentralMass           = 1000.0
	DefaultPlanetMass            = 1.0
	// DefaultMinOrbitRadius is the distance inside which the central pull is
	// switched off to avoid the singularity at the centre.
	DefaultMinOrbitRadius = 1.0
)

// OrbitSystem pulls every planet toward a fixed centre with an inverse square
// force. Integration happens in the chipmunk space; each planet's transform
// and body mirror its chipmunk body after the step.
type OrbitSystem struct {
	G           float64
	CentralMass float64
	Center      cp.Vector
	MinRadius   float64
}

func NewOrbitSystem(center cp.Vector) *OrbitSystem {
	return &OrbitSystem{
		G:           DefaultGravitationalConstant,
		CentralMass: DefaultCentralMass,
		Center:      center,
		MinRadius:   DefaultMinOrbitRadius,
	}
}

// Acceleration returns the gravitational acceleration at pos.
func (s *OrbitSystem) Acceleration(pos cp.Vector) cp.Vector {
	delta := s.Center.Sub(pos)
	r := delta.Length()
	if r < s.MinRadius || r == 0 {
		return cp.Vector{}
	}
	return delta.Mult(s.G * s.CentralMass / (r * r * r))
}

// InitialVelocity returns the circular orbit velocity at pos, perpendicular
// to the radius.
func (s *OrbitSystem) InitialVelocity(pos cp.Vector) cp.Vector {
	delta := pos.Sub(s.Center)
	r := delta.Length()
	if r < s.MinRadius || r == 0 {
		return cp.Vector{}
	}
	speed := math.Sqrt(s.G * s.CentralMass / r)
	return delta.Perp().Mult(speed / r)
}

func (s *OrbitSystem) velocityFunc(body *cp.Body, _ cp.Vector, damping, dt float64) {
	cp.BodyUpdateVelocity(body, s.Acceleration(body.Position()), damping, dt)
}

func (s *OrbitSystem) Update(w *ecs.World, dt float64) {
	if w == nil || dt <= 0 {
		return
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}

	planets := w.Query(component.PlanetTagComponent, component.TransformComponent, component.BodyComponent)
	for _, e := range planets {
		tr, _ := ecs.Get(w, e, component.TransformComponent)
		b, _ := ecs.Get(w, e, component.BodyComponent)
		pw.EnsureBody(e, tr.Position, b.Velocity, b.Mass, s.velocityFunc)
	}

	pw.Step(dt)

	for _, e := range planets {
		body, ok := pw.Body(e)
		if !ok {
			continue
		}
		tr, _ := ecs.Get(w, e, component.TransformComponent)
		b, _ := ecs.Get(w, e, component.BodyComponent)
		tr.Position = body.Position()
		b.Velocity = body.Velocity()
	}
}
