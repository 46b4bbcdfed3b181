package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/piratesim/common"
	"github.com/milk9111/piratesim/ecs"
	"github.com/milk9111/piratesim/ecs/component"
	"go.uber.org/zap"
)

const (
	// MinSeparation is the distance below which the line of sight to a target
	// is undefined and the agent's heading is used instead.
	MinSeparation = 1e-6
	// MinFirePeriod keeps jittered firing periods strictly positive.
	MinFirePeriod = 1e-3
)

// Spawner fires a projectile from origin at target.
type Spawner interface {
	Spawn(w *ecs.World, origin, target ecs.Entity) (ecs.Entity, error)
}

// SteeringSystem moves every agent: it picks the nearest other agent,
// approaches it until within shooting range, then circles it and fires
// whenever the firing timer runs out.
type SteeringSystem struct {
	spawner Spawner
	rand    common.Random
	log     *zap.Logger
}

func NewSteeringSystem(spawner Spawner, rand common.Random, log *zap.Logger) *SteeringSystem {
	if log == nil {
		log = zap.NewNop()
	}
	if rand == nil {
		rand = common.NewRandom(1)
	}
	return &SteeringSystem{spawner: spawner, rand: rand, log: log}
}

func (s *SteeringSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}
	agents := w.Query(component.AgentComponent, component.TransformComponent)
	positionOf := TransformPositions(w)
	for _, e := range agents {
		agent, ok := ecs.Get(w, e, component.AgentComponent)
		if !ok {
			continue
		}
		tr, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}
		s.steer(w, e, agent, tr, agents, positionOf, dt)
	}
}

func (s *SteeringSystem) steer(w *ecs.World, e ecs.Entity, agent *component.Agent, tr *component.Transform, agents []ecs.Entity, positionOf PositionFunc, dt float64) {
	target, found := Nearest(e, agents, positionOf)
	if found {
		targetPos, _ := positionOf(target)
		delta := targetPos.Sub(tr.Position)
		distance := delta.Length()

		lineOfSight := agent.Direction
		if distance >= MinSeparation {
			lineOfSight = delta.Mult(1 / distance)
		}

		var desired cp.Vector
		if distance > agent.ShootingRange {
			desired = lineOfSight
			agent.InRange = false
		} else {
			desired = Strafe(lineOfSight, agent.Direction)
			agent.InRange = true
			s.updateFiring(w, e, target, agent, dt)
		}

		agent.Direction = common.RotateTowards(agent.Direction, desired, agent.RotSpeed*dt)
		agent.Target = uint64(target)
	} else {
		agent.Target = 0
		agent.InRange = false
	}

	tr.Rotation = common.AngleFromDown(agent.Direction)
	tr.Position = tr.Position.Add(agent.Direction.Mult(agent.Speed * dt))
}

func (s *SteeringSystem) updateFiring(w *ecs.World, e, target ecs.Entity, agent *component.Agent, dt float64) {
	if !agent.FireTimer.IsOver() {
		agent.FireTimer.Update(dt)
		return
	}
	if s.spawner != nil {
		if _, err := s.spawner.Spawn(w, e, target); err != nil {
			s.log.Debug("fire attempt dropped", zap.Stringer("agent", e), zap.Error(err))
		}
	}
	agent.FireTimer.ResetWithPeriod(NextFirePeriod(s.rand, agent.FirePeriod, agent.FireJitter))
}

// Strafe returns the perpendicular of lineOfSight that needs the smaller turn
// from heading. On a tie the left-hand perpendicular (-y, x) wins.
func Strafe(lineOfSight, heading cp.Vector) cp.Vector {
	left := lineOfSight.Perp()
	right := lineOfSight.ReversePerp()
	if right.Dot(heading) > left.Dot(heading) {
		return right
	}
	return left
}

// NextFirePeriod draws base plus a uniform jitter in [-jitter, jitter],
// never below MinFirePeriod.
func NextFirePeriod(r common.Random, base, jitter float64) float64 {
	period := base
	if jitter > 0 && r != nil {
		period += common.Uniform(r, -jitter, jitter)
	}
	if period < MinFirePeriod {
		period = MinFirePeriod
	}
	return period
}
