package system

import (
	"fmt"
	"math"

	"github.com/milk9111/piratesim/common"
	"github.com/milk9111/piratesim/ecs"
	"github.com/milk9111/piratesim/ecs/component"
	"go.uber.org/zap"
)

// DefaultProjectileSpeed is the bullet speed in pixels per second.
const DefaultProjectileSpeed = 200.0

// VisualAttacher is the host hook that gives an entity something to draw.
// The simulation passes the asset reference through and ignores the outcome.
type VisualAttacher interface {
	AttachVisual(e ecs.Entity, asset string)
}

type nopVisuals struct{}

func (nopVisuals) AttachVisual(ecs.Entity, string) {}

// ProjectileSystem spawns bullets, moves them in a straight line and
// destroys them when their lifetime runs out.
type ProjectileSystem struct {
	Speed   float64
	Asset   string
	visuals VisualAttacher
	log     *zap.Logger
}

func NewProjectileSystem(speed float64, asset string, visuals VisualAttacher, log *zap.Logger) *ProjectileSystem {
	if speed <= 0 {
		speed = DefaultProjectileSpeed
	}
	if visuals == nil {
		visuals = nopVisuals{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ProjectileSystem{Speed: speed, Asset: asset, visuals: visuals, log: log}
}

// Spawn fires a projectile from origin toward target's current position.
// The lifetime is chosen so the projectile covers exactly the origin agent's
// shooting range. A full entity table drops the shot with
// ErrCapacityExceeded; nothing is retried.
func (s *ProjectileSystem) Spawn(w *ecs.World, origin, target ecs.Entity) (ecs.Entity, error) {
	from, ok := ecs.Get(w, origin, component.TransformComponent)
	if !ok {
		return 0, fmt.Errorf("projectile: spawn from %s: %w", origin, ecs.ErrInvalidEntity)
	}
	to, ok := ecs.Get(w, target, component.TransformComponent)
	if !ok {
		return 0, fmt.Errorf("projectile: spawn toward %s: %w", target, ecs.ErrInvalidEntity)
	}

	fallback := common.Down
	rng := 0.0
	if agent, ok := ecs.Get(w, origin, component.AgentComponent); ok {
		fallback = agent.Direction
		rng = agent.ShootingRange
	}
	dir := common.Normalize(to.Position.Sub(from.Position), fallback)

	e, err := w.CreateEntity()
	if err != nil {
		w.Events().Push(ecs.Event{Type: ecs.EventFireDropped, Data: ecs.ShotEvent{Owner: origin, Target: target, Err: err}})
		s.log.Debug("projectile dropped", zap.Stringer("owner", origin), zap.Error(err))
		return 0, fmt.Errorf("projectile: spawn: %w", err)
	}

	if err := ecs.Add(w, e, component.TransformComponent, &component.Transform{
		Position: from.Position,
		Rotation: common.AngleFromDown(dir),
	}); err != nil {
		_ = w.DestroyEntity(e)
		return 0, fmt.Errorf("projectile: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.ProjectileComponent, &component.Projectile{
		Direction: dir,
		Speed:     s.Speed,
		Lifetime:  component.NewTimer(rng / s.Speed),
		Owner:     uint64(origin),
		Target:    uint64(target),
	}); err != nil {
		_ = w.DestroyEntity(e)
		return 0, fmt.Errorf("projectile: add projectile: %w", err)
	}
	if s.Asset != "" {
		if err := ecs.Add(w, e, component.SpriteComponent, &component.Sprite{Image: s.Asset}); err != nil {
			_ = w.DestroyEntity(e)
			return 0, fmt.Errorf("projectile: add sprite: %w", err)
		}
		s.visuals.AttachVisual(e, s.Asset)
	}

	w.Events().Push(ecs.Event{Type: ecs.EventProjectileSpawned, Data: ecs.ShotEvent{Projectile: e, Owner: origin, Target: target}})
	return e, nil
}

// Update advances every projectile. Movement never runs past the lifetime,
// so the distance at expiry is exactly Speed times the lifetime.
func (s *ProjectileSystem) Update(w *ecs.World, dt float64) {
	if w == nil || dt <= 0 {
		return
	}
	ecs.ForEach2(w, component.ProjectileComponent, component.TransformComponent, func(e ecs.Entity, p *component.Projectile, tr *component.Transform) {
		step := math.Min(dt, p.Lifetime.Remaining())
		tr.Position = tr.Position.Add(p.Direction.Mult(p.Speed * step))
		p.Traveled += p.Speed * step
		p.Lifetime.Update(dt)
		if !p.Lifetime.IsOver() {
			return
		}

		evt := ecs.ShotEvent{
			Projectile: e,
			Owner:      ecs.Entity(p.Owner),
			Target:     ecs.Entity(p.Target),
			Position:   tr.Position,
			Traveled:   p.Traveled,
		}
		if err := w.DestroyEntity(e); err != nil {
			s.log.Warn("projectile destroy failed", zap.Stringer("projectile", e), zap.Error(err))
			return
		}
		w.Events().Push(ecs.Event{Type: ecs.EventProjectileExpired, Data: evt})
		s.log.Debug("projectile expired", zap.Stringer("projectile", e), zap.Float64("traveled", evt.Traveled))
	})
}
