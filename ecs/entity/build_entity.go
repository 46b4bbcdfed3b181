package entity

import (
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/piratesim/common"
	"github.com/milk9111/piratesim/ecs"
	"github.com/milk9111/piratesim/ecs/component"
	"github.com/milk9111/piratesim/ecs/system"
	"github.com/milk9111/piratesim/prefabs"
)

// BuildContext carries the per-spawn inputs a prefab cannot hold.
type BuildContext struct {
	Position cp.Vector
	Visuals  system.VisualAttacher
	// OrbitVelocity returns the starting velocity of an orbiting body.
	OrbitVelocity func(pos cp.Vector) cp.Vector
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *BuildContext) error

var componentRegistry = map[string]componentBuildFn{
	"pirate_tag": addPirateTag,
	"planet_tag": addPlanetTag,
	"transform":  addTransform,
	"agent":      addAgent,
	"body":       addBody,
	"sprite":     addSprite,
}

// transform first: agent and body read the spawn position from it.
var componentBuildOrder = []string{
	"pirate_tag",
	"planet_tag",
	"transform",
	"agent",
	"body",
	"sprite",
}

// BuildEntity loads a prefab from src and builds it.
func BuildEntity(w *ecs.World, src prefabs.Source, prefabPath string, ctx BuildContext) (ecs.Entity, error) {
	spec, err := prefabs.LoadEntityBuildSpec(src, prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return Build(w, spec, ctx)
}

// Build creates an entity with every component the prefab names. On any
// failure the partially built entity is destroyed.
func Build(w *ecs.World, spec prefabs.EntityBuildSpec, ctx BuildContext) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", spec.Name)
	}

	names := make([]string, 0, len(spec.Components))
	for _, name := range componentBuildOrder {
		if _, ok := spec.Components[name]; ok {
			names = append(names, name)
		}
	}
	var unknown []string
	for name := range spec.Components {
		if _, ok := componentRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", spec.Name, unknown[0])
	}

	e, err := w.CreateEntity()
	if err != nil {
		return 0, fmt.Errorf("build entity: %q: %w", spec.Name, err)
	}

	for _, name := range names {
		if err := componentRegistry[name](w, e, spec.Components[name], &ctx); err != nil {
			_ = w.DestroyEntity(e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", spec.Name, name, err)
		}
	}

	return e, nil
}

func addPirateTag(w *ecs.World, e ecs.Entity, _ any, _ *BuildContext) error {
	return ecs.Add(w, e, component.PirateTagComponent, &component.PirateTag{})
}

func addPlanetTag(w *ecs.World, e ecs.Entity, _ any, _ *BuildContext) error {
	return ecs.Add(w, e, component.PlanetTagComponent, &component.PlanetTag{})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, ctx *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.TransformComponent, &component.Transform{
		Position: ctx.Position.Add(cp.Vector{X: spec.X, Y: spec.Y}),
		Rotation: spec.Rotation,
	})
}

func addAgent(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.AgentComponentSpec](raw)
	if err != nil {
		return err
	}
	if err := spec.Validate(); err != nil {
		return err
	}
	agent := NewAgent(spec)
	if tr, ok := ecs.Get(w, e, component.TransformComponent); ok {
		tr.Rotation = common.AngleFromDown(agent.Direction)
	}
	return ecs.Add(w, e, component.AgentComponent, agent)
}

// NewAgent turns a tuning spec into fresh agent state. The firing timer starts
// empty, so the first shot comes one full period after reaching range.
func NewAgent(spec prefabs.AgentComponentSpec) *component.Agent {
	return &component.Agent{
		Direction:     common.Normalize(cp.Vector{X: spec.Direction.X, Y: spec.Direction.Y}, common.Down),
		Speed:         spec.Speed,
		RotSpeed:      spec.RotSpeed,
		ShootingRange: spec.ShootingRange,
		FirePeriod:    spec.FirePeriod,
		FireJitter:    spec.FireJitter,
		FireTimer:     component.NewTimer(spec.FirePeriod),
	}
}

func addBody(w *ecs.World, e ecs.Entity, raw any, ctx *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.BodyComponentSpec](raw)
	if err != nil {
		return err
	}
	mass := spec.Mass
	if mass <= 0 {
		mass = system.DefaultPlanetMass
	}
	body := &component.Body{Mass: mass}
	if spec.Orbit && ctx.OrbitVelocity != nil {
		pos := ctx.Position
		if tr, ok := ecs.Get(w, e, component.TransformComponent); ok {
			pos = tr.Position
		}
		body.Velocity = ctx.OrbitVelocity(pos)
	}
	return ecs.Add(w, e, component.BodyComponent, body)
}

func addSprite(w *ecs.World, e ecs.Entity, raw any, ctx *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.SpriteComponentSpec](raw)
	if err != nil {
		return err
	}
	if spec.Image == "" {
		return fmt.Errorf("sprite image is empty")
	}
	if err := ecs.Add(w, e, component.SpriteComponent, &component.Sprite{Image: spec.Image}); err != nil {
		return err
	}
	if ctx.Visuals != nil {
		ctx.Visuals.AttachVisual(e, spec.Image)
	}
	return nil
}
