// Package sim runs the pirate simulation: agents hunting each other, their
// projectiles and the orbiting planets, driven by the host's Update and
// FixedUpdate calls.
package sim

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/piratesim/common"
	"github.com/milk9111/piratesim/config"
	"github.com/milk9111/piratesim/ecs"
	"github.com/milk9111/piratesim/ecs/component"
	"github.com/milk9111/piratesim/ecs/entity"
	"github.com/milk9111/piratesim/ecs/system"
	"github.com/milk9111/piratesim/prefabs"
)

// ErrFixedStepMismatch is returned by FixedUpdate when dt differs from the
// configured fixed step.
var ErrFixedStepMismatch = errors.New("sim: fixed step mismatch")

const fixedStepTolerance = 1e-9

// VisualAttacher gives spawned entities something to draw.
type VisualAttacher = system.VisualAttacher

type Option func(*Simulation)

func WithLogger(log *zap.Logger) Option {
	return func(s *Simulation) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRandom replaces the seeded source used for placement and firing jitter.
func WithRandom(r common.Random) Option {
	return func(s *Simulation) {
		if r != nil {
			s.rand = r
		}
	}
}

func WithVisuals(v VisualAttacher) Option {
	return func(s *Simulation) {
		s.visuals = v
	}
}

// WithPrefabs overrides where prefab specs are read from.
func WithPrefabs(src prefabs.Source) Option {
	return func(s *Simulation) {
		s.src = src
		s.srcSet = true
	}
}

// WithEventHandler receives every world event once per FixedUpdate, after
// the tick's systems have run.
func WithEventHandler(fn func(ecs.Event)) Option {
	return func(s *Simulation) {
		s.onEvent = fn
	}
}

// Stats is a snapshot of the simulation counters.
type Stats struct {
	Tick        uint64
	Capacity    int
	Live        int
	Agents      int
	Projectiles int
	Planets     int
	Fired       uint64
	Dropped     uint64
	Expired     uint64
	Killed      uint64
}

// Simulation owns one world and the systems that drive it. It is not safe
// for concurrent use; independent simulations share nothing.
type Simulation struct {
	fixedDelta float64
	seed       int64
	bounds     entity.Bounds

	world     *ecs.World
	scheduler *ecs.Scheduler

	steering    *system.SteeringSystem
	projectiles *system.ProjectileSystem
	orbit       *system.OrbitSystem

	src    prefabs.Source
	srcSet bool
	pirate prefabs.EntityBuildSpec
	planet prefabs.EntityBuildSpec

	rand    common.Random
	visuals VisualAttacher
	onEvent func(ecs.Event)
	log     *zap.Logger

	tick  uint64
	stats Stats
}

// New builds a simulation from cfg. The world is sized to the configured
// capacity before anything is spawned.
func New(cfg *config.Config, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	s := &Simulation{
		fixedDelta: cfg.Simulation.FixedDelta,
		seed:       cfg.Simulation.Seed,
		bounds:     entity.Bounds{Width: float64(cfg.Screen.Width), Height: float64(cfg.Screen.Height)},
		world:      ecs.NewWorld(),
		scheduler:  ecs.NewScheduler(),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.srcSet {
		s.src = prefabs.Source{Dir: cfg.Prefabs.Dir}
	}
	if s.rand == nil {
		s.rand = common.NewRandom(cfg.Simulation.Seed)
	}

	if err := s.world.Resize(cfg.Simulation.Capacity); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	s.world.SetPhysicsWorld(ecs.NewPhysicsWorld())

	var err error
	if s.pirate, err = prefabs.LoadEntityBuildSpec(s.src, prefabs.PirateFile); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if s.planet, err = prefabs.LoadEntityBuildSpec(s.src, prefabs.PlanetFile); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	speed, asset, err := s.loadBullet()
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	s.projectiles = system.NewProjectileSystem(speed, asset, s.visuals, s.log.Named("projectile"))
	s.steering = system.NewSteeringSystem(s.projectiles, s.rand, s.log.Named("steering"))
	s.orbit = system.NewOrbitSystem(s.bounds.Center())

	// steering before projectiles: a shot fired this tick also moves this tick
	s.scheduler.Add(ecs.PhaseFixedUpdate, s.steering)
	s.scheduler.Add(ecs.PhaseFixedUpdate, s.projectiles)
	s.scheduler.Add(ecs.PhaseFixedUpdate, s.orbit)

	s.log.Info("simulation ready",
		zap.Int("capacity", s.world.Capacity()),
		zap.Float64("fixed_delta", s.fixedDelta),
		zap.Int64("seed", s.seed),
	)
	return s, nil
}

func (s *Simulation) loadBullet() (float64, string, error) {
	bullet, err := prefabs.LoadEntityBuildSpec(s.src, prefabs.BulletFile)
	if err != nil {
		return 0, "", err
	}
	projectile, _, err := prefabs.Component[prefabs.ProjectileComponentSpec](bullet, "projectile")
	if err != nil {
		return 0, "", fmt.Errorf("%s: %w", prefabs.BulletFile, err)
	}
	sprite, _, err := prefabs.Component[prefabs.SpriteComponentSpec](bullet, "sprite")
	if err != nil {
		return 0, "", fmt.Errorf("%s: %w", prefabs.BulletFile, err)
	}
	return projectile.Speed, sprite.Image, nil
}

// AddSystem registers an extra system, typically a presentation system in
// the Update phase.
func (s *Simulation) AddSystem(phase ecs.Phase, sys ecs.System) {
	s.scheduler.Add(phase, sys)
}

// Update runs the variable-rate phase.
func (s *Simulation) Update(dt float64) {
	if dt < 0 {
		return
	}
	s.scheduler.Run(ecs.PhaseUpdate, s.world, dt)
}

// FixedUpdate advances the simulation one tick: steering for every agent in
// creation order, then projectiles, then orbit physics.
func (s *Simulation) FixedUpdate(dt float64) error {
	if math.Abs(dt-s.fixedDelta) > fixedStepTolerance {
		return fmt.Errorf("%w: got %v, want %v", ErrFixedStepMismatch, dt, s.fixedDelta)
	}
	s.scheduler.Run(ecs.PhaseFixedUpdate, s.world, dt)
	s.tick++
	s.drainEvents()
	return nil
}

func (s *Simulation) drainEvents() {
	for _, evt := range s.world.Events().Drain() {
		switch evt.Type {
		case ecs.EventProjectileSpawned:
			s.stats.Fired++
		case ecs.EventFireDropped:
			s.stats.Dropped++
			if shot, ok := evt.Data.(ecs.ShotEvent); ok {
				s.log.Debug("shot dropped", zap.Uint64("tick", s.tick), zap.Stringer("owner", shot.Owner), zap.Error(shot.Err))
			}
		case ecs.EventProjectileExpired:
			s.stats.Expired++
		}
		if s.onEvent != nil {
			s.onEvent(evt)
		}
	}
}

// SpawnAgents places n agents with the pirate prefab's placement. It stops
// at the first failure and returns what was spawned so far.
func (s *Simulation) SpawnAgents(n int) ([]ecs.Entity, error) {
	return s.spawnMany(s.pirate, n, s.SpawnAgentAt)
}

// SpawnPlanets places n orbiting planets.
func (s *Simulation) SpawnPlanets(n int) ([]ecs.Entity, error) {
	return s.spawnMany(s.planet, n, s.SpawnPlanetAt)
}

func (s *Simulation) spawnMany(spec prefabs.EntityBuildSpec, n int, spawn func(cp.Vector) (ecs.Entity, error)) ([]ecs.Entity, error) {
	placer, err := entity.NewPlacer(s.src, spec.Placement, s.bounds, s.rand)
	if err != nil {
		return nil, fmt.Errorf("sim: spawn %s: %w", spec.Name, err)
	}
	out := make([]ecs.Entity, 0, n)
	for i := 0; i < n; i++ {
		pos, err := placer.Place(i, n)
		if err != nil {
			return out, fmt.Errorf("sim: spawn %s: %w", spec.Name, err)
		}
		e, err := spawn(pos)
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	s.log.Info("spawned", zap.String("prefab", spec.Name), zap.Int("count", len(out)))
	return out, nil
}

// SpawnAgentAt builds one agent at pos.
func (s *Simulation) SpawnAgentAt(pos cp.Vector) (ecs.Entity, error) {
	e, err := entity.Build(s.world, s.pirate, entity.BuildContext{Position: pos, Visuals: s.visuals})
	if err != nil {
		return 0, fmt.Errorf("sim: %w", err)
	}
	return e, nil
}

// SpawnPlanetAt builds one planet at pos, moving on a circular orbit around
// the screen centre.
func (s *Simulation) SpawnPlanetAt(pos cp.Vector) (ecs.Entity, error) {
	e, err := entity.Build(s.world, s.planet, entity.BuildContext{
		Position:      pos,
		Visuals:       s.visuals,
		OrbitVelocity: s.orbit.InitialVelocity,
	})
	if err != nil {
		return 0, fmt.Errorf("sim: %w", err)
	}
	return e, nil
}

// Kill destroys an agent and everything attached to it. Projectiles it
// already fired keep flying.
func (s *Simulation) Kill(e ecs.Entity) error {
	if !ecs.Has(s.world, e, component.AgentComponent) {
		return fmt.Errorf("sim: kill %s: %w", e, ecs.ErrInvalidEntity)
	}
	if err := s.world.DestroyEntity(e); err != nil {
		return fmt.Errorf("sim: kill: %w", err)
	}
	s.stats.Killed++
	s.world.Events().Push(ecs.Event{Type: ecs.EventAgentKilled, Data: ecs.ShotEvent{Target: e}})
	return nil
}

// ApplyAgentSpec retunes every live agent and future spawns. Heading and
// firing timer progress are kept.
func (s *Simulation) ApplyAgentSpec(spec prefabs.AgentComponentSpec) error {
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	ecs.ForEach(s.world, component.AgentComponent, func(_ ecs.Entity, a *component.Agent) {
		a.Speed = spec.Speed
		a.RotSpeed = spec.RotSpeed
		a.ShootingRange = spec.ShootingRange
		a.FirePeriod = spec.FirePeriod
		a.FireJitter = spec.FireJitter
	})

	components := make(map[string]any, len(s.pirate.Components))
	for k, v := range s.pirate.Components {
		components[k] = v
	}
	components["agent"] = spec
	s.pirate.Components = components
	return nil
}

// ReloadPrefab re-reads a changed prefab file or placement script and
// reports whether the simulation uses it. Unknown names are ignored.
func (s *Simulation) ReloadPrefab(name string) (bool, error) {
	switch name {
	case prefabs.PirateFile:
		spec, err := prefabs.LoadEntityBuildSpec(s.src, name)
		if err != nil {
			return false, fmt.Errorf("sim: reload: %w", err)
		}
		agent, ok, err := prefabs.Component[prefabs.AgentComponentSpec](spec, "agent")
		if err != nil {
			return false, fmt.Errorf("sim: reload %s: %w", name, err)
		}
		s.pirate = spec
		if ok {
			if err := s.ApplyAgentSpec(agent); err != nil {
				return false, err
			}
		}
	case prefabs.PlanetFile:
		spec, err := prefabs.LoadEntityBuildSpec(s.src, name)
		if err != nil {
			return false, fmt.Errorf("sim: reload: %w", err)
		}
		s.planet = spec
	case prefabs.BulletFile:
		speed, asset, err := s.loadBullet()
		if err != nil {
			return false, fmt.Errorf("sim: reload: %w", err)
		}
		if speed > 0 {
			s.projectiles.Speed = speed
		}
		s.projectiles.Asset = asset
	default:
		if !s.usesScript(name) {
			return false, nil
		}
		// scripts are read at spawn time; compiling here surfaces errors early
		if _, err := entity.NewScriptPlacer(s.src, name, s.bounds, s.rand); err != nil {
			return false, fmt.Errorf("sim: reload: %w", err)
		}
	}
	s.log.Info("prefab reloaded", zap.String("prefab", name))
	return true, nil
}

func (s *Simulation) usesScript(name string) bool {
	if name == "" {
		return false
	}
	for _, spec := range []prefabs.EntityBuildSpec{s.pirate, s.planet} {
		if spec.Placement.Script != "" && path.Base(filepath.ToSlash(spec.Placement.Script)) == name {
			return true
		}
	}
	return false
}

func (s *Simulation) World() *ecs.World {
	return s.world
}

func (s *Simulation) Bounds() entity.Bounds {
	return s.bounds
}

func (s *Simulation) Seed() int64 {
	return s.seed
}

func (s *Simulation) Tick() uint64 {
	return s.tick
}

func (s *Simulation) FixedDelta() float64 {
	return s.fixedDelta
}

// Agents returns live agents in creation order.
func (s *Simulation) Agents() []ecs.Entity {
	return s.world.Query(component.AgentComponent)
}

// Projectiles returns live projectiles in creation order.
func (s *Simulation) Projectiles() []ecs.Entity {
	return s.world.Query(component.ProjectileComponent)
}

func (s *Simulation) Planets() []ecs.Entity {
	return s.world.Query(component.PlanetTagComponent)
}

func (s *Simulation) Stats() Stats {
	st := s.stats
	st.Tick = s.tick
	st.Capacity = s.world.Capacity()
	st.Live = s.world.Len()
	st.Agents = ecs.Count(s.world, component.AgentComponent)
	st.Projectiles = ecs.Count(s.world, component.ProjectileComponent)
	st.Planets = ecs.Count(s.world, component.PlanetTagComponent)
	return st
}

// Checksum fingerprints the simulation state: the tick and, for every live
// entity in creation order, its handle and simulated fields. Two runs with
// the same seed and inputs produce the same checksum.
func (s *Simulation) Checksum() uint64 {
	d := xxhash.New()
	var buf [8]byte
	putU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	putF64 := func(v float64) {
		putU64(math.Float64bits(v))
	}
	putVec := func(v cp.Vector) {
		putF64(v.X)
		putF64(v.Y)
	}

	putU64(s.tick)
	for _, e := range s.world.Entities() {
		putU64(uint64(e))
		if tr, ok := ecs.Get(s.world, e, component.TransformComponent); ok {
			putVec(tr.Position)
			putF64(tr.Rotation)
		}
		if a, ok := ecs.Get(s.world, e, component.AgentComponent); ok {
			putVec(a.Direction)
			putF64(a.FireTimer.Elapsed)
			putF64(a.FireTimer.Period)
			putU64(a.Target)
		}
		if p, ok := ecs.Get(s.world, e, component.ProjectileComponent); ok {
			putVec(p.Direction)
			putF64(p.Lifetime.Elapsed)
			putU64(p.Owner)
		}
		if b, ok := ecs.Get(s.world, e, component.BodyComponent); ok {
			putVec(b.Velocity)
		}
	}
	return d.Sum64()
}

// Fingerprint is a short reproduction string for a run.
func (s *Simulation) Fingerprint() string {
	return fmt.Sprintf("seed=%d tick=%d checksum=%016x", s.seed, s.tick, s.Checksum())
}
