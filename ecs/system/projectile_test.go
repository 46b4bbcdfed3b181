package system

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/piratesim/common"
	"github.com/milk9111/piratesim/ecs"
	"github.com/milk9111/piratesim/ecs/component"
	"github.com/stretchr/testify/require"
)

const testBulletAsset = "data/pirates/Ships/ship (1).png"

func TestProjectileSpawn(t *testing.T) {
	w := ecs.NewWorld()
	origin := spawnTestAgent(t, w, cp.Vector{}, common.Down, 200)
	target := spawnTestAgent(t, w, cp.Vector{X: 100}, common.Down, 200)

	visuals := &recordingVisuals{}
	ps := NewProjectileSystem(200, testBulletAsset, visuals, nil)

	e, err := ps.Spawn(w, origin, target)
	require.NoError(t, err)

	p, ok := ecs.Get(w, e, component.ProjectileComponent)
	require.True(t, ok)
	require.InDelta(t, 1, p.Direction.X, 1e-12)
	require.InDelta(t, 0, p.Direction.Y, 1e-12)
	require.InDelta(t, 1.0, p.Lifetime.Period, 1e-12)
	require.InDelta(t, 200, p.Speed*p.Lifetime.Period, 1e-9)
	require.Equal(t, uint64(origin), p.Owner)
	require.Equal(t, uint64(target), p.Target)

	tr, ok := ecs.Get(w, e, component.TransformComponent)
	require.True(t, ok)
	require.Equal(t, cp.Vector{}, tr.Position)
	require.InDelta(t, -90, tr.Rotation, 1e-9)

	sprite, ok := ecs.Get(w, e, component.SpriteComponent)
	require.True(t, ok)
	require.Equal(t, testBulletAsset, sprite.Image)
	require.Equal(t, testBulletAsset, visuals.attached[e])

	spawned := eventsOfType(w.Events().Drain(), ecs.EventProjectileSpawned)
	require.Len(t, spawned, 1)
	require.Equal(t, e, spawned[0].Projectile)
}

func TestProjectileSpawnCoincidentUsesOwnerHeading(t *testing.T) {
	w := ecs.NewWorld()
	heading := cp.Vector{X: -1}
	origin := spawnTestAgent(t, w, cp.Vector{X: 3, Y: 3}, heading, 200)
	target := spawnTestAgent(t, w, cp.Vector{X: 3, Y: 3}, common.Down, 200)

	ps := NewProjectileSystem(200, "", nil, nil)
	e, err := ps.Spawn(w, origin, target)
	require.NoError(t, err)

	p, _ := ecs.Get(w, e, component.ProjectileComponent)
	require.Equal(t, heading, p.Direction)
	require.False(t, ecs.Has(w, e, component.SpriteComponent))
}

func TestProjectileSpawnCapacityExceeded(t *testing.T) {
	w := ecs.NewWorld()
	require.NoError(t, w.Resize(2))
	origin := spawnTestAgent(t, w, cp.Vector{}, common.Down, 200)
	target := spawnTestAgent(t, w, cp.Vector{X: 100}, common.Down, 200)

	visuals := &recordingVisuals{}
	ps := NewProjectileSystem(200, testBulletAsset, visuals, nil)

	e, err := ps.Spawn(w, origin, target)
	require.ErrorIs(t, err, ecs.ErrCapacityExceeded)
	require.Zero(t, e)
	require.Equal(t, 2, w.Len())
	require.Empty(t, visuals.attached)

	dropped := eventsOfType(w.Events().Drain(), ecs.EventFireDropped)
	require.Len(t, dropped, 1)
	require.Equal(t, origin, dropped[0].Owner)
	require.True(t, errors.Is(dropped[0].Err, ecs.ErrCapacityExceeded))
}

func TestProjectileSpawnInvalidOrigin(t *testing.T) {
	w := ecs.NewWorld()
	origin := spawnTestAgent(t, w, cp.Vector{}, common.Down, 200)
	target := spawnTestAgent(t, w, cp.Vector{X: 100}, common.Down, 200)
	require.NoError(t, w.DestroyEntity(origin))

	ps := NewProjectileSystem(200, "", nil, nil)
	_, err := ps.Spawn(w, origin, target)
	require.ErrorIs(t, err, ecs.ErrInvalidEntity)

	_, err = ps.Spawn(w, target, origin)
	require.ErrorIs(t, err, ecs.ErrInvalidEntity)
}

func TestProjectileExpiresAfterRange(t *testing.T) {
	w := ecs.NewWorld()
	origin := spawnTestAgent(t, w, cp.Vector{}, common.Down, 200)
	target := spawnTestAgent(t, w, cp.Vector{X: 100}, common.Down, 200)

	ps := NewProjectileSystem(200, "", nil, nil)
	e, err := ps.Spawn(w, origin, target)
	require.NoError(t, err)
	w.Events().Drain()

	// range/speed = 1s = 50 ticks
	for i := 0; i < 49; i++ {
		ps.Update(w, testDt)
	}
	require.True(t, w.IsAlive(e))
	require.Equal(t, []ecs.Entity{e}, w.Query(component.ProjectileComponent))
	require.Empty(t, eventsOfType(w.Events().Drain(), ecs.EventProjectileExpired))

	ps.Update(w, testDt)
	require.False(t, w.IsAlive(e))
	require.Empty(t, w.Query(component.ProjectileComponent))
	require.False(t, ecs.Has(w, e, component.TransformComponent))

	expired := eventsOfType(w.Events().Drain(), ecs.EventProjectileExpired)
	require.Len(t, expired, 1)
	require.Equal(t, e, expired[0].Projectile)
	require.InDelta(t, 200, expired[0].Traveled, 1e-9)
	require.InDelta(t, 200, expired[0].Position.X, 1e-9)
	require.InDelta(t, 0, expired[0].Position.Y, 1e-9)

	// destroyed exactly once
	for i := 0; i < 5; i++ {
		ps.Update(w, testDt)
	}
	require.Empty(t, w.Events().Drain())
	require.Equal(t, 2, w.Len())
}

func TestProjectileLargeStepDoesNotOvershoot(t *testing.T) {
	w := ecs.NewWorld()
	origin := spawnTestAgent(t, w, cp.Vector{}, common.Down, 150)
	target := spawnTestAgent(t, w, cp.Vector{Y: -10}, common.Down, 150)

	ps := NewProjectileSystem(200, "", nil, nil)
	_, err := ps.Spawn(w, origin, target)
	require.NoError(t, err)
	w.Events().Drain()

	ps.Update(w, 5)

	expired := eventsOfType(w.Events().Drain(), ecs.EventProjectileExpired)
	require.Len(t, expired, 1)
	require.InDelta(t, 150, expired[0].Traveled, 1e-9)
	require.InDelta(t, -150, expired[0].Position.Y, 1e-9)
}

func TestProjectileSlotIsReused(t *testing.T) {
	w := ecs.NewWorld()
	require.NoError(t, w.Resize(3))
	origin := spawnTestAgent(t, w, cp.Vector{}, common.Down, 20)
	target := spawnTestAgent(t, w, cp.Vector{X: 100}, common.Down, 20)

	ps := NewProjectileSystem(200, "", nil, nil)
	first, err := ps.Spawn(w, origin, target)
	require.NoError(t, err)
	_, err = ps.Spawn(w, origin, target)
	require.ErrorIs(t, err, ecs.ErrCapacityExceeded)

	for i := 0; i < 5; i++ {
		ps.Update(w, testDt)
	}
	require.False(t, w.IsAlive(first))

	second, err := ps.Spawn(w, origin, target)
	require.NoError(t, err)
	require.Equal(t, first.Index(), second.Index())
	require.NotEqual(t, first, second)
	require.False(t, w.IsAlive(first))
}
