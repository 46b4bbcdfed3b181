package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/piratesim/ecs"
	"github.com/milk9111/piratesim/ecs/component"
	"github.com/stretchr/testify/require"
)

const testDt = 0.02

func spawnTestAgent(t *testing.T, w *ecs.World, pos, dir cp.Vector, shootingRange float64) ecs.Entity {
	t.Helper()
	e, err := w.CreateEntity()
	require.NoError(t, err)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent, &component.Transform{Position: pos}))
	require.NoError(t, ecs.Add(w, e, component.AgentComponent, &component.Agent{
		Direction:     dir,
		Speed:         20,
		RotSpeed:      20,
		ShootingRange: shootingRange,
		FirePeriod:    2,
		FireTimer:     component.NewTimer(2),
	}))
	return e
}

func agentOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.Agent {
	t.Helper()
	a, ok := ecs.Get(w, e, component.AgentComponent)
	require.True(t, ok)
	return a
}

func transformOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.Transform {
	t.Helper()
	tr, ok := ecs.Get(w, e, component.TransformComponent)
	require.True(t, ok)
	return tr
}

type recordingSpawner struct {
	calls [][2]ecs.Entity
	err   error
}

func (r *recordingSpawner) Spawn(_ *ecs.World, origin, target ecs.Entity) (ecs.Entity, error) {
	r.calls = append(r.calls, [2]ecs.Entity{origin, target})
	return 0, r.err
}

type recordingVisuals struct {
	attached map[ecs.Entity]string
}

func (r *recordingVisuals) AttachVisual(e ecs.Entity, asset string) {
	if r.attached == nil {
		r.attached = make(map[ecs.Entity]string)
	}
	r.attached[e] = asset
}

func eventsOfType(events []ecs.Event, typ string) []ecs.ShotEvent {
	var out []ecs.ShotEvent
	for _, evt := range events {
		if evt.Type != typ {
			continue
		}
		if shot, ok := evt.Data.(ecs.ShotEvent); ok {
			out = append(out, shot)
		}
	}
	return out
}
