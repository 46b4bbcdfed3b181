package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/piratesim/ecs"
	"github.com/milk9111/piratesim/ecs/component"
)

// PositionFunc resolves an entity's position. ok is false when the entity has
// no position.
type PositionFunc func(e ecs.Entity) (pos cp.Vector, ok bool)

// Nearest returns the candidate closest to self by Euclidean distance. self
// and candidates without a position are skipped; of several candidates at the
// same minimum distance the first one in candidates wins.
//
// Each call is a linear scan, so querying for every agent costs O(n^2) per
// tick. That is fine for a few thousand agents; beyond that a spatial index
// would be needed and would have to keep this tie-break order.
func Nearest(self ecs.Entity, candidates []ecs.Entity, positionOf PositionFunc) (ecs.Entity, bool) {
	origin, ok := positionOf(self)
	if !ok {
		return 0, false
	}
	var (
		closest ecs.Entity
		found   bool
	)
	best := math.Inf(1)
	for _, other := range candidates {
		if other == self {
			continue
		}
		pos, ok := positionOf(other)
		if !ok {
			continue
		}
		// squared distance keeps the ordering and skips the sqrt
		d := pos.DistanceSq(origin)
		if d < best {
			best = d
			closest = other
			found = true
		}
	}
	return closest, found
}

// TransformPositions returns a PositionFunc backed by the world's transforms.
func TransformPositions(w *ecs.World) PositionFunc {
	return func(e ecs.Entity) (cp.Vector, bool) {
		if !w.IsAlive(e) {
			return cp.Vector{}, false
		}
		tr, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			return cp.Vector{}, false
		}
		return tr.Position, true
	}
}
