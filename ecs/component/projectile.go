package component

import "github.com/jakecoffman/cp"

// Projectile flies in a straight line until Lifetime is over.
type Projectile struct {
	Direction cp.Vector
	Speed     float64
	Lifetime  Timer
	// Owner and Target are entity handles captured at spawn time. They are
	// informational and may be stale.
	Owner  uint64
	Target uint64
	// Traveled is the distance covered so far.
	Traveled float64
}

var ProjectileComponent = NewComponent[Projectile]()
