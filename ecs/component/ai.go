package component

import "github.com/jakecoffman/cp"

// Agent is the steering and firing state of a pirate ship.
type Agent struct {
	// Direction is the unit heading; it is renormalized every tick.
	Direction cp.Vector
	// Speed in pixels per second.
	Speed float64
	// RotSpeed is the maximum turn rate in radians per second.
	RotSpeed      float64
	ShootingRange float64
	// FirePeriod is the base firing period; each reset adds a uniform jitter
	// in [-FireJitter, FireJitter].
	FirePeriod float64
	FireJitter float64
	FireTimer  Timer
	// Target is the agent acquired on the last tick, zero when none.
	Target uint64
	InRange bool
}

var AgentComponent = NewComponent[Agent]()
