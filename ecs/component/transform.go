package component

import "github.com/jakecoffman/cp"

// Transform places an entity in the world. Rotation is in degrees, measured
// from the down axis, and is presentation only.
type Transform struct {
	Position cp.Vector
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
