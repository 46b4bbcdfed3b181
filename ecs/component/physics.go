package component

import "github.com/jakecoffman/cp"

// Body marks an entity as integrated by the physics world. Velocity mirrors
// the Chipmunk body after every step.
type Body struct {
	Velocity cp.Vector
	Mass     float64
}

var BodyComponent = NewComponent[Body]()
