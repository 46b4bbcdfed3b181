package ecs

import "github.com/jakecoffman/cp"

func cpVec(x, y float64) cp.Vector {
	return cp.Vector{X: x, Y: y}
}
