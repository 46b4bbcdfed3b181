package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Down is the reference axis for facing angles (screen y grows downward).
var Down = cp.Vector{X: 0, Y: 1}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SignedAngle returns the angle in radians that rotates from onto to, in
// (-Pi, Pi].
func SignedAngle(from, to cp.Vector) float64 {
	a := math.Atan2(from.Cross(to), from.Dot(to))
	// a cross product of -0 lands on -Pi
	if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// AngleFromDown returns the facing angle of dir in degrees relative to Down.
func AngleFromDown(dir cp.Vector) float64 {
	return SignedAngle(Down, dir) * 180 / math.Pi
}

// RotateTowards turns the unit vector from toward to by at most maxAngle
// radians and returns a unit vector.
func RotateTowards(from, to cp.Vector, maxAngle float64) cp.Vector {
	angle := SignedAngle(from, to)
	step := Clamp(angle, -maxAngle, maxAngle)
	return Normalize(from.Rotate(cp.ForAngle(step)), from)
}

// Normalize returns v scaled to unit length, or fallback when v is too short
// to carry a direction.
func Normalize(v, fallback cp.Vector) cp.Vector {
	l := v.Length()
	if l < 1e-12 {
		return fallback
	}
	return v.Mult(1 / l)
}
