package common

import "math/rand"

// Random yields uniform floats in [0, 1).
type Random interface {
	Float64() float64
}

// NewRandom returns a seeded source so runs are reproducible.
func NewRandom(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Uniform maps a [0, 1) draw into [lo, hi).
func Uniform(r Random, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// FixedRandom replays a fixed sequence of draws, cycling when exhausted.
type FixedRandom struct {
	Values []float64
	next   int
}

func (f *FixedRandom) Float64() float64 {
	if len(f.Values) == 0 {
		return 0
	}
	v := f.Values[f.next%len(f.Values)]
	f.next++
	return v
}
