package render

import "github.com/milk9111/piratesim/ecs"

// VisualSystem runs in the variable phase and drops registry bindings for
// entities destroyed since the last frame.
type VisualSystem struct {
	reg *Registry
}

func NewVisualSystem(reg *Registry) *VisualSystem {
	return &VisualSystem{reg: reg}
}

func (s *VisualSystem) Update(w *ecs.World, _ float64) {
	if s == nil || s.reg == nil || w == nil {
		return
	}
	s.reg.Prune(w)
}
