package ecs

// Phase selects when a system runs.
type Phase int

const (
	// PhaseFixedUpdate runs at the constant simulation step.
	PhaseFixedUpdate Phase = iota
	// PhaseUpdate runs once per presentation frame with a variable step.
	PhaseUpdate
)

func (p Phase) String() string {
	switch p {
	case PhaseFixedUpdate:
		return "fixed_update"
	case PhaseUpdate:
		return "update"
	default:
		return "unknown"
	}
}

type System interface {
	Update(w *World, dt float64)
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World, dt float64)

func (f SystemFunc) Update(w *World, dt float64) {
	f(w, dt)
}

// Scheduler runs systems per phase in registration order.
type Scheduler struct {
	fixed    []System
	variable []System
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Add(phase Phase, system System) {
	if system == nil {
		return
	}
	switch phase {
	case PhaseFixedUpdate:
		s.fixed = append(s.fixed, system)
	case PhaseUpdate:
		s.variable = append(s.variable, system)
	}
}

func (s *Scheduler) Run(phase Phase, w *World, dt float64) {
	for _, system := range s.Systems(phase) {
		system.Update(w, dt)
	}
}

func (s *Scheduler) Systems(phase Phase) []System {
	switch phase {
	case PhaseFixedUpdate:
		return s.fixed
	case PhaseUpdate:
		return s.variable
	default:
		return nil
	}
}
