package component

import "testing"

func TestTimer(t *testing.T) {
	tests := []struct {
		name      string
		period    float64
		steps     []float64
		over      bool
		elapsed   float64
		remaining float64
	}{
		{"fresh", 1, nil, false, 0, 1},
		{"partial", 1, []float64{0.25, 0.25}, false, 0.5, 0.5},
		{"clamped", 1, []float64{5}, true, 1, 0},
		{"negative step ignored", 1, []float64{-1, 0.5}, false, 0.5, 0.5},
		{"zero period", 0, nil, true, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			timer := NewTimer(tc.period)
			for _, dt := range tc.steps {
				timer.Update(dt)
			}
			if got := timer.IsOver(); got != tc.over {
				t.Fatalf("IsOver() = %v, want %v", got, tc.over)
			}
			if timer.Elapsed != tc.elapsed {
				t.Fatalf("Elapsed = %v, want %v", timer.Elapsed, tc.elapsed)
			}
			if got := timer.Remaining(); got != tc.remaining {
				t.Fatalf("Remaining() = %v, want %v", got, tc.remaining)
			}
		})
	}
}

func TestTimerFixedStepsReachPeriod(t *testing.T) {
	timer := NewTimer(1)
	for i := 0; i < 49; i++ {
		timer.Update(0.02)
	}
	if timer.IsOver() {
		t.Fatalf("timer over after 49 steps")
	}
	timer.Update(0.02)
	if !timer.IsOver() {
		t.Fatalf("timer not over after 50 steps, elapsed %v", timer.Elapsed)
	}
}

func TestTimerReset(t *testing.T) {
	timer := NewTimer(2)
	timer.Update(3)
	timer.Reset()
	if timer.Elapsed != 0 || timer.Period != 2 {
		t.Fatalf("Reset() = %+v", timer)
	}

	timer.Update(1)
	timer.ResetWithPeriod(0.5)
	if timer.Elapsed != 0 || timer.Period != 0.5 {
		t.Fatalf("ResetWithPeriod() = %+v", timer)
	}
	if r := timer.Ratio(); r != 0 {
		t.Fatalf("Ratio() = %v, want 0", r)
	}
	timer.Update(0.25)
	if r := timer.Ratio(); r != 0.5 {
		t.Fatalf("Ratio() = %v, want 0.5", r)
	}
	zero := NewTimer(0)
	if r := zero.Ratio(); r != 1 {
		t.Fatalf("zero period Ratio() = %v, want 1", r)
	}
}
