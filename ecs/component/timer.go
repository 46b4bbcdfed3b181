package component

// timerEpsilon absorbs the error of summing many fixed steps, so fifty 0.02s
// ticks finish a 1s timer.
const timerEpsilon = 1e-9

// Timer counts elapsed time up to Period. Elapsed stays within [0, Period].
type Timer struct {
	Elapsed float64
	Period  float64
}

// NewTimer returns a timer that starts at the beginning of its countdown.
func NewTimer(period float64) Timer {
	return Timer{Period: period}
}

// Update advances the timer by dt seconds.
func (t *Timer) Update(dt float64) {
	if dt <= 0 {
		return
	}
	t.Elapsed += dt
	if t.Elapsed > t.Period {
		t.Elapsed = t.Period
	}
}

// IsOver reports whether the countdown has finished.
func (t *Timer) IsOver() bool {
	return t.Elapsed >= t.Period-timerEpsilon
}

// Reset restarts the countdown at zero elapsed.
func (t *Timer) Reset() {
	t.Elapsed = 0
}

// ResetWithPeriod restarts the countdown with a new period.
func (t *Timer) ResetWithPeriod(period float64) {
	t.Period = period
	t.Elapsed = 0
}

// Remaining returns the time left before the timer is over.
func (t *Timer) Remaining() float64 {
	r := t.Period - t.Elapsed
	if r < 0 {
		return 0
	}
	return r
}

// Ratio returns elapsed/period in [0, 1]. A zero-period timer is always 1.
func (t *Timer) Ratio() float64 {
	if t.Period <= 0 {
		return 1
	}
	return t.Elapsed / t.Period
}
