package utils

import "time"

type Timer struct {
	start time.Time
	last  time.Time
}

func NewTimer() *Timer {
	now := time.Now()
	return &Timer{start: now, last: now}
}

// Elapsed is the time since the timer was created.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start).Round(time.Millisecond)
}

// Lap is the time since the previous Lap (or creation), for per-phase timings.
func (t *Timer) Lap() time.Duration {
	now := time.Now()
	d := now.Sub(t.last).Round(time.Millisecond)
	t.last = now
	return d
}
