package domain

import "time"

// Interval is a half-open time interval [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds [start, start+durationMinutes)
func NewInterval(start time.Time, durationMinutes int) Interval {
	return Interval{Start: start, End: start.Add(time.Duration(durationMinutes) * time.Minute)}
}

// Overlaps reports whether two half-open intervals share any instant.
// Back-to-back intervals (a.End == b.Start) do not overlap.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// Duration returns the interval length
func (a Interval) Duration() time.Duration {
	return a.End.Sub(a.Start)
}
