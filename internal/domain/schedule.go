package domain

import "time"

// ScheduledBooking one entry of a provider's daily schedule
type ScheduledBooking struct {
	BookingID       int64
	StartAt         time.Time
	DurationMinutes int
}

// Interval returns the occupied interval
func (s ScheduledBooking) Interval() Interval {
	return NewInterval(s.StartAt, s.DurationMinutes)
}

// DailySchedule non-cancelled bookings of one provider on one date.
// Order is irrelevant; it is always read fresh from storage.
type DailySchedule []ScheduledBooking

// Conflicts reports whether candidate overlaps any entry except excludeID.
// Stops at the first overlap.
func (s DailySchedule) Conflicts(candidate Interval, excludeID *int64) bool {
	for _, entry := range s {
		if excludeID != nil && entry.BookingID == *excludeID {
			continue
		}
		if candidate.Overlaps(entry.Interval()) {
			return true
		}
	}
	return false
}
