package domain

import "fmt"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// AllStatuses every status a stored booking can have
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCancelled,
	StatusCompleted,
}

// ParseBookingStatus converts a raw string into a known status (used by filters)
func ParseBookingStatus(s string) (BookingStatus, error) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown booking status %q", ErrValidation, s)
}

// IsTerminal returns true for statuses that allow no further transitions
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// IsActive returns true if the booking occupies its interval in the schedule
func (s BookingStatus) IsActive() bool {
	return s != StatusCancelled
}

// TargetStatus is a status an explicit status update may move a booking to.
// Values exist only for confirmed, cancelled and completed, so "pending" can
// never be requested as a target.
type TargetStatus struct {
	status BookingStatus
}

var (
	TargetConfirmed = TargetStatus{status: StatusConfirmed}
	TargetCancelled = TargetStatus{status: StatusCancelled}
	TargetCompleted = TargetStatus{status: StatusCompleted}
)

// ParseTargetStatus validates a requested target status
func ParseTargetStatus(s string) (TargetStatus, error) {
	switch BookingStatus(s) {
	case StatusConfirmed:
		return TargetConfirmed, nil
	case StatusCancelled:
		return TargetCancelled, nil
	case StatusCompleted:
		return TargetCompleted, nil
	default:
		return TargetStatus{}, fmt.Errorf("%w: %q is not an allowed target status", ErrInvalidState, s)
	}
}

// Status returns the underlying booking status
func (t TargetStatus) Status() BookingStatus {
	return t.status
}

func (t TargetStatus) String() string {
	return string(t.status)
}

// IsZero returns true for an uninitialised target
func (t TargetStatus) IsZero() bool {
	return t.status == ""
}

// Transition validates moving from the current status to target.
// pending -> confirmed | cancelled | completed, confirmed -> cancelled | completed.
// cancelled and completed are final.
func (s BookingStatus) Transition(target TargetStatus) (BookingStatus, error) {
	if target.IsZero() {
		return s, fmt.Errorf("%w: empty target status", ErrInvalidState)
	}
	if s.IsTerminal() || s == target.status {
		return s, fmt.Errorf("%w: cannot move booking from %s to %s", ErrInvalidState, s, target)
	}
	return target.status, nil
}
