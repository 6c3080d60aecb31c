package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// BusinessHours fixed daily window in which bookings may start and end
type BusinessHours struct {
	Open     types.TimeString
	Close    types.TimeString
	Step     time.Duration
	Location *time.Location
}

// DefaultBusinessHours 11:00-20:00, 30 minute step, in loc
func DefaultBusinessHours(loc *time.Location) BusinessHours {
	return BusinessHours{
		Open:     types.MustTimeString(DefaultOpenTime),
		Close:    types.MustTimeString(DefaultCloseTime),
		Step:     DefaultSlotStepMinutes * time.Minute,
		Location: loc,
	}
}

// Validate checks the window is non-empty and the step positive
func (h BusinessHours) Validate() error {
	if h.Open.IsZero() || h.Close.IsZero() {
		return fmt.Errorf("%w: open and close time are required", ErrValidation)
	}
	if !h.Open.IsBefore(h.Close) {
		return fmt.Errorf("%w: open time %s must be before close time %s", ErrValidation, h.Open, h.Close)
	}
	if h.Step <= 0 {
		return fmt.Errorf("%w: slot step must be positive", ErrValidation)
	}
	if h.Location == nil {
		return fmt.Errorf("%w: location is required", ErrValidation)
	}
	return nil
}

// Window returns the absolute open and close instants for the calendar date of t
func (h BusinessHours) Window(date time.Time) (openAt, closeAt time.Time) {
	day := h.Day(date)
	return h.Open.On(day), h.Close.On(day)
}

// Day returns midnight (in h.Location) of the local calendar date of t.
// Dates coming from the API are parsed in h.Location, so this is a no-op for them.
func (h BusinessHours) Day(t time.Time) time.Time {
	local := t.In(h.Location)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, h.Location)
}

// Contains reports whether [start, start+duration) fits inside the window of its own date
func (h BusinessHours) Contains(start time.Time, durationMinutes int) bool {
	openAt, closeAt := h.Window(start)
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	return !start.Before(openAt) && !end.After(closeAt)
}
