package create_booking

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerId must be positive", ErrInvalidInput)
	}

	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerId must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateTiming проверяет, что интервал в будущем и помещается в рабочее окно дня
func validateTiming(start time.Time, durationMinutes int, now time.Time, hours domain.BusinessHours) error {
	if start.Before(now) {
		return fmt.Errorf("%w: start=%s, now=%s", ErrStartInPast,
			start.In(hours.Location).Format(time.DateTime), now.In(hours.Location).Format(time.DateTime))
	}

	if !hours.Contains(start, durationMinutes) {
		return fmt.Errorf("%w: %s + %d min does not fit %s-%s", ErrOutsideBusinessHours,
			start.In(hours.Location).Format(domain.TimeFormat), durationMinutes, hours.Open, hours.Close)
	}

	return nil
}
