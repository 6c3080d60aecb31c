package scheduling

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// ScheduleReader источник дневного расписания мастера
// Возвращает только неотмененные бронирования; результат не кэшируется
type ScheduleReader interface {
	GetDailySchedule(ctx context.Context, providerID int64, date time.Time) (domain.DailySchedule, error)
}

// Clock источник текущего времени (подменяется в тестах)
type Clock interface {
	Now() time.Time
}

// SystemClock реальное время
type SystemClock struct{}

// Now возвращает текущее время
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ClockFunc адаптер функции к Clock
type ClockFunc func() time.Time

// Now вызывает f
func (f ClockFunc) Now() time.Time {
	return f()
}

// FixedClock часы, всегда возвращающие t
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
