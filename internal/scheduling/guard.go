package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// ErrScheduleUnavailable не удалось прочитать дневное расписание
var ErrScheduleUnavailable = errors.New("scheduling: failed to read daily schedule")

// ConflictGuard решает, пересекается ли предлагаемый интервал с бронированиями мастера
// Через него проходит каждое создание бронирования. Сам по себе он только читает;
// атомарность проверки и вставки обеспечивает вызывающий код (транзакция + блокировка мастера)
type ConflictGuard struct {
	schedules ScheduleReader
	location  *time.Location
}

// NewConflictGuard создает ConflictGuard; location определяет календарную дату начала интервала
func NewConflictGuard(schedules ScheduleReader, location *time.Location) *ConflictGuard {
	return &ConflictGuard{schedules: schedules, location: location}
}

// HasConflict проверяет [start, start+duration) против расписания мастера на дату start
// excludeID пропускает одно бронирование (повторная проверка редактируемой записи)
func (g *ConflictGuard) HasConflict(
	ctx context.Context,
	providerID int64,
	start time.Time,
	durationMinutes int,
	excludeID *int64,
) (bool, error) {
	if durationMinutes <= 0 {
		return false, fmt.Errorf("%w: duration must be positive, got %d", domain.ErrValidation, durationMinutes)
	}
	if start.IsZero() {
		return false, fmt.Errorf("%w: start time is required", domain.ErrValidation)
	}

	schedule, err := g.schedules.GetDailySchedule(ctx, providerID, g.dateOf(start))
	if err != nil {
		return false, fmt.Errorf("%w: provider=%d: %w", ErrScheduleUnavailable, providerID, err)
	}

	return schedule.Conflicts(domain.NewInterval(start, durationMinutes), excludeID), nil
}

func (g *ConflictGuard) dateOf(t time.Time) time.Time {
	local := t.In(g.location)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, g.location)
}
