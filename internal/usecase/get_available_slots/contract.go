package get_available_slots

import (
	"context"
	"iter"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// ScheduleReader источник дневного расписания мастера
type ScheduleReader interface {
	GetDailySchedule(ctx context.Context, providerID int64, date time.Time) (domain.DailySchedule, error)
}

// ServiceResolver возвращает услугу с параметрами мастера (длительность, цена)
// Проверяет существование мастера и то, что он оказывает услугу
type ServiceResolver interface {
	ResolveForProvider(ctx context.Context, providerID, serviceID int64) (*domain.EffectiveService, error)
}

// SlotGenerator генератор свободных слотов (scheduling.Generator)
type SlotGenerator interface {
	Available(date time.Time, durationMinutes int, schedule domain.DailySchedule) iter.Seq[types.TimeString]
	Hours() domain.BusinessHours
}

// Metrics метрики выдачи слотов
type Metrics interface {
	SlotsReturned(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
