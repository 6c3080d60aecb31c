package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	LockProvider(ctx context.Context, providerID int64) error
}

// ConflictGuard проверка пересечения с расписанием мастера (scheduling.ConflictGuard)
type ConflictGuard interface {
	HasConflict(ctx context.Context, providerID int64, start time.Time, durationMinutes int, excludeID *int64) (bool, error)
}

// ServiceResolver возвращает услугу с параметрами мастера
type ServiceResolver interface {
	ResolveForProvider(ctx context.Context, providerID, serviceID int64) (*domain.EffectiveService, error)
}

// ProviderLocker блокировка мастера на время проверки и вставки (keylock.Local или keylock.Redis)
type ProviderLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикация событий о бронированиях
type EventPublisher interface {
	BookingCreated(ctx context.Context, booking *domain.Booking) error
}

// Metrics метрики создания бронирований
type Metrics interface {
	BookingCreated()
	BookingConflict(source string)
}

// Clock источник текущего времени
type Clock interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
