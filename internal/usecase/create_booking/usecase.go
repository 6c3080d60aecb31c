package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/booking"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo BookingRepository
	guard       ConflictGuard
	services    ServiceResolver
	locker      ProviderLocker
	txManager   TransactionManager
	events      EventPublisher
	metrics     Metrics
	hours       domain.BusinessHours
	lockWait    time.Duration
	clock       Clock
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
// lockWait ограничивает ожидание блокировки мастера (0 - ждать до отмены контекста запроса)
func NewUseCase(
	bookingRepo BookingRepository,
	guard ConflictGuard,
	services ServiceResolver,
	locker ProviderLocker,
	txManager TransactionManager,
	events EventPublisher,
	metrics Metrics,
	hours domain.BusinessHours,
	lockWait time.Duration,
	clock Clock,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		guard:       guard,
		services:    services,
		locker:      locker,
		txManager:   txManager,
		events:      events,
		metrics:     metrics,
		hours:       hours,
		lockWait:    lockWait,
		clock:       clock,
		logger:      logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка пересечений и вставка атомарны для мастера: блокировка по ключу мастера,
// SERIALIZABLE транзакция с advisory lock и exclusion constraint в БД
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, provider=%d, service=%d, start=%s",
		req.CustomerID, req.ProviderID, req.ServiceID, req.StartAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Услуга в исполнении мастера (длительность и цена)
	service, err := uc.services.ResolveForProvider(ctx, req.ProviderID, req.ServiceID)
	if err != nil {
		uc.logger.Warn("CreateBooking: cannot resolve service=%d for provider=%d: %v", req.ServiceID, req.ProviderID, err)
		return nil, err
	}

	// 3. Время и рабочее окно
	if err := validateTiming(req.StartAt, service.DurationMinutes, uc.clock.Now(), uc.hours); err != nil {
		uc.logger.Warn("CreateBooking: timing validation failed: %v", err)
		return nil, err
	}

	// 4. Блокировка мастера
	unlock, err := uc.lockProvider(ctx, req.ProviderID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to lock provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to lock provider: %v", ErrInternal, err)
	}
	defer unlock()

	booking := &domain.Booking{
		CustomerID:      req.CustomerID,
		ProviderID:      req.ProviderID,
		ServiceID:       req.ServiceID,
		StartAt:         req.StartAt,
		DurationMinutes: service.DurationMinutes,
		Status:          domain.StatusPending,
		ServiceName:     service.Name,
		Price:           service.Price,
		Notes:           req.Notes,
	}

	var result *domain.Booking

	// 5. Проверка и вставка в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.bookingRepo.LockProvider(txCtx, req.ProviderID); err != nil {
			uc.logger.Error("CreateBooking: advisory lock failed for provider=%d: %v", req.ProviderID, err)
			return fmt.Errorf("%w: failed to lock provider: %w", ErrInternal, err)
		}

		conflict, err := uc.guard.HasConflict(txCtx, req.ProviderID, req.StartAt, service.DurationMinutes, nil)
		if err != nil {
			uc.logger.Error("CreateBooking: conflict check failed: %v", err)
			return fmt.Errorf("%w: conflict check failed: %w", ErrInternal, err)
		}
		if conflict {
			uc.metrics.BookingConflict(conflictSourceGuard)
			return ErrSlotUnavailable
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotOverlap) {
				uc.metrics.BookingConflict(conflictSourceConstraint)
				return ErrSlotUnavailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotUnavailable):
			uc.logger.Warn("CreateBooking: provider=%d is busy at %s", req.ProviderID, req.StartAt.Format(time.RFC3339))
			return nil, err
		case errors.Is(err, domain.ErrStorage):
			return nil, err
		default:
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
		}
	}

	uc.metrics.BookingCreated()
	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	if err := uc.events.BookingCreated(ctx, result); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for booking id=%d: %v", result.ID, err)
	}

	return &Response{Booking: result}, nil
}

func (uc *UseCase) lockProvider(ctx context.Context, providerID int64) (func(), error) {
	lockCtx := ctx
	if uc.lockWait > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, uc.lockWait)
		defer cancel()
	}
	return uc.locker.Lock(lockCtx, fmt.Sprintf("provider:%d", providerID))
}
