package get_available_slots

import (
	"context"
	"fmt"
	"slices"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	schedules ScheduleReader
	services  ServiceResolver
	generator SlotGenerator
	metrics   Metrics
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	schedules ScheduleReader,
	services ServiceResolver,
	generator SlotGenerator,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		schedules: schedules,
		services:  services,
		generator: generator,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Длительность берется из настроек мастера (или каталога), расписание читается заново при каждом запросе
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: provider=%d, service=%d, date=%s",
		req.ProviderID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	day := uc.generator.Hours().Day(req.Date)

	// 2. Услуга в исполнении мастера
	service, err := uc.services.ResolveForProvider(ctx, req.ProviderID, req.ServiceID)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: cannot resolve service=%d for provider=%d: %v", req.ServiceID, req.ProviderID, err)
		return nil, err
	}

	// 3. Расписание мастера на день
	schedule, err := uc.schedules.GetDailySchedule(ctx, req.ProviderID, day)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get schedule for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	// 4. Свободные слоты
	slots := slices.Collect(uc.generator.Available(day, service.DurationMinutes, schedule))
	uc.metrics.SlotsReturned(len(slots))

	uc.logger.Info("GetAvailableSlots: %d free slots for provider=%d on %s (booked=%d, duration=%d)",
		len(slots), req.ProviderID, day.Format(domain.DateFormat), len(schedule), service.DurationMinutes)

	return &Response{
		Date:            day,
		ProviderID:      req.ProviderID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Price:           service.Price,
		Slots:           slots,
	}, nil
}
