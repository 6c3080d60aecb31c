package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings/models"
)

// Service сервис для чтения бронирований и смены их статуса
type Service struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	events      EventPublisher
	metrics     Metrics
	location    *time.Location
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	events EventPublisher,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		events:      events,
		metrics:     metrics,
		location:    location,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Видеть бронирование могут только его клиент и мастер
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !booking.InvolvesUser(userID) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking, s.location), nil
}

// GetCustomerBookings получает историю бронирований клиента (новые первыми)
// Опционально фильтрует по статусу
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d, status=%v", req.CustomerID, req.Status)

	if req.UserID != req.CustomerID {
		s.logger.Warn("GetCustomerBookings: user=%d requested history of customer=%d", req.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	filter := domain.CustomerBookingsFilter{CustomerID: req.CustomerID}
	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.GetByCustomer(ctx, filter)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: fetched %d bookings for customer=%d", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings, s.location), nil
}

// GetProviderBookings получает бронирования мастера, упорядоченные по времени начала
// Отмененные включаются только по запросу. Доступно только самому мастеру
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetProviderBookings: fetching bookings for provider=%d, user=%d, includeCancelled=%t",
		req.ProviderID, req.UserID, req.IncludeCancelled)

	if req.UserID != req.ProviderID {
		s.logger.Warn("GetProviderBookings: user=%d is not provider=%d", req.UserID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProviderBookings: invalid filter for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetByProvider(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderBookings: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProviderBookings: fetched %d bookings for provider=%d", len(bookings), req.ProviderID)
	return models.FromDomainBookingList(bookings, s.location), nil
}

// UpdateStatus переводит бронирование: pending -> confirmed|cancelled|completed, confirmed -> cancelled|completed
// Мастер может выставить любой из этих статусов, клиент - только отменить свою запись.
// Чтение, проверка перехода и запись выполняются в одной транзакции под блокировкой строки
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: booking id=%d to status=%s by user=%d", bookingID, req.Status, req.UserID)

	target, err := domain.ParseTargetStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: rejected target status=%q: %v", req.Status, err)
		return nil, err
	}

	var (
		updated  *domain.Booking
		previous domain.BookingStatus
	)

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByIDForUpdate(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: UpdateStatus - get booking: %v", ErrInternal, err)
		}

		if !canSetStatus(booking, req.UserID, target) {
			s.logger.Warn("UpdateStatus: user=%d may not set %s on booking id=%d", req.UserID, target, bookingID)
			return ErrAccessDenied
		}

		next, err := booking.Status.Transition(target)
		if err != nil {
			s.logger.Warn("UpdateStatus: booking id=%d: %v", bookingID, err)
			return err
		}

		previous = booking.Status
		updated, err = s.bookingRepo.UpdateStatus(txCtx, bookingID, next)
		if err != nil {
			s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: UpdateStatus - update: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StatusTransition(string(updated.Status))
	if err := s.events.BookingStatusChanged(ctx, updated, previous); err != nil {
		s.logger.Error("UpdateStatus: failed to publish event for booking id=%d: %v", bookingID, err)
	}

	s.logger.Info("UpdateStatus: booking id=%d moved %s -> %s", bookingID, previous, updated.Status)
	return models.FromDomainBooking(updated, s.location), nil
}

// canSetStatus проверяет права на смену статуса
func canSetStatus(booking *domain.Booking, userID int64, target domain.TargetStatus) bool {
	switch userID {
	case booking.ProviderID:
		return true
	case booking.CustomerID:
		return target == domain.TargetCancelled
	default:
		return false
	}
}
