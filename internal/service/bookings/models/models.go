package models

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// Request модели

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	UserID int64  `json:"-"`
	Status string `json:"status"`
}

// GetCustomerBookingsRequest запрос истории бронирований клиента
type GetCustomerBookingsRequest struct {
	UserID     int64
	CustomerID int64
	Status     *string // Фильтр по статусу (опционально)
}

// GetProviderBookingsRequest запрос расписания мастера
type GetProviderBookingsRequest struct {
	UserID           int64
	ProviderID       int64
	Date             *time.Time // Полночь дня в часовом поясе салона (опционально)
	Status           *string
	IncludeCancelled bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetProviderBookingsRequest) ToDomainFilter() (domain.ProviderBookingsFilter, error) {
	filter := domain.ProviderBookingsFilter{
		ProviderID:       r.ProviderID,
		Date:             r.Date,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Status != nil {
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64     `json:"id"`
	CustomerID      int64     `json:"customerId"`
	ProviderID      int64     `json:"providerId"`
	ServiceID       int64     `json:"serviceId"`
	Date            string    `json:"date"`      // "2026-10-20"
	StartTime       string    `json:"startTime"` // "14:00"
	EndTime         string    `json:"endTime"`   // "15:00"
	StartAt         time.Time `json:"startAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`

	// Снимок услуги на момент записи
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"`
	Notes       *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO; время показывается в часовом поясе салона
func FromDomainBooking(b *domain.Booking, loc *time.Location) *BookingResponse {
	if b == nil {
		return nil
	}

	start := b.StartAt.In(loc)
	end := b.EndAt().In(loc)

	return &BookingResponse{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		ProviderID:      b.ProviderID,
		ServiceID:       b.ServiceID,
		Date:            start.Format(domain.DateFormat),
		StartTime:       start.Format(domain.TimeFormat),
		EndTime:         end.Format(domain.TimeFormat),
		StartAt:         start,
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		ServiceName:     b.ServiceName,
		Price:           b.Price,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, loc *time.Location) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking, loc); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
