package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-SalonScheduler/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ProviderID int64   `json:"providerId"`
	ServiceID  int64   `json:"serviceId"`
	Date       string  `json:"date"` // "2026-10-20"
	Time       string  `json:"time"` // "14:00" или "14:00:00"
	Notes      *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Дата и время склеиваются и разбираются здесь один раз; дальше ядро работает с time.Time
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64, loc *time.Location) (*createBooking.Request, error) {
	startAt, err := types.ParseTimestamp(r.StartAt(), loc)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		CustomerID: customerID,
		ProviderID: r.ProviderID,
		ServiceID:  r.ServiceID,
		StartAt:    startAt,
		Notes:      r.Notes,
	}, nil
}

// StartAt собирает "YYYY-MM-DD HH:MM[:SS]" из полей date и time
func (r *CreateBookingRequest) StartAt() string {
	return r.Date + " " + r.Time
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response, loc *time.Location) *models.BookingResponse {
	return models.FromDomainBooking(resp.Booking, loc)
}
