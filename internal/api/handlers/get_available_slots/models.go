package get_available_slots

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SalonScheduler/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string             `json:"date"`
	ProviderID      int64              `json:"providerId"`
	ServiceID       int64              `json:"serviceId"`
	DurationMinutes int                `json:"durationMinutes"`
	Price           float64            `json:"price"`
	Slots           []types.TimeString `json:"slots"` // ["11:00", "11:30", ...]
}

// ToUseCaseRequest создает запрос use case из пути и query параметров
func ToUseCaseRequest(r *http.Request, loc *time.Location) (*getAvailableSlots.Request, error) {
	providerID, err := handlers.PathID(r, "providerId")
	if err != nil {
		return nil, err
	}

	serviceID, err := handlers.QueryID(r, "serviceId")
	if err != nil {
		return nil, err
	}

	date, err := handlers.ParseDate(r.URL.Query().Get("date"), loc)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		ProviderID: providerID,
		ServiceID:  serviceID,
		Date:       date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := resp.Slots
	if slots == nil {
		slots = []types.TimeString{}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		ProviderID:      resp.ProviderID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Price:           resp.Price,
		Slots:           slots,
	}
}
