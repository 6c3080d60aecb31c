package get_provider_bookings

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings/models"
)

// ToServiceRequest создает запрос к сервису из пути и query параметров
func ToServiceRequest(r *http.Request, userID int64, loc *time.Location) (*models.GetProviderBookingsRequest, error) {
	providerID, err := handlers.PathID(r, "providerId")
	if err != nil {
		return nil, err
	}

	query := r.URL.Query()
	req := &models.GetProviderBookingsRequest{
		UserID:     userID,
		ProviderID: providerID,
		Status:     handlers.OptionalString(query.Get("status")),
	}

	if raw := query.Get("date"); raw != "" {
		date, err := handlers.ParseDate(raw, loc)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	req.IncludeCancelled, err = handlers.ParseBool(query.Get("includeCancelled"), "includeCancelled")
	if err != nil {
		return nil, err
	}

	return req, nil
}
