package get_provider_bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "расписание доступно только самому мастеру"
)

type Handler struct {
	service  BookingService
	location *time.Location
	logger   Logger
}

func NewHandler(service BookingService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/bookings
// Query params: date (YYYY-MM-DD), status, includeCancelled (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /providers/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq, err := ToServiceRequest(r, userID, h.location)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondDomainError(w, err)
		return
	}

	result, err := h.service.GetProviderBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /providers/{id}/bookings - Access denied: provider_id=%d, user_id=%d",
				serviceReq.ProviderID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case handlers.IsClientError(err):
			h.logger.Warn("GET /providers/{id}/bookings - provider_id=%d: %v", serviceReq.ProviderID, err)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("GET /providers/{id}/bookings - Failed to get bookings: provider_id=%d, error=%v",
				serviceReq.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/{id}/bookings - Bookings retrieved successfully: provider_id=%d, count=%d",
		serviceReq.ProviderID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
