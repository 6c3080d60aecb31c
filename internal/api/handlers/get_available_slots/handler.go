package get_available_slots

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
)

type Handler struct {
	useCase  GetAvailableSlotsUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/available-slots
// Query params: serviceId (required), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	useCaseReq, err := ToUseCaseRequest(r, h.location)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/available-slots - Invalid request: %v", err)
		handlers.RespondDomainError(w, err)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.IsClientError(err) {
			h.logger.Warn("GET /providers/{id}/available-slots - provider_id=%d, service_id=%d: %v",
				useCaseReq.ProviderID, useCaseReq.ServiceID, err)
		} else {
			h.logger.Error("GET /providers/{id}/available-slots - Failed to get slots: provider_id=%d, service_id=%d, error=%v",
				useCaseReq.ProviderID, useCaseReq.ServiceID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /providers/{id}/available-slots - Slots retrieved successfully: provider_id=%d, service_id=%d, slots_count=%d",
		result.ProviderID, result.ServiceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
