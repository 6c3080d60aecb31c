package get_provider_services

import (
	"net/http"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/services
// Публичный: клиенты видят цены и длительности мастера
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, err := handlers.PathID(r, "providerId")
	if err != nil {
		h.logger.Warn("GET /providers/{id}/services - Invalid provider ID: %v", err)
		handlers.RespondDomainError(w, err)
		return
	}

	result, err := h.service.GetProviderServices(r.Context(), providerID)
	if err != nil {
		if handlers.IsClientError(err) {
			h.logger.Warn("GET /providers/{id}/services - provider_id=%d: %v", providerID, err)
		} else {
			h.logger.Error("GET /providers/{id}/services - Failed to get services: provider_id=%d, error=%v", providerID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /providers/{id}/services - Services retrieved: provider_id=%d, count=%d",
		providerID, len(result.Services))
	handlers.RespondJSON(w, http.StatusOK, result)
}
