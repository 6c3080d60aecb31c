package update_provider_services

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduler/internal/service/catalog/models"
)

type CatalogService interface {
	UpdateProviderServices(ctx context.Context, req *models.UpdateProviderServicesRequest) (*models.ProviderServicesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
