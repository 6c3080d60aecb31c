package update_provider_services

import "github.com/m04kA/SMC-SalonScheduler/internal/service/catalog/models"

// UpdateProviderServicesRequest HTTP request model
type UpdateProviderServicesRequest struct {
	Services []models.ProviderServiceItem `json:"services"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateProviderServicesRequest) ToServiceRequest(userID, providerID int64) *models.UpdateProviderServicesRequest {
	return &models.UpdateProviderServicesRequest{
		UserID:     userID,
		ProviderID: providerID,
		Services:   r.Services,
	}
}
