package models

import (
	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// Request модели

// ProviderServiceItem настройки одной услуги; nil поля означают значение из каталога
type ProviderServiceItem struct {
	ServiceID       int64    `json:"serviceId"`
	Price           *float64 `json:"price,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	IsEnabled       *bool    `json:"isEnabled,omitempty"` // nil = true
}

// UpdateProviderServicesRequest пакетное обновление настроек услуг мастера
type UpdateProviderServicesRequest struct {
	UserID     int64                 `json:"-"`
	ProviderID int64                 `json:"-"`
	Services   []ProviderServiceItem `json:"services"`
}

// ToDomain конвертирует пакет в domain модели
func (r *UpdateProviderServicesRequest) ToDomain() []domain.ProviderService {
	items := make([]domain.ProviderService, len(r.Services))
	for i, item := range r.Services {
		enabled := true
		if item.IsEnabled != nil {
			enabled = *item.IsEnabled
		}
		items[i] = domain.ProviderService{
			ProviderID:      r.ProviderID,
			ServiceID:       item.ServiceID,
			Price:           item.Price,
			DurationMinutes: item.DurationMinutes,
			IsEnabled:       enabled,
		}
	}
	return items
}

// Response модели

// ServiceResponse услуга каталога
type ServiceResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category,omitempty"`
	Description     string  `json:"description,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	BasePrice       float64 `json:"basePrice"`
}

// ServiceListResponse список услуг каталога
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// ProviderServiceResponse услуга в исполнении мастера
type ProviderServiceResponse struct {
	ServiceID       int64   `json:"serviceId"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	IsEnabled       bool    `json:"isEnabled"`
	IsCustomized    bool    `json:"isCustomized"` // у мастера есть собственные настройки
}

// ProviderServicesResponse список услуг мастера
type ProviderServicesResponse struct {
	ProviderID int64                     `json:"providerId"`
	Services   []ProviderServiceResponse `json:"services"`
}

// Методы конвертации

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Category:        s.Category,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		BasePrice:       s.BasePrice,
	}
}

// FromDomainServiceList конвертирует список domain моделей в DTO
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{Services: make([]ServiceResponse, 0, len(services))}
	for _, s := range services {
		resp.Services = append(resp.Services, FromDomainService(s))
	}
	return resp
}

// FromEffectiveService конвертирует итоговую услугу мастера в DTO
func FromEffectiveService(e domain.EffectiveService, customized bool) ProviderServiceResponse {
	return ProviderServiceResponse{
		ServiceID:       e.ServiceID,
		Name:            e.Name,
		DurationMinutes: e.DurationMinutes,
		Price:           e.Price,
		IsEnabled:       e.IsEnabled,
		IsCustomized:    customized,
	}
}
