package domain

// Service catalog entry
type Service struct {
	ID              int64
	Name            string
	Category        string
	Description     string
	DurationMinutes int
	BasePrice       float64
	IsActive        bool
}

// ProviderService provider-level settings for a catalog service.
// Nil Price/DurationMinutes mean "use the catalog value".
type ProviderService struct {
	ProviderID      int64
	ServiceID       int64
	Price           *float64
	DurationMinutes *int
	IsEnabled       bool
}

// EffectiveService service as offered by a concrete provider
type EffectiveService struct {
	ServiceID       int64
	ProviderID      int64
	Name            string
	DurationMinutes int
	Price           float64
	IsEnabled       bool
}

// ResolveService applies provider settings on top of the catalog entry
// (provider override -> catalog base). A nil override means the provider
// offers the service with catalog values.
func ResolveService(providerID int64, service *Service, override *ProviderService) EffectiveService {
	eff := EffectiveService{
		ServiceID:       service.ID,
		ProviderID:      providerID,
		Name:            service.Name,
		DurationMinutes: service.DurationMinutes,
		Price:           service.BasePrice,
		IsEnabled:       service.IsActive,
	}
	if override == nil {
		return eff
	}
	if override.DurationMinutes != nil {
		eff.DurationMinutes = *override.DurationMinutes
	}
	if override.Price != nil {
		eff.Price = *override.Price
	}
	eff.IsEnabled = eff.IsEnabled && override.IsEnabled
	return eff
}
