package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/catalog"
	staffClient "github.com/m04kA/SMC-SalonScheduler/internal/integrations/staffservice"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/catalog/models"
)

// Service сервис каталога услуг и настроек мастеров
type Service struct {
	catalogRepo CatalogRepository
	providers   ProviderDirectory
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	catalogRepo CatalogRepository,
	providers ProviderDirectory,
	logger Logger,
) *Service {
	return &Service{
		catalogRepo: catalogRepo,
		providers:   providers,
		logger:      logger,
	}
}

// ListServices возвращает активные услуги каталога
// Публичный метод - доступен всем
func (s *Service) ListServices(ctx context.Context) (*models.ServiceListResponse, error) {
	services, err := s.catalogRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("ListServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListServices: fetched %d services", len(services))
	return models.FromDomainServiceList(services), nil
}

// GetProviderServices возвращает активные услуги каталога в исполнении мастера
// (с учетом его цен, длительностей и отключенных услуг)
func (s *Service) GetProviderServices(ctx context.Context, providerID int64) (*models.ProviderServicesResponse, error) {
	s.logger.Info("GetProviderServices: provider=%d", providerID)

	if err := s.ensureProvider(ctx, providerID); err != nil {
		return nil, err
	}

	services, err := s.catalogRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("GetProviderServices: failed to list services: %v", err)
		return nil, fmt.Errorf("%w: GetProviderServices - list services: %v", ErrInternal, err)
	}

	overrides, err := s.catalogRepo.GetProviderServices(ctx, providerID)
	if err != nil {
		s.logger.Error("GetProviderServices: failed to get provider settings: %v", err)
		return nil, fmt.Errorf("%w: GetProviderServices - provider settings: %v", ErrInternal, err)
	}

	byService := make(map[int64]*domain.ProviderService, len(overrides))
	for _, o := range overrides {
		byService[o.ServiceID] = o
	}

	resp := &models.ProviderServicesResponse{
		ProviderID: providerID,
		Services:   make([]models.ProviderServiceResponse, 0, len(services)),
	}
	for _, svc := range services {
		override, customized := byService[svc.ID]
		resp.Services = append(resp.Services, models.FromEffectiveService(domain.ResolveService(providerID, svc, override), customized))
	}

	return resp, nil
}

// UpdateProviderServices пакетно сохраняет настройки услуг мастера
// Менять настройки может только сам мастер
func (s *Service) UpdateProviderServices(ctx context.Context, req *models.UpdateProviderServicesRequest) (*models.ProviderServicesResponse, error) {
	s.logger.Info("UpdateProviderServices: provider=%d, items=%d by user=%d",
		req.ProviderID, len(req.Services), req.UserID)

	if req.UserID != req.ProviderID {
		s.logger.Warn("UpdateProviderServices: user=%d is not provider=%d", req.UserID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	if err := validateItems(req.Services); err != nil {
		s.logger.Warn("UpdateProviderServices: validation failed: %v", err)
		return nil, err
	}

	if err := s.ensureProvider(ctx, req.ProviderID); err != nil {
		return nil, err
	}

	if err := s.catalogRepo.UpsertProviderServices(ctx, req.ToDomain()); err != nil {
		if errors.Is(err, catalogRepo.ErrUnknownService) {
			s.logger.Warn("UpdateProviderServices: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		s.logger.Error("UpdateProviderServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateProviderServices - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateProviderServices: saved %d items for provider=%d", len(req.Services), req.ProviderID)
	return s.GetProviderServices(ctx, req.ProviderID)
}

// ResolveForProvider возвращает услугу с параметрами конкретного мастера
// Порядок: настройки мастера -> каталог. Отключенная услуга считается отсутствующей
func (s *Service) ResolveForProvider(ctx context.Context, providerID, serviceID int64) (*domain.EffectiveService, error) {
	if err := s.ensureProvider(ctx, providerID); err != nil {
		return nil, err
	}

	service, err := s.catalogRepo.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("ResolveForProvider: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("ResolveForProvider: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: ResolveForProvider - get service: %v", ErrInternal, err)
	}

	override, err := s.catalogRepo.GetProviderService(ctx, providerID, serviceID)
	if err != nil && !errors.Is(err, catalogRepo.ErrProviderServiceNotFound) {
		s.logger.Error("ResolveForProvider: failed to get provider settings: %v", err)
		return nil, fmt.Errorf("%w: ResolveForProvider - provider settings: %v", ErrInternal, err)
	}

	effective := domain.ResolveService(providerID, service, override)
	if !effective.IsEnabled {
		s.logger.Warn("ResolveForProvider: service id=%d is not offered by provider=%d", serviceID, providerID)
		return nil, ErrServiceNotOffered
	}

	return &effective, nil
}

func (s *Service) ensureProvider(ctx context.Context, providerID int64) error {
	err := s.providers.EnsureActiveProvider(ctx, providerID)
	if err == nil {
		return nil
	}
	if errors.Is(err, staffClient.ErrProviderNotFound) {
		return ErrProviderNotFound
	}
	return fmt.Errorf("%w: staff service: %v", ErrInternal, err)
}

// validateItems проверяет пакет настроек
func validateItems(items []models.ProviderServiceItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: services list is empty", ErrInvalidInput)
	}

	seen := make(map[int64]struct{}, len(items))
	for i, item := range items {
		if item.ServiceID <= 0 {
			return fmt.Errorf("%w: services[%d]: serviceId must be positive", ErrInvalidInput, i)
		}
		if _, dup := seen[item.ServiceID]; dup {
			return fmt.Errorf("%w: services[%d]: duplicate serviceId %d", ErrInvalidInput, i, item.ServiceID)
		}
		seen[item.ServiceID] = struct{}{}

		if item.Price != nil && *item.Price < 0 {
			return fmt.Errorf("%w: services[%d]: price must not be negative", ErrInvalidInput, i)
		}
		if item.DurationMinutes != nil {
			d := *item.DurationMinutes
			if d < domain.MinServiceDurationMinutes || d > domain.MaxServiceDurationMinutes {
				return fmt.Errorf("%w: services[%d]: durationMinutes must be between %d and %d",
					ErrInvalidInput, i, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
			}
		}
	}
	return nil
}
