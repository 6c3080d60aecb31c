package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

const (
	activeServicesKey = "services:active"
)

// CachedRepository кэширует чтения каталога в памяти процесса
// Настройки мастеров сбрасываются из кэша при UpsertProviderServices этого же инстанса;
// изменения с других инстансов становятся видны не позже ttl
type CachedRepository struct {
	*Repository
	store *cache.Cache
	ttl   time.Duration
}

// NewCachedRepository оборачивает repo кэшем go-cache
func NewCachedRepository(repo *Repository, ttl, cleanupInterval time.Duration) *CachedRepository {
	return &CachedRepository{
		Repository: repo,
		store:      cache.New(ttl, cleanupInterval),
		ttl:        ttl,
	}
}

// ListActive возвращает активные услуги из кэша или из БД
func (c *CachedRepository) ListActive(ctx context.Context) ([]*domain.Service, error) {
	if cached, found := c.store.Get(activeServicesKey); found {
		return cached.([]*domain.Service), nil
	}

	services, err := c.Repository.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	c.store.Set(activeServicesKey, services, c.ttl)
	return services, nil
}

// GetService возвращает услугу из кэша или из БД
// Отсутствие услуги не кэшируется
func (c *CachedRepository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	key := serviceKey(id)
	if cached, found := c.store.Get(key); found {
		return cached.(*domain.Service), nil
	}

	service, err := c.Repository.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store.Set(key, service, c.ttl)
	return service, nil
}

// GetProviderServices возвращает настройки мастера из кэша или из БД
func (c *CachedRepository) GetProviderServices(ctx context.Context, providerID int64) ([]*domain.ProviderService, error) {
	key := providerServicesKey(providerID)
	if cached, found := c.store.Get(key); found {
		return cached.([]*domain.ProviderService), nil
	}

	items, err := c.Repository.GetProviderServices(ctx, providerID)
	if err != nil {
		return nil, err
	}

	c.store.Set(key, items, c.ttl)
	return items, nil
}

// GetProviderService ищет настройку в закэшированном списке мастера
func (c *CachedRepository) GetProviderService(ctx context.Context, providerID, serviceID int64) (*domain.ProviderService, error) {
	items, err := c.GetProviderServices(ctx, providerID)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if item.ServiceID == serviceID {
			return item, nil
		}
	}
	return nil, ErrProviderServiceNotFound
}

// UpsertProviderServices пишет в БД и сбрасывает кэш затронутых мастеров
func (c *CachedRepository) UpsertProviderServices(ctx context.Context, items []domain.ProviderService) error {
	if err := c.Repository.UpsertProviderServices(ctx, items); err != nil {
		return err
	}

	for _, item := range items {
		c.store.Delete(providerServicesKey(item.ProviderID))
	}
	return nil
}

func serviceKey(id int64) string {
	return fmt.Sprintf("service:%d", id)
}

func providerServicesKey(providerID int64) string {
	return fmt.Sprintf("provider:%d:services", providerID)
}
