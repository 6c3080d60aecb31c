package catalog

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// CatalogRepository интерфейс репозитория каталога услуг
type CatalogRepository interface {
	ListActive(ctx context.Context) ([]*domain.Service, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetProviderService(ctx context.Context, providerID, serviceID int64) (*domain.ProviderService, error)
	GetProviderServices(ctx context.Context, providerID int64) ([]*domain.ProviderService, error)
	UpsertProviderServices(ctx context.Context, items []domain.ProviderService) error
}

// ProviderDirectory справочник мастеров
type ProviderDirectory interface {
	EnsureActiveProvider(ctx context.Context, providerID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
