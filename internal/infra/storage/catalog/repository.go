package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/psqlbuilder"
)

// SQLSTATE foreign_key_violation
const codeForeignKeyViolation = "23503"

var serviceColumns = []string{
	"id",
	"name",
	"category",
	"description",
	"duration_minutes",
	"base_price",
	"is_active",
}

var providerServiceColumns = []string{
	"provider_id",
	"service_id",
	"price",
	"duration_minutes",
	"is_enabled",
}

// Repository каталог услуг и настройки услуг мастеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListActive возвращает активные услуги каталога по возрастанию id
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan row: %w", ErrScanRow, err)
		}
		services = append(services, service)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - rows error: %w", ErrScanRow, err)
	}

	return services, nil
}

// GetService получает услугу каталога по ID (в том числе неактивную)
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	service, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %w", ErrScanRow, err)
	}

	return service, nil
}

// GetProviderService получает настройки услуги конкретного мастера
// Если мастер ничего не переопределял, возвращает ErrProviderServiceNotFound
func (r *Repository) GetProviderService(ctx context.Context, providerID, serviceID int64) (*domain.ProviderService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(providerServiceColumns...).
		From("provider_services").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.Eq{"service_id": serviceID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetProviderService - build select query: %v", ErrBuildQuery, err)
	}

	ps, err := scanProviderService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProviderServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetProviderService - scan row: %w", ErrScanRow, err)
	}

	return ps, nil
}

// GetProviderServices получает все настройки услуг мастера
func (r *Repository) GetProviderServices(ctx context.Context, providerID int64) ([]*domain.ProviderService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(providerServiceColumns...).
		From("provider_services").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("service_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetProviderServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetProviderServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]*domain.ProviderService, 0)
	for rows.Next() {
		ps, err := scanProviderService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetProviderServices - scan row: %w", ErrScanRow, err)
		}
		items = append(items, ps)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetProviderServices - rows error: %w", ErrScanRow, err)
	}

	return items, nil
}

// UpsertProviderServices создает или обновляет настройки услуг мастера одним запросом
func (r *Repository) UpsertProviderServices(ctx context.Context, items []domain.ProviderService) error {
	if len(items) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert("provider_services").
		Columns("provider_id", "service_id", "price", "duration_minutes", "is_enabled", "updated_at")
	for _, item := range items {
		builder = builder.Values(
			item.ProviderID,
			item.ServiceID,
			item.Price,
			item.DurationMinutes,
			item.IsEnabled,
			squirrel.Expr("NOW()"),
		)
	}

	query, args, err := builder.
		Suffix("ON CONFLICT (provider_id, service_id) DO UPDATE SET " +
			"price = EXCLUDED.price, " +
			"duration_minutes = EXCLUDED.duration_minutes, " +
			"is_enabled = EXCLUDED.is_enabled, " +
			"updated_at = EXCLUDED.updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertProviderServices - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == codeForeignKeyViolation {
			return fmt.Errorf("%w: %s", ErrUnknownService, pqErr.Detail)
		}
		return fmt.Errorf("%w: UpsertProviderServices - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*domain.Service, error) {
	var service domain.Service
	var category, description sql.NullString

	err := row.Scan(
		&service.ID,
		&service.Name,
		&category,
		&description,
		&service.DurationMinutes,
		&service.BasePrice,
		&service.IsActive,
	)
	if err != nil {
		return nil, err
	}

	service.Category = category.String
	service.Description = description.String

	return &service, nil
}

func scanProviderService(row rowScanner) (*domain.ProviderService, error) {
	var ps domain.ProviderService
	var price sql.NullFloat64
	var duration sql.NullInt64

	err := row.Scan(
		&ps.ProviderID,
		&ps.ServiceID,
		&price,
		&duration,
		&ps.IsEnabled,
	)
	if err != nil {
		return nil, err
	}

	if price.Valid {
		ps.Price = &price.Float64
	}
	if duration.Valid {
		d := int(duration.Int64)
		ps.DurationMinutes = &d
	}

	return &ps, nil
}
