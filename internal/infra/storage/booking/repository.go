package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/psqlbuilder"
)

// SQLSTATE exclusion_violation (bookings_no_overlap)
const codeExclusionViolation = "23P01"

// Класс advisory lock'ов мастеров занимает старшие 16 бит ключа pg_advisory_xact_lock(bigint)
const (
	providerLockClass  = 7001
	providerLockIDBits = 48
	providerLockIDMask = int64(1)<<providerLockIDBits - 1
)

// providerLockKey ключ advisory lock'а мастера: класс в старших битах, id в младших 48.
// Ключи различны для всех id меньше 2^48
func providerLockKey(providerID int64) int64 {
	return int64(providerLockClass)<<providerLockIDBits | providerID&providerLockIDMask
}

var bookingColumns = []string{
	"id",
	"customer_id",
	"provider_id",
	"service_id",
	"start_at",
	"duration_minutes",
	"status",
	"service_name",
	"price",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Должен вызываться внутри транзакции вместе с проверкой конфликтов.
// Нарушение exclusion constraint возвращается как ErrSlotOverlap
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"customer_id",
			"provider_id",
			"service_id",
			"start_at",
			"end_at",
			"duration_minutes",
			"status",
			"service_name",
			"price",
			"notes",
		).
		Values(
			booking.CustomerID,
			booking.ProviderID,
			booking.ServiceID,
			booking.StartAt,
			booking.EndAt(),
			booking.DurationMinutes,
			booking.Status,
			booking.ServiceName,
			booking.Price,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if isExclusionViolation(err) {
		return nil, fmt.Errorf("%w: provider=%d start=%s", ErrSlotOverlap, booking.ProviderID, booking.StartAt.Format(time.RFC3339))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает бронирование по ID и блокирует строку до конца транзакции
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, true)
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// LockProvider берет транзакционный advisory lock мастера
// Конкурентные создания бронирований одного мастера выстраиваются в очередь до commit/rollback.
// Вне транзакции бессмысленен: lock снимается сразу после выполнения запроса
func (r *Repository) LockProvider(ctx context.Context, providerID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select().
		Column(squirrel.Expr("pg_advisory_xact_lock(?)", providerLockKey(providerID))).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LockProvider - build query: %v", ErrBuildQuery, err)
	}

	_, err = executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: provider=%d: %w", ErrLockProvider, providerID, err)
	}
	return nil
}

// GetDailySchedule возвращает неотмененные бронирования мастера, пересекающие дату
// date - полночь нужного дня в часовом поясе салона
func (r *Repository) GetDailySchedule(ctx context.Context, providerID int64, date time.Time) (domain.DailySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	dayStart := date
	dayEnd := date.AddDate(0, 0, 1)

	query, args, err := psqlbuilder.Select("id", "start_at", "duration_minutes").
		From("bookings").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Where(squirrel.Lt{"start_at": dayEnd}).
		Where(squirrel.Gt{"end_at": dayStart}).
		OrderBy("start_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDailySchedule - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetDailySchedule - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	schedule := make(domain.DailySchedule, 0)
	for rows.Next() {
		var entry domain.ScheduledBooking
		if err := rows.Scan(&entry.BookingID, &entry.StartAt, &entry.DurationMinutes); err != nil {
			return nil, fmt.Errorf("%w: GetDailySchedule - scan row: %w", ErrScanRow, err)
		}
		schedule = append(schedule, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetDailySchedule - rows iteration: %w", ErrScanRow, err)
	}

	return schedule, nil
}

// GetByProvider получает бронирования мастера с фильтрацией
// По умолчанию отмененные не возвращаются (IncludeCancelled = false)
func (r *Repository) GetByProvider(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"provider_id": filter.ProviderID}).
		OrderBy("start_at ASC")

	if filter.Date != nil {
		selectBuilder = selectBuilder.
			Where(squirrel.GtOrEq{"start_at": *filter.Date}).
			Where(squirrel.Lt{"start_at": filter.Date.AddDate(0, 0, 1)})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByCustomer получает историю бронирований клиента, новые первыми
// Опционально фильтрует по статусу
func (r *Repository) GetByCustomer(ctx context.Context, filter domain.CustomerBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"customer_id": filter.CustomerID}).
		OrderBy("start_at DESC", "id DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования
// Допустимость перехода проверяет вызывающий код (domain.BookingStatus.Transition)
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	return booking, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var notes sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.CustomerID,
		&booking.ProviderID,
		&booking.ServiceID,
		&booking.StartAt,
		&booking.DurationMinutes,
		&booking.Status,
		&booking.ServiceName,
		&booking.Price,
		&notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if notes.Valid {
		booking.Notes = &notes.String
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows iteration: %w", ErrScanRow, err)
	}

	return bookings, nil
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeExclusionViolation
}
