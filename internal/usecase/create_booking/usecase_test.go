package create_booking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SalonScheduler/internal/scheduling"
	"github.com/m04kA/SMC-SalonScheduler/pkg/keylock"
	"github.com/m04kA/SMC-SalonScheduler/pkg/logger"
	"github.com/m04kA/SMC-SalonScheduler/pkg/ptr"
)

var taipei = time.FixedZone("Asia/Taipei", 8*60*60)

// memoryRepo хранилище бронирований в памяти; mu изображает сериализацию в БД
type memoryRepo struct {
	mu        sync.Mutex
	bookings  []*domain.Booking
	nextID    int64
	createErr error
	locked    []int64
	advisory  map[int64]*sync.Mutex
}

func (r *memoryRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	created := *b
	created.ID = r.nextID
	r.bookings = append(r.bookings, &created)
	return &created, nil
}

// LockProvider внутри serialTx держит блокировку мастера до конца транзакции, как pg_advisory_xact_lock
func (r *memoryRepo) LockProvider(ctx context.Context, providerID int64) error {
	r.mu.Lock()
	r.locked = append(r.locked, providerID)
	if r.advisory == nil {
		r.advisory = map[int64]*sync.Mutex{}
	}
	m, ok := r.advisory[providerID]
	if !ok {
		m = &sync.Mutex{}
		r.advisory[providerID] = m
	}
	r.mu.Unlock()

	held, ok := ctx.Value(txLocksKey{}).(*txLocks)
	if !ok {
		return nil
	}
	m.Lock()
	held.unlocks = append(held.unlocks, m.Unlock)
	return nil
}

func (r *memoryRepo) active() []*domain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Booking
	for _, b := range r.bookings {
		if !b.IsCancelled() {
			out = append(out, b)
		}
	}
	return out
}

func (r *memoryRepo) GetDailySchedule(_ context.Context, providerID int64, date time.Time) (domain.DailySchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dayEnd := date.AddDate(0, 0, 1)
	schedule := domain.DailySchedule{}
	for _, b := range r.bookings {
		if b.ProviderID != providerID || b.IsCancelled() {
			continue
		}
		if b.StartAt.Before(dayEnd) && b.EndAt().After(date) {
			schedule = append(schedule, domain.ScheduledBooking{BookingID: b.ID, StartAt: b.StartAt, DurationMinutes: b.DurationMinutes})
		}
	}
	return schedule, nil
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

type txStub struct{}

func (txStub) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type txLocksKey struct{}

type txLocks struct {
	unlocks []func()
}

// serialTx отпускает блокировки мастеров только после завершения fn
type serialTx struct{}

func (serialTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	held := &txLocks{}
	defer func() {
		for _, unlock := range held.unlocks {
			unlock()
		}
	}()
	return fn(context.WithValue(ctx, txLocksKey{}, held))
}

type resolverFunc func(providerID, serviceID int64) (*domain.EffectiveService, error)

func (f resolverFunc) ResolveForProvider(_ context.Context, providerID, serviceID int64) (*domain.EffectiveService, error) {
	return f(providerID, serviceID)
}

type resolverStub struct {
	service *domain.EffectiveService
	err     error
}

func (r resolverStub) ResolveForProvider(context.Context, int64, int64) (*domain.EffectiveService, error) {
	return r.service, r.err
}

type eventsStub struct {
	mu        sync.Mutex
	published []int64
	err       error
}

func (e *eventsStub) BookingCreated(_ context.Context, b *domain.Booking) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.published = append(e.published, b.ID)
	return e.err
}

type metricsStub struct {
	mu        sync.Mutex
	created   int
	conflicts []string
}

func (m *metricsStub) BookingCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

func (m *metricsStub) BookingConflict(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts = append(m.conflicts, source)
}

type lockerStub struct {
	err error
}

func (l lockerStub) Lock(context.Context, string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	return func() {}, nil
}

type fixture struct {
	repo    *memoryRepo
	events  *eventsStub
	metrics *metricsStub
	locker  ProviderLocker
	service *domain.EffectiveService
	now     time.Time
}

func newFixture() *fixture {
	return &fixture{
		repo:    &memoryRepo{},
		events:  &eventsStub{},
		metrics: &metricsStub{},
		locker:  keylock.NewLocal(),
		service: &domain.EffectiveService{ServiceID: 3, ProviderID: 9, Name: "Haircut", DurationMinutes: 60, Price: 950, IsEnabled: true},
		now:     time.Date(2026, 10, 15, 9, 0, 0, 0, taipei),
	}
}

func (f *fixture) useCase() *UseCase {
	guard := scheduling.NewConflictGuard(f.repo, taipei)
	return NewUseCase(
		f.repo,
		guard,
		resolverStub{service: f.service},
		f.locker,
		txStub{},
		f.events,
		f.metrics,
		domain.DefaultBusinessHours(taipei),
		time.Second,
		scheduling.FixedClock(f.now),
		logger.NewNop(),
	)
}

func request(hh, mm int) *Request {
	return &Request{
		CustomerID: 100,
		ProviderID: 9,
		ServiceID:  3,
		StartAt:    time.Date(2026, 10, 20, hh, mm, 0, 0, taipei),
	}
}

func TestUseCase_Execute_Success(t *testing.T) {
	f := newFixture()
	req := request(14, 0)
	req.Notes = ptr.Ptr("short fringe")

	resp, err := f.useCase().Execute(context.Background(), req)
	require.NoError(t, err)

	b := resp.Booking
	assert.Equal(t, int64(1), b.ID)
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, 60, b.DurationMinutes)
	assert.Equal(t, 950.0, b.Price)
	assert.Equal(t, "Haircut", b.ServiceName)
	assert.Equal(t, "short fringe", *b.Notes)
	assert.Equal(t, []int64{9}, f.repo.locked)
	assert.Equal(t, 1, f.metrics.created)
	assert.Equal(t, []int64{1}, f.events.published)
}

func TestUseCase_Execute_Overlap(t *testing.T) {
	f := newFixture()
	uc := f.useCase()

	_, err := uc.Execute(context.Background(), request(14, 0))
	require.NoError(t, err)

	tests := []struct {
		name     string
		hh, mm   int
		conflict bool
	}{
		{"same start", 14, 0, true},
		{"starts inside", 14, 30, true},
		{"ends inside", 13, 30, true},
		{"ends at start", 13, 0, false},
		{"starts at end", 15, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), request(tt.hh, tt.mm))
			if tt.conflict {
				assert.ErrorIs(t, err, ErrSlotUnavailable)
				assert.ErrorIs(t, err, domain.ErrConflict)
			} else {
				assert.NoError(t, err)
			}
		})
	}
	assert.Equal(t, 3, f.repo.count())
	assert.Equal(t, []string{conflictSourceGuard, conflictSourceGuard, conflictSourceGuard}, f.metrics.conflicts)
}

func TestUseCase_Execute_CancelledBookingFreesSlot(t *testing.T) {
	f := newFixture()
	f.repo.bookings = []*domain.Booking{{
		ID: 50, ProviderID: 9, StartAt: time.Date(2026, 10, 20, 14, 0, 0, 0, taipei),
		DurationMinutes: 60, Status: domain.StatusCancelled,
	}}
	f.repo.nextID = 50

	_, err := f.useCase().Execute(context.Background(), request(14, 0))
	assert.NoError(t, err)
}

func TestUseCase_Execute_ConcurrentIdenticalRequests(t *testing.T) {
	f := newFixture()
	uc := f.useCase()

	const workers = 2
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = uc.Execute(context.Background(), request(14, 0))
		}(i)
	}
	close(start)
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrConflict):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)
	assert.Equal(t, 1, f.repo.count())
}

func TestUseCase_Execute_ConstraintViolationIsConflict(t *testing.T) {
	f := newFixture()
	f.repo.createErr = fmt.Errorf("%w: provider=9", bookingRepo.ErrSlotOverlap)

	_, err := f.useCase().Execute(context.Background(), request(14, 0))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, []string{conflictSourceConstraint}, f.metrics.conflicts)
	assert.Zero(t, f.metrics.created)
	assert.Empty(t, f.events.published)
}

func TestUseCase_Execute_StorageError(t *testing.T) {
	f := newFixture()
	f.repo.createErr = errors.New("connection reset")

	_, err := f.useCase().Execute(context.Background(), request(14, 0))
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestUseCase_Execute_LockFailure(t *testing.T) {
	f := newFixture()
	f.locker = lockerStub{err: keylock.ErrLockTimeout}

	_, err := f.useCase().Execute(context.Background(), request(14, 0))
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Zero(t, f.repo.count())
}

func TestUseCase_Execute_EventFailureDoesNotFail(t *testing.T) {
	f := newFixture()
	f.events.err = errors.New("broker unavailable")

	resp, err := f.useCase().Execute(context.Background(), request(14, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Booking.ID)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"no customer", func(r *Request) { r.CustomerID = 0 }, ErrInvalidInput},
		{"no provider", func(r *Request) { r.ProviderID = 0 }, ErrInvalidInput},
		{"no service", func(r *Request) { r.ServiceID = -1 }, ErrInvalidInput},
		{"no start", func(r *Request) { r.StartAt = time.Time{} }, ErrInvalidInput},
		{"long notes", func(r *Request) { r.Notes = ptr.Ptr(strings.Repeat("я", domain.MaxNotesLength+1)) }, ErrInvalidInput},
		{"in the past", func(r *Request) { r.StartAt = time.Date(2026, 10, 14, 14, 0, 0, 0, taipei) }, ErrStartInPast},
		{"before open", func(r *Request) { r.StartAt = time.Date(2026, 10, 20, 10, 30, 0, 0, taipei) }, ErrOutsideBusinessHours},
		{"past close", func(r *Request) { r.StartAt = time.Date(2026, 10, 20, 19, 30, 0, 0, taipei) }, ErrOutsideBusinessHours},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := request(14, 0)
			tt.mutate(req)

			_, err := f.useCase().Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Zero(t, f.repo.count())
		})
	}
}

func TestUseCase_Execute_LastSlotOfDay(t *testing.T) {
	f := newFixture()

	_, err := f.useCase().Execute(context.Background(), request(19, 0))
	assert.NoError(t, err)
}

func TestUseCase_Execute_ServiceNotOffered(t *testing.T) {
	f := newFixture()
	uc := f.useCase()
	uc.services = resolverStub{err: fmt.Errorf("%w: service is not offered", domain.ErrNotFound)}

	_, err := uc.Execute(context.Background(), request(14, 0))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUseCase_Execute_GeneratedLoadNeverOverlaps(t *testing.T) {
	durations := map[int64]int{1: 30, 2: 45, 3: 60, 4: 90, 5: 120}
	services := resolverFunc(func(providerID, serviceID int64) (*domain.EffectiveService, error) {
		return &domain.EffectiveService{
			ServiceID: serviceID, ProviderID: providerID, Name: "Service",
			DurationMinutes: durations[serviceID], Price: 500, IsEnabled: true,
		}, nil
	})

	rnd := rand.New(rand.NewSource(20261015))
	days := []time.Time{
		time.Date(2026, 10, 20, 0, 0, 0, 0, taipei),
		time.Date(2026, 10, 21, 0, 0, 0, 0, taipei),
	}
	requests := make([]*Request, 300)
	for i := range requests {
		day := days[rnd.Intn(len(days))]
		requests[i] = &Request{
			CustomerID: int64(100 + i),
			ProviderID: int64(1 + rnd.Intn(3)),
			ServiceID:  int64(1 + rnd.Intn(len(durations))),
			// шаг 15 минут с 11:00 до 19:45, часть запросов не влезает в рабочее окно
			StartAt: day.Add(11*time.Hour + time.Duration(rnd.Intn(36))*15*time.Minute),
		}
	}

	lockers := []struct {
		name   string
		locker ProviderLocker
	}{
		{"transaction only", lockerStub{}},
		{"local keylock", keylock.NewLocal()},
	}

	for _, tt := range lockers {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			// отменённые записи не должны мешать
			f.repo.bookings = []*domain.Booking{
				{ID: 1, ProviderID: 1, StartAt: days[0].Add(14 * time.Hour), DurationMinutes: 120, Status: domain.StatusCancelled},
				{ID: 2, ProviderID: 2, StartAt: days[1].Add(11 * time.Hour), DurationMinutes: 540, Status: domain.StatusCancelled},
			}
			f.repo.nextID = 2
			uc := NewUseCase(
				f.repo,
				scheduling.NewConflictGuard(f.repo, taipei),
				services,
				tt.locker,
				serialTx{},
				f.events,
				f.metrics,
				domain.DefaultBusinessHours(taipei),
				time.Second,
				scheduling.FixedClock(f.now),
				logger.NewNop(),
			)

			var (
				wg    sync.WaitGroup
				start = make(chan struct{})
				errs  = make([]error, len(requests))
			)
			for i, req := range requests {
				wg.Add(1)
				go func(i int, req Request) {
					defer wg.Done()
					<-start
					_, errs[i] = uc.Execute(context.Background(), &req)
				}(i, *req)
			}
			close(start)
			wg.Wait()

			var created, conflicted int
			for i, err := range errs {
				switch {
				case err == nil:
					created++
				case errors.Is(err, domain.ErrConflict):
					conflicted++
				case errors.Is(err, ErrOutsideBusinessHours):
				default:
					t.Fatalf("request %d: unexpected error: %v", i, err)
				}
			}
			require.NotZero(t, created)
			require.NotZero(t, conflicted)

			active := f.repo.active()
			require.Len(t, active, created)
			for i := range active {
				for j := i + 1; j < len(active); j++ {
					a, b := active[i], active[j]
					if a.ProviderID != b.ProviderID {
						continue
					}
					assert.False(t, a.Interval().Overlaps(b.Interval()),
						"provider=%d: booking %d [%s, %s) overlaps booking %d [%s, %s)",
						a.ProviderID,
						a.ID, a.StartAt.Format(time.TimeOnly), a.EndAt().Format(time.TimeOnly),
						b.ID, b.StartAt.Format(time.TimeOnly), b.EndAt().Format(time.TimeOnly))
				}
			}
			assert.Equal(t, created, f.metrics.created)
			assert.Len(t, f.metrics.conflicts, conflicted)
		})
	}
}
