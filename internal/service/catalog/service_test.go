package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/catalog"
	staffClient "github.com/m04kA/SMC-SalonScheduler/internal/integrations/staffservice"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/catalog/models"
	"github.com/m04kA/SMC-SalonScheduler/pkg/logger"
	"github.com/m04kA/SMC-SalonScheduler/pkg/ptr"
)

type repoStub struct {
	services  map[int64]*domain.Service
	overrides map[int64][]*domain.ProviderService
	upserted  []domain.ProviderService
	err       error
	upsertErr error
}

func newRepoStub() *repoStub {
	return &repoStub{
		services: map[int64]*domain.Service{
			1: {ID: 1, Name: "Haircut", DurationMinutes: 60, BasePrice: 800, IsActive: true},
			2: {ID: 2, Name: "Coloring", DurationMinutes: 120, BasePrice: 2500, IsActive: true},
			3: {ID: 3, Name: "Perm", DurationMinutes: 150, BasePrice: 3000, IsActive: false},
		},
		overrides: map[int64][]*domain.ProviderService{},
	}
}

func (r *repoStub) ListActive(context.Context) ([]*domain.Service, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Service
	for id := int64(1); id <= int64(len(r.services)); id++ {
		if s := r.services[id]; s != nil && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *repoStub) GetService(_ context.Context, id int64) (*domain.Service, error) {
	if r.err != nil {
		return nil, r.err
	}
	s, ok := r.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return s, nil
}

func (r *repoStub) GetProviderService(_ context.Context, providerID, serviceID int64) (*domain.ProviderService, error) {
	for _, o := range r.overrides[providerID] {
		if o.ServiceID == serviceID {
			return o, nil
		}
	}
	return nil, catalogRepo.ErrProviderServiceNotFound
}

func (r *repoStub) GetProviderServices(_ context.Context, providerID int64) ([]*domain.ProviderService, error) {
	return r.overrides[providerID], nil
}

func (r *repoStub) UpsertProviderServices(_ context.Context, items []domain.ProviderService) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserted = append(r.upserted, items...)
	for i := range items {
		item := items[i]
		r.overrides[item.ProviderID] = append(r.overrides[item.ProviderID], &item)
	}
	return nil
}

type directoryStub struct {
	err error
}

func (d directoryStub) EnsureActiveProvider(context.Context, int64) error {
	return d.err
}

func newService(repo *repoStub, dir directoryStub) *Service {
	return NewService(repo, dir, logger.NewNop())
}

func TestService_ListServices(t *testing.T) {
	svc := newService(newRepoStub(), directoryStub{})

	resp, err := svc.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Services, 2)
	assert.Equal(t, "Haircut", resp.Services[0].Name)
	assert.Equal(t, "Coloring", resp.Services[1].Name)
}

func TestService_ListServices_RepositoryError(t *testing.T) {
	repo := newRepoStub()
	repo.err = errors.New("db down")

	_, err := newService(repo, directoryStub{}).ListServices(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestService_ResolveForProvider(t *testing.T) {
	repo := newRepoStub()
	repo.overrides[9] = []*domain.ProviderService{
		{ProviderID: 9, ServiceID: 1, Price: ptr.Ptr(950.0), DurationMinutes: ptr.Ptr(45), IsEnabled: true},
		{ProviderID: 9, ServiceID: 2, IsEnabled: false},
	}
	svc := newService(repo, directoryStub{})
	ctx := context.Background()

	eff, err := svc.ResolveForProvider(ctx, 9, 1)
	require.NoError(t, err)
	assert.Equal(t, 45, eff.DurationMinutes)
	assert.Equal(t, 950.0, eff.Price)

	eff, err = svc.ResolveForProvider(ctx, 8, 1)
	require.NoError(t, err)
	assert.Equal(t, 60, eff.DurationMinutes, "no override falls back to catalog")

	_, err = svc.ResolveForProvider(ctx, 9, 2)
	assert.ErrorIs(t, err, ErrServiceNotOffered)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.ResolveForProvider(ctx, 9, 3)
	assert.ErrorIs(t, err, ErrServiceNotOffered, "inactive catalog service")

	_, err = svc.ResolveForProvider(ctx, 9, 77)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestService_ResolveForProvider_ProviderChecks(t *testing.T) {
	repo := newRepoStub()

	_, err := newService(repo, directoryStub{err: staffClient.ErrProviderNotFound}).ResolveForProvider(context.Background(), 9, 1)
	assert.ErrorIs(t, err, ErrProviderNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = newService(repo, directoryStub{err: staffClient.ErrInternal}).ResolveForProvider(context.Background(), 9, 1)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_GetProviderServices(t *testing.T) {
	repo := newRepoStub()
	repo.overrides[9] = []*domain.ProviderService{
		{ProviderID: 9, ServiceID: 2, Price: ptr.Ptr(2000.0), IsEnabled: true},
	}

	resp, err := newService(repo, directoryStub{}).GetProviderServices(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, resp.Services, 2)

	assert.Equal(t, models.ProviderServiceResponse{
		ServiceID: 1, Name: "Haircut", DurationMinutes: 60, Price: 800, IsEnabled: true, IsCustomized: false,
	}, resp.Services[0])
	assert.Equal(t, models.ProviderServiceResponse{
		ServiceID: 2, Name: "Coloring", DurationMinutes: 120, Price: 2000, IsEnabled: true, IsCustomized: true,
	}, resp.Services[1])
}

func TestService_UpdateProviderServices(t *testing.T) {
	repo := newRepoStub()
	svc := newService(repo, directoryStub{})

	resp, err := svc.UpdateProviderServices(context.Background(), &models.UpdateProviderServicesRequest{
		UserID:     9,
		ProviderID: 9,
		Services: []models.ProviderServiceItem{
			{ServiceID: 1, DurationMinutes: ptr.Ptr(90)},
			{ServiceID: 2, IsEnabled: ptr.Ptr(false)},
		},
	})
	require.NoError(t, err)

	require.Len(t, repo.upserted, 2)
	assert.True(t, repo.upserted[0].IsEnabled, "isEnabled defaults to true")
	assert.False(t, repo.upserted[1].IsEnabled)

	assert.Equal(t, 90, resp.Services[0].DurationMinutes)
	assert.False(t, resp.Services[1].IsEnabled)
}

func TestService_UpdateProviderServices_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		req     models.UpdateProviderServicesRequest
		wantErr error
	}{
		{
			name:    "other user",
			req:     models.UpdateProviderServicesRequest{UserID: 5, ProviderID: 9, Services: []models.ProviderServiceItem{{ServiceID: 1}}},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "empty",
			req:     models.UpdateProviderServicesRequest{UserID: 9, ProviderID: 9},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "duration too short",
			req:     models.UpdateProviderServicesRequest{UserID: 9, ProviderID: 9, Services: []models.ProviderServiceItem{{ServiceID: 1, DurationMinutes: ptr.Ptr(4)}}},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "duration too long",
			req:     models.UpdateProviderServicesRequest{UserID: 9, ProviderID: 9, Services: []models.ProviderServiceItem{{ServiceID: 1, DurationMinutes: ptr.Ptr(481)}}},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "negative price",
			req:     models.UpdateProviderServicesRequest{UserID: 9, ProviderID: 9, Services: []models.ProviderServiceItem{{ServiceID: 1, Price: ptr.Ptr(-1.0)}}},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "duplicate service",
			req:     models.UpdateProviderServicesRequest{UserID: 9, ProviderID: 9, Services: []models.ProviderServiceItem{{ServiceID: 1}, {ServiceID: 1}}},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepoStub()
			_, err := newService(repo, directoryStub{}).UpdateProviderServices(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.upserted)
		})
	}
}

func TestService_UpdateProviderServices_UnknownService(t *testing.T) {
	repo := newRepoStub()
	repo.upsertErr = catalogRepo.ErrUnknownService

	_, err := newService(repo, directoryStub{}).UpdateProviderServices(context.Background(), &models.UpdateProviderServicesRequest{
		UserID: 9, ProviderID: 9, Services: []models.ProviderServiceItem{{ServiceID: 77}},
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}
