package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonScheduler/pkg/ptr"
)

func TestResolveService(t *testing.T) {
	catalog := &Service{ID: 3, Name: "Haircut", DurationMinutes: 60, BasePrice: 800, IsActive: true}

	t.Run("no override uses catalog", func(t *testing.T) {
		eff := ResolveService(7, catalog, nil)
		assert.Equal(t, EffectiveService{
			ServiceID: 3, ProviderID: 7, Name: "Haircut", DurationMinutes: 60, Price: 800, IsEnabled: true,
		}, eff)
	})

	t.Run("override wins", func(t *testing.T) {
		eff := ResolveService(7, catalog, &ProviderService{
			ProviderID: 7, ServiceID: 3, Price: ptr.Ptr(1200.0), DurationMinutes: ptr.Ptr(90), IsEnabled: true,
		})
		assert.Equal(t, 90, eff.DurationMinutes)
		assert.Equal(t, 1200.0, eff.Price)
		assert.True(t, eff.IsEnabled)
	})

	t.Run("partial override", func(t *testing.T) {
		eff := ResolveService(7, catalog, &ProviderService{ProviderID: 7, ServiceID: 3, Price: ptr.Ptr(500.0), IsEnabled: true})
		assert.Equal(t, 60, eff.DurationMinutes)
		assert.Equal(t, 500.0, eff.Price)
	})

	t.Run("disabled by provider", func(t *testing.T) {
		eff := ResolveService(7, catalog, &ProviderService{ProviderID: 7, ServiceID: 3, IsEnabled: false})
		assert.False(t, eff.IsEnabled)
	})

	t.Run("inactive catalog entry stays disabled", func(t *testing.T) {
		inactive := *catalog
		inactive.IsActive = false
		eff := ResolveService(7, &inactive, &ProviderService{ProviderID: 7, ServiceID: 3, IsEnabled: true})
		assert.False(t, eff.IsEnabled)
	})
}
