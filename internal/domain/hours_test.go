package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

func TestBusinessHours_Validate(t *testing.T) {
	loc := time.FixedZone("Asia/Taipei", 8*60*60)

	assert.NoError(t, DefaultBusinessHours(loc).Validate())

	h := DefaultBusinessHours(loc)
	h.Open, h.Close = h.Close, h.Open
	assert.ErrorIs(t, h.Validate(), ErrValidation)

	h = DefaultBusinessHours(loc)
	h.Step = 0
	assert.ErrorIs(t, h.Validate(), ErrValidation)

	h = DefaultBusinessHours(nil)
	assert.ErrorIs(t, h.Validate(), ErrValidation)

	h = DefaultBusinessHours(loc)
	h.Open = types.TimeString{}
	assert.ErrorIs(t, h.Validate(), ErrValidation)
}

func TestBusinessHours_WindowAndContains(t *testing.T) {
	loc := time.FixedZone("Asia/Taipei", 8*60*60)
	h := DefaultBusinessHours(loc)

	openAt, closeAt := h.Window(time.Date(2026, 10, 20, 17, 45, 0, 0, loc))
	assert.Equal(t, time.Date(2026, 10, 20, 11, 0, 0, 0, loc), openAt)
	assert.Equal(t, time.Date(2026, 10, 20, 20, 0, 0, 0, loc), closeAt)

	assert.True(t, h.Contains(time.Date(2026, 10, 20, 11, 0, 0, 0, loc), 60))
	assert.True(t, h.Contains(time.Date(2026, 10, 20, 19, 0, 0, 0, loc), 60))
	assert.False(t, h.Contains(time.Date(2026, 10, 20, 19, 30, 0, 0, loc), 60))
	assert.False(t, h.Contains(time.Date(2026, 10, 20, 10, 30, 0, 0, loc), 30))

	// 2026-10-20 03:00 UTC is 11:00 in Taipei
	assert.True(t, h.Contains(time.Date(2026, 10, 20, 3, 0, 0, 0, time.UTC), 30))
}

func TestBusinessHours_Day(t *testing.T) {
	loc := time.FixedZone("Asia/Taipei", 8*60*60)
	h := DefaultBusinessHours(loc)

	day := h.Day(time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, loc), day)
}
