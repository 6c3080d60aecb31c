package domain

// Default business hours (fixed daily window)
const (
	DefaultOpenTime        = "11:00"
	DefaultCloseTime       = "20:00"
	DefaultSlotStepMinutes = 30
	DefaultTimezone        = "Asia/Taipei"
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours
	MaxNotesLength            = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
