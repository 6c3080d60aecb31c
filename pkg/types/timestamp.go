package types

import (
	"fmt"
	"time"
)

// Допустимые текстовые формы момента начала бронирования
const (
	TimestampLayout        = "2006-01-02 15:04"
	TimestampLayoutSeconds = "2006-01-02 15:04:05"
)

// FormatError возвращается, когда строка не соответствует ни одному из допустимых форматов
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("timestamp %q must be %q or %q", e.Value, TimestampLayout, TimestampLayoutSeconds)
}

// ParseTimestamp парсит момент времени в часовом поясе loc
// Принимает ровно две формы: "YYYY-MM-DD HH:MM" и "YYYY-MM-DD HH:MM:SS"
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	var layout string
	switch len(raw) {
	case len(TimestampLayout):
		layout = TimestampLayout
	case len(TimestampLayoutSeconds):
		layout = TimestampLayoutSeconds
	default:
		return time.Time{}, &FormatError{Value: raw}
	}

	t, err := time.ParseInLocation(layout, raw, loc)
	if err != nil {
		return time.Time{}, &FormatError{Value: raw}
	}
	return t, nil
}
