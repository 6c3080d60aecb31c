package events

import "time"

// Типы событий бронирований
const (
	TypeBookingCreated       = "booking.created"
	TypeBookingStatusChanged = "booking.status_changed"
)

// BookingEvent тело сообщения о бронировании
type BookingEvent struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	OccurredAt      time.Time `json:"occurred_at"`
	BookingID       int64     `json:"booking_id"`
	CustomerID      int64     `json:"customer_id"`
	ProviderID      int64     `json:"provider_id"`
	ServiceID       int64     `json:"service_id"`
	StartAt         time.Time `json:"start_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	PreviousStatus  string    `json:"previous_status,omitempty"`
	Price           float64   `json:"price"`
}
