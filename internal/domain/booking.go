package domain

import "time"

// Booking represents an appointment of a customer with a provider
type Booking struct {
	ID              int64
	CustomerID      int64
	ProviderID      int64
	ServiceID       int64
	StartAt         time.Time
	DurationMinutes int
	Status          BookingStatus

	// Snapshot at creation time
	ServiceName string
	Price       float64
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndAt returns the exclusive end of the booking
func (b *Booking) EndAt() time.Time {
	return b.StartAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// Interval returns the half-open interval occupied by the booking
func (b *Booking) Interval() Interval {
	return NewInterval(b.StartAt, b.DurationMinutes)
}

// IsActive returns true if the booking takes part in conflict checks
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// InvolvesUser returns true if the user is the booking's customer or provider
func (b *Booking) InvolvesUser(userID int64) bool {
	return b.CustomerID == userID || b.ProviderID == userID
}

// ProviderBookingsFilter фильтр бронирований мастера
type ProviderBookingsFilter struct {
	ProviderID       int64      // Обязательный параметр
	Date             *time.Time // Конкретный день (опционально, если nil - все дни)
	Status           *BookingStatus
	IncludeCancelled bool // Включать ли отмененные бронирования
}

// CustomerBookingsFilter фильтр истории бронирований клиента
type CustomerBookingsFilter struct {
	CustomerID int64
	Status     *BookingStatus
}
