package domain

// Provider the professional whose calendar is booked (stylist/designer)
type Provider struct {
	ID       int64
	Name     string
	IsActive bool
}
