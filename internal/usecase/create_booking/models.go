package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// Conflict sources for metrics
const (
	conflictSourceGuard      = "guard"
	conflictSourceConstraint = "constraint"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID int64     // ID клиента (из X-User-ID)
	ProviderID int64     // ID мастера
	ServiceID  int64     // ID услуги
	StartAt    time.Time // Начало, уже разобранное на границе API
	Notes      *string   // Комментарий (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking
}
