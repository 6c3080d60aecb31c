package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ProviderID int64     // ID мастера
	ServiceID  int64     // ID услуги
	Date       time.Time // Дата (время суток игнорируется)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time          // Полночь запрошенного дня в часовом поясе салона
	ProviderID      int64              // ID мастера
	ServiceID       int64              // ID услуги
	DurationMinutes int                // Длительность услуги у этого мастера
	Price           float64            // Цена услуги у этого мастера
	Slots           []types.TimeString // Время начала свободных слотов по возрастанию
}
