package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotOverlap возвращается, когда вставка нарушила exclusion constraint
	// (интервал пересекается с неотмененным бронированием того же мастера)
	ErrSlotOverlap = errors.New("booking.repository: slot overlaps existing booking")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrLockProvider возвращается, если не удалось взять advisory lock мастера
	ErrLockProvider = errors.New("booking.repository: failed to lock provider")
)
