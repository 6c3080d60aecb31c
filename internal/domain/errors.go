package domain

import "errors"

// Таксономия ошибок ядра бронирования
// Ошибки пакетов usecase/service/repository оборачивают одну из них, а хендлеры
// сопоставляют их с HTTP статусами через errors.Is
var (
	// ErrValidation некорректные или отсутствующие входные данные
	ErrValidation = errors.New("validation error")

	// ErrConflict запрошенный интервал пересекается с существующим бронированием
	ErrConflict = errors.New("conflict")

	// ErrNotFound мастер, услуга или бронирование не существует
	ErrNotFound = errors.New("not found")

	// ErrInvalidState недопустимый переход статуса бронирования
	ErrInvalidState = errors.New("invalid state")

	// ErrStorage сбой хранилища при проверке и вставке; транзакция откатывается
	ErrStorage = errors.New("storage error")
)
