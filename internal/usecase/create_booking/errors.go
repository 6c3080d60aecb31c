package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

var (
	// ErrSlotUnavailable возвращается, когда интервал пересекается с существующим бронированием мастера
	ErrSlotUnavailable = fmt.Errorf("%w: requested time overlaps an existing booking", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrStartInPast возвращается, когда время начала уже прошло
	ErrStartInPast = fmt.Errorf("%w: start time is in the past", domain.ErrValidation)

	// ErrOutsideBusinessHours возвращается, когда услуга не помещается в рабочее окно
	ErrOutsideBusinessHours = fmt.Errorf("%w: booking is outside business hours", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("%w: create_booking", domain.ErrStorage)
)
