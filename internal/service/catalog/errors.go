package catalog

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

var (
	// ErrServiceNotFound возвращается, когда услуги нет в каталоге
	ErrServiceNotFound = fmt.Errorf("%w: service", domain.ErrNotFound)

	// ErrProviderNotFound возвращается, когда мастера нет в справочнике или он неактивен
	ErrProviderNotFound = fmt.Errorf("%w: provider", domain.ErrNotFound)

	// ErrServiceNotOffered возвращается, когда мастер не оказывает услугу (отключена или неактивна)
	ErrServiceNotOffered = fmt.Errorf("%w: service is not offered by provider", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь меняет чужие настройки
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("%w: catalog service", domain.ErrStorage)
)
