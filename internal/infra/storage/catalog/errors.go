package catalog

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуги нет в каталоге
	ErrServiceNotFound = errors.New("catalog.repository: service not found")

	// ErrProviderServiceNotFound возвращается, когда у мастера нет собственных настроек услуги
	ErrProviderServiceNotFound = errors.New("catalog.repository: provider service settings not found")

	// ErrUnknownService возвращается, когда настройки ссылаются на несуществующую услугу (FK)
	ErrUnknownService = errors.New("catalog.repository: settings reference unknown service")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
