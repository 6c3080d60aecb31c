package booking

import (
	"github.com/m04kA/SMC-SalonScheduler/pkg/dbmetrics"
)

// Переиспользуем интерфейс из dbmetrics для работы с БД
// Подходят *sql.DB, *dbmetrics.DB и транзакция из контекста
type DBExecutor = dbmetrics.DBExecutor
