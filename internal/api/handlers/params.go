package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// PathID извлекает положительный int64 из переменной маршрута
func PathID(r *http.Request, name string) (int64, error) {
	return parseID(mux.Vars(r)[name], name)
}

// QueryID извлекает положительный int64 из query параметра
func QueryID(r *http.Request, name string) (int64, error) {
	return parseID(r.URL.Query().Get(name), name)
}

func parseID(raw, name string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrValidation, name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", domain.ErrValidation, name, raw)
	}
	return id, nil
}

// ParseDate парсит "YYYY-MM-DD" как полночь в часовом поясе салона
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation(domain.DateFormat, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", domain.ErrValidation, raw)
	}
	return date, nil
}

// ParseBool парсит необязательный булев query параметр (пустая строка - false)
func ParseBool(raw, name string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false, got %q", domain.ErrValidation, name, raw)
	}
	return v, nil
}

// OptionalString возвращает nil для пустой строки
func OptionalString(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}
