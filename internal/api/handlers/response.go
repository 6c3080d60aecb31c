package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// Максимальный размер тела запроса
const maxBodyBytes = 1 << 20

const (
	msgInternalError = "внутренняя ошибка сервера"
	msgValidation    = "некорректные данные запроса"
	msgFormat        = "некорректный формат даты и времени, ожидается YYYY-MM-DD HH:MM[:SS]"
	msgNotFound      = "ресурс не найден"
	msgConflict      = "выбранное время уже занято"
	msgInvalidState  = "недопустимый переход статуса бронирования"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondError отправляет ошибку в едином формате
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message})
}

func respondErrorDetails(w http.ResponseWriter, status int, message string, details string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message, Details: details})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondDomainError сопоставляет таксономию ошибок домена со статусами HTTP
// Для клиентских ошибок в details попадает текст ошибки; внутренние детали наружу не отдаются
func RespondDomainError(w http.ResponseWriter, err error) {
	var formatErr *types.FormatError
	switch {
	case errors.As(err, &formatErr):
		respondErrorDetails(w, http.StatusBadRequest, msgFormat, err.Error())
	case errors.Is(err, domain.ErrValidation):
		respondErrorDetails(w, http.StatusBadRequest, msgValidation, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondErrorDetails(w, http.StatusNotFound, msgNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		respondErrorDetails(w, http.StatusConflict, msgInvalidState, err.Error())
	case errors.Is(err, domain.ErrConflict):
		RespondConflict(w, msgConflict)
	default:
		RespondInternalError(w)
	}
}

// IsClientError true, если ошибка вызвана запросом, а не сбоем сервиса
func IsClientError(err error) bool {
	var formatErr *types.FormatError
	return errors.As(err, &formatErr) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidState) ||
		errors.Is(err, domain.ErrConflict)
}

// DecodeJSON декодирует тело запроса в v
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
}
