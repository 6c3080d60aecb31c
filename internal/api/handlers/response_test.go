package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

func TestRespondDomainError(t *testing.T) {
	_, formatErr := types.ParseTimestamp("2026-10-20T14:00", time.UTC)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
		client  bool
	}{
		{"format", formatErr, http.StatusBadRequest, msgFormat, true},
		{"validation", fmt.Errorf("%w: providerId", domain.ErrValidation), http.StatusBadRequest, msgValidation, true},
		{"not found", fmt.Errorf("%w: booking", domain.ErrNotFound), http.StatusNotFound, msgNotFound, true},
		{"conflict", fmt.Errorf("%w: overlap", domain.ErrConflict), http.StatusConflict, msgConflict, true},
		{"invalid state", fmt.Errorf("%w: cancelled -> confirmed", domain.ErrInvalidState), http.StatusConflict, msgInvalidState, true},
		{"storage", fmt.Errorf("%w: db", domain.ErrStorage), http.StatusInternalServerError, msgInternalError, false},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, msgInternalError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondDomainError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Code)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, tt.client, IsClientError(tt.err))
		})
	}
}

func TestRespondDomainError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, fmt.Errorf("%w: password=secret", domain.ErrStorage))
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Status string `json:"status"`
	}
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"confirmed"}`))
	require.NoError(t, DecodeJSON(req, &v))
	assert.Equal(t, "confirmed", v.Status)

	req = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":`))
	assert.Error(t, DecodeJSON(req, &v))
}

func TestParams(t *testing.T) {
	var gotID int64
	var gotErr error
	r := mux.NewRouter()
	r.HandleFunc("/bookings/{bookingId}", func(w http.ResponseWriter, req *http.Request) {
		gotID, gotErr = PathID(req, "bookingId")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bookings/15", nil))
	require.NoError(t, gotErr)
	assert.Equal(t, int64(15), gotID)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bookings/-3", nil))
	assert.ErrorIs(t, gotErr, domain.ErrValidation)

	loc := time.FixedZone("Asia/Taipei", 8*60*60)
	date, err := ParseDate("2026-10-20", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, loc), date)

	_, err = ParseDate("2026/10/20", loc)
	assert.ErrorIs(t, err, domain.ErrValidation)

	b, err := ParseBool("", "includeCancelled")
	require.NoError(t, err)
	assert.False(t, b)
	_, err = ParseBool("maybe", "includeCancelled")
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Nil(t, OptionalString(""))
	assert.Equal(t, "pending", *OptionalString("pending"))
}
