package update_booking_status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonScheduler/pkg/logger"
)

type serviceStub struct {
	gotID  int64
	gotReq *models.UpdateStatusRequest
	err    error
}

func (s *serviceStub) UpdateStatus(_ context.Context, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.gotID, s.gotReq = id, req
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingResponse{ID: id, Status: req.Status}, nil
}

func patch(svc *serviceStub, target, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/bookings/{bookingId}/status", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, target, strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "9")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &serviceStub{}

	rec := patch(svc, "/bookings/5/status", `{"status":"confirmed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), svc.gotID)
	assert.Equal(t, int64(9), svc.gotReq.UserID)
	assert.Equal(t, "confirmed", svc.gotReq.Status)
}

func TestHandle_InvalidStateHasDistinctMessage(t *testing.T) {
	svc := &serviceStub{err: fmt.Errorf("%w: cancelled -> confirmed", domain.ErrInvalidState)}

	rec := patch(svc, "/bookings/5/status", `{"status":"confirmed"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Message, "статуса")
	assert.Contains(t, body.Details, "cancelled -> confirmed")
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		err    error
		status int
	}{
		{"bad id", "/bookings/x/status", `{"status":"confirmed"}`, nil, http.StatusBadRequest},
		{"bad body", "/bookings/5/status", `status=confirmed`, nil, http.StatusBadRequest},
		{"unknown status", "/bookings/5/status", `{"status":"done"}`, fmt.Errorf("%w: status", domain.ErrInvalidState), http.StatusConflict},
		{"access denied", "/bookings/5/status", `{"status":"completed"}`, bookings.ErrAccessDenied, http.StatusForbidden},
		{"not found", "/bookings/5/status", `{"status":"completed"}`, bookings.ErrBookingNotFound, http.StatusNotFound},
		{"internal", "/bookings/5/status", `{"status":"completed"}`, bookings.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := patch(&serviceStub{err: tt.err}, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
