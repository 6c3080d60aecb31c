package get_customer_bookings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonScheduler/pkg/logger"
)

type serviceStub struct {
	got *models.GetCustomerBookingsRequest
	err error
}

func (s *serviceStub) GetCustomerBookings(_ context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 3}, {ID: 1}}}, nil
}

func get(svc *serviceStub, userID, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/customers/{customerId}/bookings", NewHandler(svc, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set(middleware.HeaderUserID, userID)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &serviceStub{}

	rec := get(svc, "100", "/customers/100/bookings?status=cancelled")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(100), svc.got.CustomerID)
	assert.Equal(t, "cancelled", *svc.got.Status)

	var body []models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, int64(3), body[0].ID)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, get(&serviceStub{err: bookings.ErrAccessDenied}, "7", "/customers/100/bookings").Code)
	assert.Equal(t, http.StatusBadRequest, get(&serviceStub{err: bookings.ErrInvalidInput}, "100", "/customers/100/bookings?status=x").Code)
	assert.Equal(t, http.StatusBadRequest, get(&serviceStub{}, "100", "/customers/abc/bookings").Code)
	assert.Equal(t, http.StatusInternalServerError, get(&serviceStub{err: bookings.ErrInternal}, "100", "/customers/100/bookings").Code)
}
