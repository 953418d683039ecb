package booking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"retreatbooking/internal/domain"
	"retreatbooking/internal/testutil"
)

type bookingResponse struct {
	Success bool           `json:"success"`
	Data    domain.Booking `json:"data"`
}

type errorResponse struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	handler := NewHandler(NewService(db, zap.NewNop()))

	router := gin.New()
	v1 := router.Group("/api/v1")
	handler.RegisterPublicRoutes(v1)
	handler.RegisterAdminRoutes(v1)
	handler.RegisterEditorRoutes(v1)
	return router, db
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHandler_CreateAndConfirmBooking(t *testing.T) {
	router, db := setupRouter(t)
	inv := testutil.SeedInventory(t, db, 4, 2, 1500)

	body := map[string]any{
		"guestInfo": map[string]any{
			"firstName": "Lena",
			"lastName":  "Berg",
			"email":     "lena@example.com",
		},
		"retreatId":      inv.Retreat.ID,
		"retreatDateId":  inv.Date.ID,
		"roomTypeId":     inv.RoomType.ID,
		"numberOfGuests": 2,
		"totalPrice":     1,
	}
	resp := performRequest(router, http.MethodPost, "/api/v1/bookings", body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var created bookingResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.True(t, created.Success)
	assert.Equal(t, domain.BookingPending, created.Data.Status)
	assert.Equal(t, 1500.0, created.Data.TotalPrice, "client total must be ignored")

	resp = performRequest(router, http.MethodPatch, "/api/v1/bookings", map[string]any{
		"bookingId": created.Data.ID,
		"status":    "CONFIRMED",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, 2, testutil.Booked(t, db, inv.Date.ID))

	resp = performRequest(router, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d", created.Data.ID), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var got bookingResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, domain.BookingConfirmed, got.Data.Status)
	require.NotNil(t, got.Data.Guest)
	assert.Equal(t, "lena@example.com", got.Data.Guest.Email)
}

func TestHandler_CreateBookingErrors(t *testing.T) {
	router, db := setupRouter(t)
	inv := testutil.SeedInventory(t, db, 1, 2, 1500)

	cases := []struct {
		name   string
		guests int
		status int
		code   string
	}{
		{"room too small", 3, http.StatusBadRequest, "CAPACITY_EXCEEDED"},
		{"date too small", 2, http.StatusBadRequest, "INSUFFICIENT_INVENTORY"},
		{"zero guests", 0, http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := performRequest(router, http.MethodPost, "/api/v1/bookings", map[string]any{
				"guestInfo":      map[string]any{"firstName": "A", "lastName": "B", "email": "ab@example.com"},
				"retreatId":      inv.Retreat.ID,
				"retreatDateId":  inv.Date.ID,
				"roomTypeId":     inv.RoomType.ID,
				"numberOfGuests": tc.guests,
			})
			require.Equal(t, tc.status, resp.Code, resp.Body.String())

			var payload errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
			assert.False(t, payload.Success)
			assert.Equal(t, tc.code, payload.Error.Code)
		})
	}
}

func TestHandler_UpdateStatusErrors(t *testing.T) {
	router, _ := setupRouter(t)

	resp := performRequest(router, http.MethodPatch, "/api/v1/bookings", map[string]any{"bookingId": 404, "status": "CONFIRMED"})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = performRequest(router, http.MethodPatch, "/api/v1/bookings", map[string]any{"status": "CONFIRMED"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHandler_UpsertAndListGuests(t *testing.T) {
	router, _ := setupRouter(t)

	guest := map[string]any{"firstName": "Kai", "lastName": "Moana", "email": "Kai@Example.com"}
	resp := performRequest(router, http.MethodPost, "/api/v1/guests", guest)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	guest["lastName"] = "Nalu"
	resp = performRequest(router, http.MethodPost, "/api/v1/guests", guest)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = performRequest(router, http.MethodGet, "/api/v1/guests", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var payload struct {
		Data []domain.Guest `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.Data, 1)
	assert.Equal(t, "kai@example.com", payload.Data[0].Email)
	assert.Equal(t, "Nalu", payload.Data[0].LastName)
}

func TestHandler_GuestEmailIsTrimmedBeforeValidation(t *testing.T) {
	router, db := setupRouter(t)
	inv := testutil.SeedInventory(t, db, 5, 2, 900)

	resp := performRequest(router, http.MethodPost, "/api/v1/bookings", map[string]any{
		"guestInfo":      map[string]any{"firstName": "Noa", "lastName": "Reis", "email": "  Noa.Reis@Example.com "},
		"retreatId":      inv.Retreat.ID,
		"retreatDateId":  inv.Date.ID,
		"roomTypeId":     inv.RoomType.ID,
		"numberOfGuests": 1,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var got bookingResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.NotNil(t, got.Data.Guest)
	assert.Equal(t, "noa.reis@example.com", got.Data.Guest.Email)

	resp = performRequest(router, http.MethodPost, "/api/v1/guests", map[string]any{
		"firstName": "Noa", "lastName": "Reis", "email": "noa at example",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	var payload errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "VALIDATION_ERROR", payload.Error.Code)
	assert.Equal(t, "email", payload.Error.Details["Email"])
}
