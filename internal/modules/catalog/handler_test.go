package catalog

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

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	handler := NewHandler(NewService(db, zap.NewNop()))
	router := gin.New()
	v1 := router.Group("/api/v1")
	handler.RegisterPublicRoutes(v1)
	handler.RegisterPromoRoutes(v1)
	handler.RegisterAdminRoutes(v1)
	handler.RegisterEditorRoutes(v1)
	handler.RegisterOwnerRoutes(v1)
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

func TestHandler_RetreatLifecycle(t *testing.T) {
	router, _ := setupRouter(t)

	resp := performRequest(router, http.MethodPost, "/api/v1/retreats", map[string]any{
		"name":         "Desert Silence",
		"location":     "Wadi Rum, Jordan",
		"basePrice":    1100,
		"maxCapacity":  10,
		"retreatDates": []map[string]any{{"startDate": "2026-11-02", "endDate": "2026-11-08"}},
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var created struct {
		Data domain.Retreat `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	require.Len(t, created.Data.Dates, 1)
	assert.Equal(t, 10, created.Data.Dates[0].Capacity)
	id := created.Data.ID

	resp = performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/retreats/%d/rooms", id), map[string]any{
		"name":         "Bedouin Tent",
		"packagePrice": 950,
		"maxGuests":    2,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = performRequest(router, http.MethodGet, fmt.Sprintf("/api/v1/retreats/%d", id), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Bedouin Tent")

	resp = performRequest(router, http.MethodGet, "/api/v1/rooms", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Desert Silence")

	resp = performRequest(router, http.MethodDelete, fmt.Sprintf("/api/v1/retreats/%d", id), nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = performRequest(router, http.MethodGet, fmt.Sprintf("/api/v1/retreats/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHandler_DeleteBookedRetreatConflicts(t *testing.T) {
	router, db := setupRouter(t)
	inv := testutil.SeedInventory(t, db, 4, 2, 1000)
	guest := domain.Guest{FirstName: "Ana", LastName: "Silva", Email: "ana@example.com"}
	require.NoError(t, db.Create(&guest).Error)
	require.NoError(t, db.Omit("Guest", "Retreat", "RetreatDate", "RoomType", "PromoCode").Create(&domain.Booking{
		GuestID:        guest.ID,
		RetreatID:      inv.Retreat.ID,
		RetreatDateID:  inv.Date.ID,
		RoomTypeID:     inv.RoomType.ID,
		NumberOfGuests: 1,
		TotalPrice:     1000,
		Status:         domain.BookingPending,
	}).Error)

	resp := performRequest(router, http.MethodDelete, fmt.Sprintf("/api/v1/retreats/%d", inv.Retreat.ID), nil)
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestHandler_ValidatePromo(t *testing.T) {
	router, db := setupRouter(t)
	testutil.SeedPromo(t, db, "OCEAN20", 20)

	resp := performRequest(router, http.MethodPost, "/api/v1/promo/validate", map[string]string{"code": "ocean20"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"discountPercentage":20`)
	assert.Contains(t, resp.Body.String(), `"isValid":true`)

	resp = performRequest(router, http.MethodPost, "/api/v1/promo/validate", map[string]string{"code": "missing"})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = performRequest(router, http.MethodPost, "/api/v1/promo/validate", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHandler_InvalidRetreatID(t *testing.T) {
	router, _ := setupRouter(t)

	resp := performRequest(router, http.MethodGet, "/api/v1/retreats/abc/dates", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = performRequest(router, http.MethodGet, "/api/v1/retreats/77/dates", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
