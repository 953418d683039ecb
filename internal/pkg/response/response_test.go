package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retreatbooking/internal/domain"
)

func TestStatus_MapsTaxonomy(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("booking 4: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("duplicate: %w", domain.ErrConflict), http.StatusConflict, "CONFLICT"},
		{domain.ErrInsufficientInventory, http.StatusBadRequest, "INSUFFICIENT_INVENTORY"},
		{domain.ErrInvalidBookingState, http.StatusConflict, "INVALID_BOOKING_STATE"},
		{domain.ErrUpstreamPayment, http.StatusBadGateway, "UPSTREAM_PAYMENT_ERROR"},
		{domain.NewValidationError("bad", nil), http.StatusBadRequest, "VALIDATION_ERROR"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		status, code := Status(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestFromError_HidesInternalMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	FromError(c, errors.New("pq: password authentication failed"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.Len(t, c.Errors, 1)
}

func TestFromError_ValidationDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	FromError(c, domain.NewValidationError("invalid retreat", map[string]string{"Name": "required"}))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "required", body.Error.Details["Name"])
}
