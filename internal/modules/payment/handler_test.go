package payment

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T, f *fixture) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewHandler(f.svc, zap.NewNop())
	router := gin.New()
	v1 := router.Group("/api/v1")
	h.RegisterPublicRoutes(v1)
	h.RegisterWebhookRoutes(v1)
	return router
}

func doRawRequest(router *gin.Engine, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHandler_CreateSession(t *testing.T) {
	f := newFixture(t, 10)
	router := setupRouter(t, f)
	f.gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(&CheckoutSession{ID: "cs_http", URL: "https://checkout.stripe.com/c/cs_http"}, nil).Once()

	body, _ := json.Marshal(map[string]any{
		"guestInfo":      map[string]any{"firstName": "Ana", "lastName": "Silva", "email": "ana@example.com"},
		"retreatId":      f.inv.Retreat.ID,
		"dateId":         f.inv.Date.ID,
		"roomId":         f.inv.RoomType.ID,
		"numberOfGuests": 1,
		"totalPrice":     1,
	})
	resp := doRawRequest(router, "/api/v1/payment/create-session", body, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var payload struct {
		Data CheckoutResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "cs_http", payload.Data.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/c/cs_http", payload.Data.CheckoutURL)
	assert.NotZero(t, payload.Data.BookingID)
	assert.Equal(t, 1200.0, payload.Data.Amount)
}

func TestHandler_CreateSessionRequiresGuestAndIDs(t *testing.T) {
	f := newFixture(t, 10)
	router := setupRouter(t, f)

	cases := map[string]map[string]any{
		"no guest info": {
			"retreatId": f.inv.Retreat.ID, "dateId": f.inv.Date.ID, "roomId": f.inv.RoomType.ID, "numberOfGuests": 1,
		},
		"booking field names": {
			"guestInfo": map[string]any{"firstName": "Ana", "lastName": "Silva", "email": "ana@example.com"},
			"retreatId": f.inv.Retreat.ID, "retreatDateId": f.inv.Date.ID, "roomTypeId": f.inv.RoomType.ID, "numberOfGuests": 1,
		},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			body, _ := json.Marshal(req)
			resp := doRawRequest(router, "/api/v1/payment/create-session", body, nil)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Contains(t, resp.Body.String(), "VALIDATION_ERROR")
		})
	}
	f.gateway.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestHandler_WebhookBodyTooLarge(t *testing.T) {
	f := newFixture(t, 10)
	router := setupRouter(t, f)

	payload := bytes.Repeat([]byte("x"), maxWebhookBytes+1)
	resp := doRawRequest(router, "/api/v1/payment/webhook", payload, map[string]string{
		"Stripe-Signature": signPayload(payload, testWebhookSecret),
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	assert.Contains(t, resp.Body.String(), "PAYLOAD_TOO_LARGE")
}

func TestHandler_WebhookSignatureErrors(t *testing.T) {
	f := newFixture(t, 10)
	router := setupRouter(t, f)
	payload := completedEvent("cs_nope", 100, 1)

	resp := doRawRequest(router, "/api/v1/payment/webhook", payload, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "SIGNATURE_INVALID")

	resp = doRawRequest(router, "/api/v1/payment/webhook", payload, map[string]string{
		"Stripe-Signature": signPayload(payload, "whsec_wrong"),
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "SIGNATURE_INVALID")
}

func TestHandler_WebhookUnknownSession(t *testing.T) {
	f := newFixture(t, 10)
	router := setupRouter(t, f)
	payload := completedEvent("cs_unknown", 100, 1)

	resp := doRawRequest(router, "/api/v1/payment/webhook", payload, map[string]string{
		"Stripe-Signature": signPayload(payload, testWebhookSecret),
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHandler_WebhookSoldOutIsConflict(t *testing.T) {
	f := newFixture(t, 1)
	router := setupRouter(t, f)
	f.openSession(t, f.input("late@example.com", 1), "cs_conflict")

	other, err := f.lifecycle.CreateBooking(t.Context(), f.input("early@example.com", 1))
	require.NoError(t, err)
	_, err = f.lifecycle.TransitionStatus(t.Context(), other.ID, "CONFIRMED")
	require.NoError(t, err)

	payload := completedEvent("cs_conflict", 120000, 1)
	resp := doRawRequest(router, "/api/v1/payment/webhook", payload, map[string]string{
		"Stripe-Signature": signPayload(payload, testWebhookSecret),
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "INSUFFICIENT_INVENTORY")
}
