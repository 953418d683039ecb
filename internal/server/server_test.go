package server

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"retreatbooking/internal/config"
	"retreatbooking/internal/domain"
	"retreatbooking/internal/middleware"
	"retreatbooking/internal/modules/auth"
	"retreatbooking/internal/modules/notification"
	"retreatbooking/internal/modules/payment"
	"retreatbooking/internal/pkg/jwt"
	"retreatbooking/internal/repository"
	"retreatbooking/internal/testutil"
)

const webhookSecret = "whsec_server_test"

type fakeGateway struct {
	webhooks *payment.StripeGateway
	sessions int
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	g.sessions++
	id := fmt.Sprintf("cs_test_%d_%d", req.BookingID, g.sessions)
	return &payment.CheckoutSession{ID: id, URL: "https://checkout.example/" + id}, nil
}

func (g *fakeGateway) ParseWebhook(payload []byte, signature string) (*payment.Event, error) {
	return g.webhooks.ParseWebhook(payload, signature)
}

func (g *fakeGateway) ReceiptURL(sessionID string) string {
	return g.webhooks.ReceiptURL(sessionID)
}

type outbox struct {
	mu   sync.Mutex
	sent []notification.Message
}

func (o *outbox) Send(_ context.Context, msg notification.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

func (o *outbox) subjects() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.sent))
	for _, m := range o.sent {
		out = append(out, m.Subject)
	}
	return out
}

type harness struct {
	db     *gorm.DB
	jwt    *jwt.Service
	router *gin.Engine
	mail   *outbox
	inv    testutil.Inventory
}

func newHarness(t *testing.T, limiter middleware.Limiter) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	h := &harness{
		db:   db,
		jwt:  jwt.New("server-test-secret", time.Hour),
		mail: &outbox{},
		inv:  testutil.SeedInventory(t, db, 10, 2, 1000),
	}
	srv := New(Deps{
		Config: &config.Config{
			AppEnv:             "test",
			CheckoutCurrency:   "eur",
			AppBaseURL:         "https://retreats.example",
			CORSAllowedOrigins: []string{"https://retreats.example"},
		},
		DB:      db,
		Logger:  zap.NewNop(),
		JWT:     h.jwt,
		Mailer:  h.mail,
		Gateway: &fakeGateway{webhooks: payment.NewStripeGateway("", webhookSecret)},
		Limiter: limiter,
	})
	h.router = srv.Engine
	return h
}

func (h *harness) token(t *testing.T, role domain.AdminRole) string {
	t.Helper()
	svc := auth.NewService(repository.NewAdminUserRepository(h.db), h.jwt, zap.NewNop())
	email := fmt.Sprintf("%s@retreats.example", role)
	_, err := svc.CreateAdmin(context.Background(), auth.CreateAdminRequest{
		Email:    email,
		Name:     string(role),
		Password: "correct-horse",
		Role:     role,
	})
	require.NoError(t, err)

	w := h.do(t, http.MethodPost, "/api/v1/admin/auth/login", map[string]string{
		"email":    email,
		"password": "correct-horse",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Token)
	return body.Data.Token
}

func (h *harness) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) webhook(t *testing.T, sessionID string, amountMinor, bookingID int64) *httptest.ResponseRecorder {
	t.Helper()
	payload := []byte(fmt.Sprintf(`{
  "id": "evt_server_1",
  "object": "event",
  "type": "checkout.session.completed",
  "data": {
    "object": {
      "id": %q,
      "object": "checkout.session",
      "amount_total": %d,
      "metadata": {"bookingId": "%d", "paymentType": "FULL"}
    }
  }
}`, sessionID, amountMinor, bookingID))

	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil))))
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.True(t, env.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func TestHealth(t *testing.T) {
	h := newHarness(t, nil)
	w := h.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestCheckoutToConfirmation(t *testing.T) {
	h := newHarness(t, nil)

	w := h.do(t, http.MethodPost, "/api/v1/payment/create-session", map[string]any{
		"guestInfo":      map[string]string{"firstName": "Ana", "lastName": "Silva", "email": "ana@example.com"},
		"retreatId":      h.inv.Retreat.ID,
		"dateId":         h.inv.Date.ID,
		"roomId":         h.inv.RoomType.ID,
		"numberOfGuests": 2,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var checkout payment.CheckoutResult
	decodeData(t, w, &checkout)
	assert.Equal(t, 1000.0, checkout.Amount)
	assert.NotEmpty(t, checkout.SessionID)

	w = h.webhook(t, checkout.SessionID, 100000, checkout.BookingID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// replayed delivery is acknowledged without a second confirmation
	w = h.webhook(t, checkout.SessionID, 100000, checkout.BookingID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var date domain.RetreatDate
	require.NoError(t, h.db.First(&date, h.inv.Date.ID).Error)
	assert.Equal(t, 2, date.Booked)

	viewer := h.token(t, domain.RoleViewer)
	w = h.do(t, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d", checkout.BookingID), nil, viewer)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var b domain.Booking
	decodeData(t, w, &b)
	assert.Equal(t, domain.BookingConfirmed, b.Status)

	assert.Contains(t, h.mail.subjects(), "Booking Confirmed - Ocean Flow")
	assert.Contains(t, h.mail.subjects(), "Payment Receipt - Ocean Flow")
}

func TestRoleGates(t *testing.T) {
	h := newHarness(t, nil)
	viewer := h.token(t, domain.RoleViewer)
	manager := h.token(t, domain.RoleManager)

	w := h.do(t, http.MethodGet, "/api/v1/bookings", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(t, http.MethodGet, "/api/v1/bookings", nil, viewer)
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, http.MethodPatch, "/api/v1/bookings", map[string]any{"bookingId": 1, "status": "CONFIRMED"}, viewer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/retreats/%d", h.inv.Retreat.ID), nil, manager)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(t, http.MethodGet, "/api/v1/admin/dashboard", nil, manager)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	h := newHarness(t, nil)
	w := h.do(t, http.MethodGet, "/api/v1/retreats", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var retreats []domain.Retreat
	decodeData(t, w, &retreats)
	require.Len(t, retreats, 1)
	assert.Equal(t, "Ocean Flow", retreats[0].Name)
}

func TestPublicWritesAreRateLimited(t *testing.T) {
	h := newHarness(t, middleware.NewLocalLimiter(1))
	body := map[string]string{"code": "NOPE"}

	w := h.do(t, http.MethodPost, "/api/v1/promo/validate", body, "")
	assert.NotEqual(t, http.StatusTooManyRequests, w.Code)

	w = h.do(t, http.MethodPost, "/api/v1/promo/validate", body, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// reads stay open
	w = h.do(t, http.MethodGet, "/api/v1/retreats", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
