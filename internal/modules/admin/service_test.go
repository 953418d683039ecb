package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"retreatbooking/internal/domain"
	"retreatbooking/internal/modules/teacher"
	"retreatbooking/internal/testutil"
)

type mockResender struct {
	mock.Mock
}

func (m *mockResender) ResendPendingNotifications(ctx context.Context) (*teacher.ResendResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*teacher.ResendResult), args.Error(1)
}

func seedBookings(t *testing.T, db *gorm.DB) {
	t.Helper()
	inv := testutil.SeedInventory(t, db, 10, 2, 1000)
	guest := domain.Guest{FirstName: "Ana", LastName: "Silva", Email: "ana@example.com"}
	require.NoError(t, db.Create(&guest).Error)

	for _, b := range []struct {
		status domain.BookingStatus
		total  float64
	}{
		{domain.BookingConfirmed, 900},
		{domain.BookingConfirmed, 1000.5},
		{domain.BookingPending, 1000},
		{domain.BookingCancelled, 700},
	} {
		require.NoError(t, db.Omit("Guest", "Retreat", "RetreatDate", "RoomType", "PromoCode").Create(&domain.Booking{
			GuestID:        guest.ID,
			RetreatID:      inv.Retreat.ID,
			RetreatDateID:  inv.Date.ID,
			RoomTypeID:     inv.RoomType.ID,
			NumberOfGuests: 1,
			TotalPrice:     b.total,
			Status:         b.status,
		}).Error)
	}
}

func TestDashboard(t *testing.T) {
	db := testutil.NewDB(t)
	seedBookings(t, db)
	svc := NewService(db, new(mockResender), zap.NewNop())

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 4, d.TotalBookings)
	assert.EqualValues(t, 2, d.ConfirmedBookings)
	assert.EqualValues(t, 1, d.PendingBookings)
	assert.EqualValues(t, 1, d.CancelledBookings)
	assert.InDelta(t, 1900.5, d.TotalRevenue, 0.001)
	assert.EqualValues(t, 1, d.TotalGuests)
	assert.EqualValues(t, 1, d.TotalRetreats)
	assert.Len(t, d.RecentBookings, 4)
}

func TestSendPendingNotifications(t *testing.T) {
	db := testutil.NewDB(t)
	resender := new(mockResender)
	resender.On("ResendPendingNotifications", mock.Anything).Return(&teacher.ResendResult{Sent: 3, Failed: 1}, nil).Once()
	svc := NewService(db, resender, zap.NewNop())

	res, err := svc.SendPendingNotifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Sent 3 notifications, 1 failed", res.Message)
	assert.Equal(t, 3, res.Sent)
	assert.Equal(t, 1, res.Failed)

	resender.On("ResendPendingNotifications", mock.Anything).Return(nil, errors.New("db down")).Once()
	_, err = svc.SendPendingNotifications(context.Background())
	assert.Error(t, err)
}

func TestHandler_Dashboard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	seedBookings(t, db)

	router := gin.New()
	h := NewHandler(NewService(db, new(mockResender), zap.NewNop()))
	h.RegisterAdminRoutes(router.Group("/api/v1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"confirmedBookings":2`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
