package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"retreatbooking/internal/domain"
	"retreatbooking/internal/testutil"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func seedConfirmedBooking(t *testing.T, db *gorm.DB, promo *domain.PromoCode) domain.Booking {
	t.Helper()
	inv := testutil.SeedInventory(t, db, 10, 2, 1200)
	guest := domain.Guest{FirstName: "Ana", LastName: "Silva", Email: "ana@example.com"}
	require.NoError(t, db.Create(&guest).Error)

	b := domain.Booking{
		GuestID:        guest.ID,
		RetreatID:      inv.Retreat.ID,
		RetreatDateID:  inv.Date.ID,
		RoomTypeID:     inv.RoomType.ID,
		NumberOfGuests: 2,
		TotalPrice:     1080,
		Status:         domain.BookingConfirmed,
	}
	if promo != nil {
		b.PromoCodeID = &promo.ID
	}
	require.NoError(t, db.Omit("Guest", "Retreat", "RetreatDate", "RoomType", "PromoCode").Create(&b).Error)
	return b
}

func TestDispatcher_BookingConfirmation(t *testing.T) {
	db := testutil.NewDB(t)
	promo := testutil.SeedPromo(t, db, "SUMMER10", 10)
	b := seedConfirmedBooking(t, db, &promo)
	mailer := &captureMailer{}
	d := NewDispatcher(db, mailer, "eur", zap.NewNop())

	d.BookingStatusChanged(context.Background(), domain.BookingStatusChange{
		BookingID: b.ID,
		From:      domain.BookingPending,
		To:        domain.BookingConfirmed,
	})

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, "ana@example.com", msg.To)
	assert.Equal(t, "Booking Confirmed - Ocean Flow", msg.Subject)
	assert.Contains(t, msg.HTML, "Ana Silva")
	assert.Contains(t, msg.HTML, "3:00 PM")
	assert.Contains(t, msg.HTML, "11:00 AM")
	assert.Contains(t, msg.HTML, "SUMMER10 (10% off)")
	assert.Contains(t, msg.HTML, "1080.00 EUR")
	assert.Contains(t, msg.HTML, "Monday, June 1, 2026")
}

func TestDispatcher_IgnoresNonConfirmingChanges(t *testing.T) {
	db := testutil.NewDB(t)
	b := seedConfirmedBooking(t, db, nil)
	mailer := &captureMailer{}
	d := NewDispatcher(db, mailer, "eur", zap.NewNop())

	d.BookingStatusChanged(context.Background(), domain.BookingStatusChange{BookingID: b.ID, To: domain.BookingPending})
	d.BookingStatusChanged(context.Background(), domain.BookingStatusChange{BookingID: b.ID, From: domain.BookingConfirmed, To: domain.BookingCancelled})

	assert.Empty(t, mailer.sent)
}

func TestDispatcher_PaymentReceipt(t *testing.T) {
	db := testutil.NewDB(t)
	b := seedConfirmedBooking(t, db, nil)
	paidAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	p := domain.Payment{
		BookingID:         b.ID,
		ExternalSessionID: "cs_receipt",
		Amount:            1080,
		PaymentType:       domain.PaymentFull,
		Status:            domain.PaymentCompleted,
		PaidAt:            &paidAt,
		ReceiptURL:        "https://stripe.com/receipts/cs_receipt",
	}
	require.NoError(t, db.Omit("Booking").Create(&p).Error)
	mailer := &captureMailer{}

	NewDispatcher(db, mailer, "eur", zap.NewNop()).SendPaymentReceipt(context.Background(), p.ID)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Payment Receipt - Ocean Flow", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].HTML, "https://stripe.com/receipts/cs_receipt")
	assert.Contains(t, mailer.sent[0].HTML, "Monday, March 2, 2026")
}

func TestDispatcher_InfluencerCommission(t *testing.T) {
	db := testutil.NewDB(t)
	promo := testutil.SeedPromo(t, db, "SUMMER10", 10)
	b := seedConfirmedBooking(t, db, &promo)
	mailer := &captureMailer{}

	NewDispatcher(db, mailer, "eur", zap.NewNop()).SendInfluencerCommission(context.Background(), b.ID)

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, "maya@example.com", msg.To)
	assert.Equal(t, "New Booking via Your Promo Code - SUMMER10", msg.Subject)
	assert.Contains(t, msg.HTML, "108.00 EUR")
	assert.Contains(t, msg.HTML, "<td>1</td>")
}

func TestDispatcher_InfluencerCommissionSkippedWithoutPromo(t *testing.T) {
	db := testutil.NewDB(t)
	b := seedConfirmedBooking(t, db, nil)
	mailer := &captureMailer{}

	NewDispatcher(db, mailer, "eur", zap.NewNop()).SendInfluencerCommission(context.Background(), b.ID)
	assert.Empty(t, mailer.sent)
}

func TestDispatcher_FailuresAreSwallowed(t *testing.T) {
	db := testutil.NewDB(t)
	b := seedConfirmedBooking(t, db, nil)
	mailer := &captureMailer{err: errors.New("smtp unavailable")}
	d := NewDispatcher(db, mailer, "eur", zap.NewNop())

	assert.NotPanics(t, func() {
		d.SendBookingConfirmation(context.Background(), b.ID)
		d.SendBookingConfirmation(context.Background(), 4040)
		d.SendPaymentReceipt(context.Background(), 4040)
	})
}

func TestDispatcher_TeacherAssignmentReturnsError(t *testing.T) {
	db := testutil.NewDB(t)
	inv := testutil.SeedInventory(t, db, 10, 2, 1200)
	teacher := domain.Teacher{Name: "Ravi Das", Email: "ravi@example.com", ContactNumber: "+44 1", IsActive: true}
	require.NoError(t, db.Create(&teacher).Error)
	a := domain.TeacherRetreatAssignment{
		TeacherID:     teacher.ID,
		RetreatID:     inv.Retreat.ID,
		RetreatDateID: inv.Date.ID,
		Role:          domain.DefaultAssignmentRole,
	}
	require.NoError(t, db.Omit("Teacher", "Retreat", "RetreatDate").Create(&a).Error)

	ok := &captureMailer{}
	require.NoError(t, NewDispatcher(db, ok, "eur", zap.NewNop()).SendTeacherAssignment(context.Background(), a.ID))
	require.Len(t, ok.sent, 1)
	assert.Equal(t, "New Retreat Assignment - Ocean Flow", ok.sent[0].Subject)
	assert.Contains(t, ok.sent[0].HTML, "Instructor")

	failing := &captureMailer{err: errors.New("rejected")}
	assert.Error(t, NewDispatcher(db, failing, "eur", zap.NewNop()).SendTeacherAssignment(context.Background(), a.ID))
}
