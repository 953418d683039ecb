package payment

import (
	"context"

	"retreatbooking/internal/domain"
	"retreatbooking/internal/modules/booking"
)

type bookingLifecycle interface {
	CreateBooking(ctx context.Context, in booking.CreateBookingInput) (*domain.Booking, error)
	TransitionWithin(ctx context.Context, bookingID int64, to domain.BookingStatus, hook booking.TxHook) (*domain.Booking, error)
}

// Notifier sends the post-payment emails. Delivery failures are the
// notifier's to log.
type Notifier interface {
	SendPaymentReceipt(ctx context.Context, paymentID int64)
	SendInfluencerCommission(ctx context.Context, bookingID int64)
}
