package booking

import (
	"context"

	"gorm.io/gorm"

	"retreatbooking/internal/domain"
)

// Observer is told about every committed status change. Implementations
// must not block for long and cannot fail the transition.
type Observer interface {
	BookingStatusChanged(ctx context.Context, change domain.BookingStatusChange)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, change domain.BookingStatusChange)

func (f ObserverFunc) BookingStatusChanged(ctx context.Context, change domain.BookingStatusChange) {
	f(ctx, change)
}

// TxHook runs inside the transition transaction after the booking row is
// locked. Returning an error rolls the whole transition back, except
// SkipTransition, which commits the hook's writes and leaves the status
// and the booked counter untouched.
type TxHook func(tx *gorm.DB, locked *domain.Booking) error
