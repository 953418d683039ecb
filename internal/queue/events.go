// Package queue publishes booking events to RabbitMQ.
package queue

import (
	"time"

	"retreatbooking/internal/domain"
)

const BookingConfirmedQueue = "booking.confirmed"

// BookingConfirmedEvent is the message body on the booking.confirmed queue.
type BookingConfirmedEvent struct {
	BookingID      int64     `json:"bookingId"`
	RetreatID      int64     `json:"retreatId"`
	RetreatDateID  int64     `json:"retreatDateId"`
	NumberOfGuests int       `json:"numberOfGuests"`
	TotalPrice     float64   `json:"totalPrice"`
	ConfirmedAt    time.Time `json:"confirmedAt"`
}

func newBookingConfirmedEvent(change domain.BookingStatusChange) BookingConfirmedEvent {
	at := change.At
	if at.IsZero() {
		at = time.Now()
	}
	return BookingConfirmedEvent{
		BookingID:      change.BookingID,
		RetreatID:      change.RetreatID,
		RetreatDateID:  change.RetreatDateID,
		NumberOfGuests: change.NumberOfGuests,
		TotalPrice:     change.TotalPrice,
		ConfirmedAt:    at.UTC(),
	}
}
