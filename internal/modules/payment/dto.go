package payment

import "retreatbooking/internal/modules/booking"

// CreateSessionRequest is the POST /payment/create-session body. Client
// totals and discounts are not read; the charge is derived server side.
type CreateSessionRequest struct {
	RetreatID      int64              `json:"retreatId" binding:"required"`
	DateID         int64              `json:"dateId" binding:"required"`
	RoomID         int64              `json:"roomId" binding:"required"`
	NumberOfGuests int                `json:"numberOfGuests" binding:"required,min=1"`
	GuestInfo      *booking.GuestInfo `json:"guestInfo" binding:"required"`
	PromoCode      string             `json:"promoCode"`
}

func (r CreateSessionRequest) Input() booking.CreateBookingInput {
	return booking.CreateBookingInput{
		Guest:          r.GuestInfo,
		RetreatID:      r.RetreatID,
		RetreatDateID:  r.DateID,
		RoomTypeID:     r.RoomID,
		NumberOfGuests: r.NumberOfGuests,
		PromoCode:      r.PromoCode,
	}
}

type OpenCheckoutRequest struct {
	BookingID int64 `json:"bookingId" binding:"required"`
}

type CheckoutResult struct {
	SessionID   string  `json:"sessionId"`
	CheckoutURL string  `json:"checkoutUrl"`
	BookingID   int64   `json:"bookingId"`
	Amount      float64 `json:"amount"`
}

type CompletionResult struct {
	BookingID        int64  `json:"bookingId"`
	PaymentID        int64  `json:"paymentId"`
	AlreadyProcessed bool   `json:"alreadyProcessed"`
	Ignored          bool   `json:"ignored,omitempty"`
	EventType        string `json:"eventType,omitempty"`
}
