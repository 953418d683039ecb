package booking

import (
	"strings"

	"retreatbooking/internal/domain"
)

type GuestInfo struct {
	FirstName string `json:"firstName" binding:"required" validate:"required"`
	LastName  string `json:"lastName" binding:"required" validate:"required"`
	Email     string `json:"email" binding:"required" validate:"required,email"`
	Phone     string `json:"phone"`
}

// Normalized trims every field and lowercases the email. The address is
// validated after normalizing, so surrounding whitespace is accepted.
func (g GuestInfo) Normalized() GuestInfo {
	return GuestInfo{
		FirstName: strings.TrimSpace(g.FirstName),
		LastName:  strings.TrimSpace(g.LastName),
		Email:     domain.NormalizeEmail(g.Email),
		Phone:     strings.TrimSpace(g.Phone),
	}
}

func (g GuestInfo) guest() *domain.Guest {
	return &domain.Guest{
		FirstName: g.FirstName,
		LastName:  g.LastName,
		Email:     g.Email,
		Phone:     g.Phone,
	}
}

// CreateBookingInput identifies the guest either by id or by contact
// details, which are upserted by email.
type CreateBookingInput struct {
	GuestID        int64
	Guest          *GuestInfo
	RetreatID      int64
	RetreatDateID  int64
	RoomTypeID     int64
	NumberOfGuests int
	PromoCodeID    *int64
	PromoCode      string
}

// CreateBookingRequest is the POST /bookings body. Any client supplied
// total is ignored; the price is always derived server side.
type CreateBookingRequest struct {
	GuestID        int64      `json:"guestId"`
	GuestInfo      *GuestInfo `json:"guestInfo"`
	RetreatID      int64      `json:"retreatId" binding:"required"`
	RetreatDateID  int64      `json:"retreatDateId" binding:"required"`
	RoomTypeID     int64      `json:"roomTypeId" binding:"required"`
	NumberOfGuests int        `json:"numberOfGuests" binding:"required,min=1"`
	PromoCodeID    *int64     `json:"promoCodeId"`
	PromoCode      string     `json:"promoCode"`
}

func (r CreateBookingRequest) Input() CreateBookingInput {
	return CreateBookingInput{
		GuestID:        r.GuestID,
		Guest:          r.GuestInfo,
		RetreatID:      r.RetreatID,
		RetreatDateID:  r.RetreatDateID,
		RoomTypeID:     r.RoomTypeID,
		NumberOfGuests: r.NumberOfGuests,
		PromoCodeID:    r.PromoCodeID,
		PromoCode:      r.PromoCode,
	}
}

type UpdateStatusRequest struct {
	BookingID int64                `json:"bookingId" binding:"required"`
	Status    domain.BookingStatus `json:"status" binding:"required"`
}
