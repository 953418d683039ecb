package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID             int64         `json:"id" gorm:"primaryKey"`
	GuestID        int64         `json:"guestId" gorm:"not null;index"`
	RetreatID      int64         `json:"retreatId" gorm:"not null;index"`
	RetreatDateID  int64         `json:"retreatDateId" gorm:"not null;index"`
	RoomTypeID     int64         `json:"roomTypeId" gorm:"not null;index"`
	PromoCodeID    *int64        `json:"promoCodeId" gorm:"index"`
	NumberOfGuests int           `json:"numberOfGuests" gorm:"not null"`
	TotalPrice     float64       `json:"totalPrice" gorm:"not null"`
	Status         BookingStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`

	Guest       *Guest       `json:"guest,omitempty" gorm:"foreignKey:GuestID"`
	Retreat     *Retreat     `json:"retreat,omitempty" gorm:"foreignKey:RetreatID"`
	RetreatDate *RetreatDate `json:"retreatDate,omitempty" gorm:"foreignKey:RetreatDateID"`
	RoomType    *RoomType    `json:"roomType,omitempty" gorm:"foreignKey:RoomTypeID"`
	PromoCode   *PromoCode   `json:"promoCode,omitempty" gorm:"foreignKey:PromoCodeID"`
	Payments    []Payment    `json:"payments,omitempty" gorm:"foreignKey:BookingID"`
}

// BookingStatusChange is published to observers after a status write commits.
type BookingStatusChange struct {
	BookingID      int64         `json:"bookingId"`
	RetreatID      int64         `json:"retreatId"`
	RetreatDateID  int64         `json:"retreatDateId"`
	NumberOfGuests int           `json:"numberOfGuests"`
	TotalPrice     float64       `json:"totalPrice"`
	From           BookingStatus `json:"from,omitempty"`
	To             BookingStatus `json:"to"`
	At             time.Time     `json:"at"`
}
