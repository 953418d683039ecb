package domain

import (
	"time"

	"gorm.io/datatypes"
)

const DefaultMaxCapacity = 20

type Retreat struct {
	ID          int64                       `json:"id" gorm:"primaryKey"`
	Name        string                      `json:"name" gorm:"type:varchar(255);not null" validate:"required"`
	Location    string                      `json:"location" gorm:"type:varchar(255);not null" validate:"required"`
	Description string                      `json:"description" gorm:"type:text"`
	BasePrice   float64                     `json:"basePrice" gorm:"not null" validate:"gte=0"`
	MaxCapacity int                         `json:"maxCapacity" gorm:"not null" validate:"gte=0"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	Amenities   datatypes.JSONSlice[string] `json:"amenities"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`

	Dates     []RetreatDate `json:"retreatDates,omitempty" gorm:"foreignKey:RetreatID"`
	RoomTypes []RoomType    `json:"roomTypes,omitempty" gorm:"foreignKey:RetreatID"`
	Packages  []Package     `json:"packages,omitempty" gorm:"foreignKey:RetreatID"`
}

// RetreatDate is one scheduled run of a retreat. Booked is the number of
// guests held by CONFIRMED bookings and is only written by the booking
// lifecycle.
type RetreatDate struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	RetreatID int64     `json:"retreatId" gorm:"not null;index"`
	StartDate time.Time `json:"startDate" gorm:"not null" validate:"required"`
	EndDate   time.Time `json:"endDate" gorm:"not null" validate:"required,gtefield=StartDate"`
	Capacity  int       `json:"capacity" gorm:"not null" validate:"gte=0"`
	Booked    int       `json:"booked" gorm:"not null;default:0;check:chk_retreat_dates_booked,booked >= 0 AND booked <= capacity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Retreat *Retreat `json:"retreat,omitempty" gorm:"foreignKey:RetreatID"`
}

// Available returns the number of spots left on the date.
func (d RetreatDate) Available() int {
	return d.Capacity - d.Booked
}
