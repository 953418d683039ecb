package domain

import (
	"time"

	"gorm.io/datatypes"
)

const DefaultPackageDurationDays = 6

type Package struct {
	ID            int64                       `json:"id" gorm:"primaryKey"`
	RetreatID     int64                       `json:"retreatId" gorm:"not null;index"`
	Name          string                      `json:"name" gorm:"type:varchar(255);not null" validate:"required"`
	Description   string                      `json:"description" gorm:"type:text"`
	PricePerNight float64                     `json:"pricePerNight" gorm:"not null" validate:"gt=0"`
	DurationDays  int                         `json:"durationDays" gorm:"not null" validate:"gt=0"`
	MaxGuests     int                         `json:"maxGuests" gorm:"not null" validate:"gt=0"`
	Amenities     datatypes.JSONSlice[string] `json:"amenities"`
	Inclusions    datatypes.JSONSlice[string] `json:"inclusions"`
	Features      datatypes.JSONSlice[string] `json:"features"`
	DisplayOrder  int                         `json:"displayOrder" gorm:"not null;default:0"`
	IsActive      bool                        `json:"isActive" gorm:"not null"`
	CreatedAt     time.Time                   `json:"createdAt"`
	UpdatedAt     time.Time                   `json:"updatedAt"`

	RoomTypes []RoomType `json:"roomTypes,omitempty" gorm:"foreignKey:PackageID"`
}

type RoomType struct {
	ID           int64                       `json:"id" gorm:"primaryKey"`
	RetreatID    int64                       `json:"retreatId" gorm:"not null;index"`
	PackageID    *int64                      `json:"packageId" gorm:"index"`
	Name         string                      `json:"name" gorm:"type:varchar(255);not null" validate:"required"`
	Description  string                      `json:"description" gorm:"type:text"`
	PackagePrice float64                     `json:"packagePrice" gorm:"not null" validate:"gt=0"`
	MaxGuests    int                         `json:"maxGuests" gorm:"not null" validate:"gt=0"`
	Amenities    datatypes.JSONSlice[string] `json:"amenities"`
	CreatedAt    time.Time                   `json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`

	Package *Package `json:"package,omitempty" gorm:"foreignKey:PackageID"`
	Retreat *Retreat `json:"retreat,omitempty" gorm:"foreignKey:RetreatID"`
}
