package domain

import (
	"strings"
	"time"
)

const DefaultDiscountPercentage = 10

type Influencer struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null" validate:"required"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null" validate:"required,email"`
	Bio       string    `json:"bio" gorm:"type:text"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	PromoCodes []PromoCode `json:"promoCodes,omitempty" gorm:"foreignKey:InfluencerID"`
}

type PromoCode struct {
	ID                 int64     `json:"id" gorm:"primaryKey"`
	Code               string    `json:"code" gorm:"type:varchar(64);not null;uniqueIndex" validate:"required"`
	InfluencerID       int64     `json:"influencerId" gorm:"not null;index"`
	DiscountPercentage int       `json:"discountPercentage" gorm:"not null" validate:"gte=1,lte=100"`
	IsActive           bool      `json:"isActive" gorm:"not null"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`

	Influencer *Influencer `json:"influencer,omitempty" gorm:"foreignKey:InfluencerID"`
	Bookings   []Booking   `json:"bookings,omitempty" gorm:"foreignKey:PromoCodeID"`
}

// NormalizePromoCode returns the stored form of a promo code.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
