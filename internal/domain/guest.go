package domain

import (
	"strings"
	"time"
)

type Guest struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	FirstName string    `json:"firstName" gorm:"type:varchar(100);not null" validate:"required"`
	LastName  string    `json:"lastName" gorm:"type:varchar(100);not null" validate:"required"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex" validate:"required,email"`
	Phone     string    `json:"phone" gorm:"type:varchar(50)"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:GuestID"`
}

// NormalizeEmail is the canonical form guests are matched on.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (g Guest) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}
