package domain

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
)

type PaymentType string

const (
	PaymentFull    PaymentType = "FULL"
	PaymentDeposit PaymentType = "DEPOSIT"
)

type Payment struct {
	ID                int64         `json:"id" gorm:"primaryKey"`
	BookingID         int64         `json:"bookingId" gorm:"not null;index"`
	ExternalSessionID string        `json:"externalSessionId" gorm:"type:varchar(255);not null;uniqueIndex"`
	Amount            float64       `json:"amount" gorm:"not null"`
	PaymentType       PaymentType   `json:"paymentType" gorm:"type:varchar(20);not null"`
	Status            PaymentStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	PaidAt            *time.Time    `json:"paidAt"`
	ReceiptURL        string        `json:"receiptUrl"`
	FailureReason     string        `json:"failureReason,omitempty" gorm:"type:text"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`

	Booking *Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
}
