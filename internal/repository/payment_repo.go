package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"retreatbooking/internal/domain"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	return writeErr(r.db.WithContext(ctx).Omit("Booking").Create(p).Error, "payment")
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err, "payment", id)
	}
	return &p, nil
}

func (r *PaymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).Where("external_session_id = ?", sessionID).First(&p).Error; err != nil {
		return nil, notFound(err, "payment session", sessionID)
	}
	return &p, nil
}

// GetDetail loads a payment with its booking and the booking's relations.
func (r *PaymentRepository) GetDetail(ctx context.Context, id int64) (*domain.Payment, error) {
	var p domain.Payment
	err := r.db.WithContext(ctx).
		Preload("Booking.Guest").
		Preload("Booking.Retreat").
		Preload("Booking.RetreatDate").
		Preload("Booking.RoomType").
		First(&p, id).Error
	if err != nil {
		return nil, notFound(err, "payment", id)
	}
	return &p, nil
}

type CompletedPayment struct {
	Amount     float64
	ReceiptURL string
	PaidAt     time.Time
	// FailureReason is recorded when the payment cleared but the booking
	// could not be confirmed.
	FailureReason string
}

// MarkCompletedIdempotent moves a payment to COMPLETED. It reports false
// when the payment was already completed and leaves the row untouched.
func (r *PaymentRepository) MarkCompletedIdempotent(ctx context.Context, sessionID string, done CompletedPayment) (*domain.Payment, bool, error) {
	var (
		p       domain.Payment
		changed bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("external_session_id = ?", sessionID).First(&p).Error; err != nil {
			return notFound(err, "payment session", sessionID)
		}
		if p.Status == domain.PaymentCompleted {
			return nil
		}
		res := tx.Model(&domain.Payment{}).
			Where("id = ? AND status <> ?", p.ID, domain.PaymentCompleted).
			Updates(map[string]any{
				"status":         domain.PaymentCompleted,
				"amount":         done.Amount,
				"receipt_url":    done.ReceiptURL,
				"paid_at":        done.PaidAt,
				"failure_reason": done.FailureReason,
				"updated_at":     time.Now().UTC(),
			})
		if res.Error != nil {
			return storage(res.Error)
		}
		if res.RowsAffected == 0 {
			return errors.New("payment row not updated")
		}
		p.Status = domain.PaymentCompleted
		p.Amount = done.Amount
		p.ReceiptURL = done.ReceiptURL
		p.PaidAt = &done.PaidAt
		p.FailureReason = done.FailureReason
		changed = true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("mark payment completed: %w", err)
	}
	return &p, changed, nil
}
