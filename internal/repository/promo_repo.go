package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"retreatbooking/internal/domain"
)

type PromoCodeRepository struct {
	db *gorm.DB
}

func NewPromoCodeRepository(db *gorm.DB) *PromoCodeRepository {
	return &PromoCodeRepository{db: db}
}

func (r *PromoCodeRepository) Create(ctx context.Context, p *domain.PromoCode) error {
	p.Code = domain.NormalizePromoCode(p.Code)
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
	return writeErr(err, "promo code "+p.Code)
}

func (r *PromoCodeRepository) GetByID(ctx context.Context, id int64) (*domain.PromoCode, error) {
	var p domain.PromoCode
	if err := r.db.WithContext(ctx).Preload("Influencer").First(&p, id).Error; err != nil {
		return nil, notFound(err, "promo code", id)
	}
	return &p, nil
}

// FindActiveByCode matches case-insensitively against active codes.
func (r *PromoCodeRepository) FindActiveByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	normalized := domain.NormalizePromoCode(code)
	var p domain.PromoCode
	err := r.db.WithContext(ctx).
		Preload("Influencer").
		Where("code = ? AND is_active = ?", normalized, true).
		First(&p).Error
	if err != nil {
		return nil, notFound(err, "promo code", normalized)
	}
	return &p, nil
}

func (r *PromoCodeRepository) List(ctx context.Context) ([]domain.PromoCode, error) {
	var out []domain.PromoCode
	err := r.db.WithContext(ctx).
		Preload("Influencer").
		Order("created_at DESC").
		Find(&out).Error
	return out, storage(err)
}

// CountConfirmedBookings counts CONFIRMED bookings that used the code.
func (r *PromoCodeRepository) CountConfirmedBookings(ctx context.Context, promoCodeID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("promo_code_id = ? AND status = ?", promoCodeID, domain.BookingConfirmed).
		Count(&n).Error
	return n, storage(err)
}
