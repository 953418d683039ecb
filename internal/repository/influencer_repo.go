package repository

import (
	"context"

	"gorm.io/gorm"

	"retreatbooking/internal/domain"
)

type InfluencerRepository struct {
	db *gorm.DB
}

func NewInfluencerRepository(db *gorm.DB) *InfluencerRepository {
	return &InfluencerRepository{db: db}
}

func (r *InfluencerRepository) Create(ctx context.Context, inf *domain.Influencer) error {
	return writeErr(r.db.WithContext(ctx).Omit("PromoCodes").Create(inf).Error, "influencer")
}

func (r *InfluencerRepository) GetByID(ctx context.Context, id int64) (*domain.Influencer, error) {
	var inf domain.Influencer
	if err := r.db.WithContext(ctx).First(&inf, id).Error; err != nil {
		return nil, notFound(err, "influencer", id)
	}
	return &inf, nil
}

func (r *InfluencerRepository) List(ctx context.Context) ([]domain.Influencer, error) {
	var out []domain.Influencer
	err := r.db.WithContext(ctx).
		Preload("PromoCodes").
		Order("created_at DESC").
		Find(&out).Error
	return out, storage(err)
}
