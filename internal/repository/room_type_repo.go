package repository

import (
	"context"

	"gorm.io/gorm"

	"retreatbooking/internal/domain"
)

type RoomTypeRepository struct {
	db *gorm.DB
}

func NewRoomTypeRepository(db *gorm.DB) *RoomTypeRepository {
	return &RoomTypeRepository{db: db}
}

func (r *RoomTypeRepository) Create(ctx context.Context, rt *domain.RoomType) error {
	return writeErr(r.db.WithContext(ctx).Omit("Package", "Retreat").Create(rt).Error, "room type")
}

func (r *RoomTypeRepository) GetByID(ctx context.Context, id int64) (*domain.RoomType, error) {
	var rt domain.RoomType
	if err := r.db.WithContext(ctx).First(&rt, id).Error; err != nil {
		return nil, notFound(err, "room type", id)
	}
	return &rt, nil
}

func (r *RoomTypeRepository) ListByRetreat(ctx context.Context, retreatID int64) ([]domain.RoomType, error) {
	var out []domain.RoomType
	err := r.db.WithContext(ctx).
		Preload("Package", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		Where("retreat_id = ?", retreatID).
		Order("package_price ASC").
		Find(&out).Error
	return out, storage(err)
}

func (r *RoomTypeRepository) ListAll(ctx context.Context) ([]domain.RoomType, error) {
	var out []domain.RoomType
	err := r.db.WithContext(ctx).
		Preload("Retreat", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "location") }).
		Order("retreat_id ASC, package_price ASC").
		Find(&out).Error
	return out, storage(err)
}
