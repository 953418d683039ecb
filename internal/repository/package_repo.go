package repository

import (
	"context"

	"gorm.io/gorm"

	"retreatbooking/internal/domain"
)

type PackageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

func (r *PackageRepository) Create(ctx context.Context, p *domain.Package) error {
	return writeErr(r.db.WithContext(ctx).Omit("RoomTypes").Create(p).Error, "package")
}

func (r *PackageRepository) GetByID(ctx context.Context, id int64) (*domain.Package, error) {
	var p domain.Package
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err, "package", id)
	}
	return &p, nil
}

// ListActiveByRetreat returns active packages in display order with their
// room types.
func (r *PackageRepository) ListActiveByRetreat(ctx context.Context, retreatID int64) ([]domain.Package, error) {
	var out []domain.Package
	err := r.db.WithContext(ctx).
		Preload("RoomTypes").
		Where("retreat_id = ? AND is_active = ?", retreatID, true).
		Order("display_order ASC, id ASC").
		Find(&out).Error
	return out, storage(err)
}
