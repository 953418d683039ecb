package repository

import (
	"context"

	"gorm.io/gorm"

	"retreatbooking/internal/domain"
)

type RetreatRepository struct {
	db *gorm.DB
}

func NewRetreatRepository(db *gorm.DB) *RetreatRepository {
	return &RetreatRepository{db: db}
}

func (r *RetreatRepository) Create(ctx context.Context, retreat *domain.Retreat) error {
	return writeErr(r.db.WithContext(ctx).Create(retreat).Error, "retreat")
}

func (r *RetreatRepository) List(ctx context.Context) ([]domain.Retreat, error) {
	var out []domain.Retreat
	err := r.db.WithContext(ctx).
		Preload("Dates", func(db *gorm.DB) *gorm.DB { return db.Order("start_date ASC") }).
		Order("created_at DESC").
		Find(&out).Error
	return out, storage(err)
}

func (r *RetreatRepository) GetByID(ctx context.Context, id int64) (*domain.Retreat, error) {
	var retreat domain.Retreat
	if err := r.db.WithContext(ctx).First(&retreat, id).Error; err != nil {
		return nil, notFound(err, "retreat", id)
	}
	return &retreat, nil
}

// GetDetail loads a retreat with its dates, room types and active packages.
func (r *RetreatRepository) GetDetail(ctx context.Context, id int64) (*domain.Retreat, error) {
	var retreat domain.Retreat
	err := r.db.WithContext(ctx).
		Preload("Dates", func(db *gorm.DB) *gorm.DB { return db.Order("start_date ASC") }).
		Preload("RoomTypes").
		Preload("Packages", "is_active = ?", true).
		First(&retreat, id).Error
	if err != nil {
		return nil, notFound(err, "retreat", id)
	}
	return &retreat, nil
}

// Delete removes a retreat and the inventory it owns. Callers check for
// bookings first.
func (r *RetreatRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		children := []any{
			&domain.TeacherRetreatAssignment{},
			&domain.RoomType{},
			&domain.Package{},
			&domain.RetreatDate{},
		}
		for _, model := range children {
			if err := tx.Where("retreat_id = ?", id).Delete(model).Error; err != nil {
				return storage(err)
			}
		}
		res := tx.Delete(&domain.Retreat{}, id)
		if res.Error != nil {
			return storage(res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "retreat", id)
		}
		return nil
	})
}
