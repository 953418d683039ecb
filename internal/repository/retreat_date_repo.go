package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"retreatbooking/internal/domain"
)

type RetreatDateRepository struct {
	db *gorm.DB
}

func NewRetreatDateRepository(db *gorm.DB) *RetreatDateRepository {
	return &RetreatDateRepository{db: db}
}

func (r *RetreatDateRepository) Create(ctx context.Context, d *domain.RetreatDate) error {
	return writeErr(r.db.WithContext(ctx).Omit("Retreat").Create(d).Error, "retreat date")
}

func (r *RetreatDateRepository) GetByID(ctx context.Context, id int64) (*domain.RetreatDate, error) {
	var d domain.RetreatDate
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, notFound(err, "retreat date", id)
	}
	return &d, nil
}

func (r *RetreatDateRepository) ListByRetreat(ctx context.Context, retreatID int64) ([]domain.RetreatDate, error) {
	var out []domain.RetreatDate
	err := r.db.WithContext(ctx).
		Where("retreat_id = ?", retreatID).
		Order("start_date ASC").
		Find(&out).Error
	return out, storage(err)
}

// Reserve adds n to booked only while the result stays within capacity.
func (r *RetreatDateRepository) Reserve(ctx context.Context, id int64, n int) error {
	res := r.db.WithContext(ctx).
		Model(&domain.RetreatDate{}).
		Where("id = ? AND booked + ? <= capacity", id, n).
		Updates(map[string]any{
			"booked":     gorm.Expr("booked + ?", n),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return storage(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrInsufficientInventory
	}
	return nil
}

// Release subtracts n from booked. An underflow means the counter no longer
// matches the confirmed bookings and is reported as a storage error.
func (r *RetreatDateRepository) Release(ctx context.Context, id int64, n int) error {
	res := r.db.WithContext(ctx).
		Model(&domain.RetreatDate{}).
		Where("id = ? AND booked >= ?", id, n).
		Updates(map[string]any{
			"booked":     gorm.Expr("booked - ?", n),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return storage(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("%w: booked counter underflow on retreat date %d", domain.ErrStorage, id)
	}
	return nil
}
