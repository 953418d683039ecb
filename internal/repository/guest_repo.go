package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"retreatbooking/internal/domain"
)

type GuestRepository struct {
	db *gorm.DB
}

func NewGuestRepository(db *gorm.DB) *GuestRepository {
	return &GuestRepository{db: db}
}

// Upsert matches on the normalised email. An existing guest has its name
// and phone overwritten with the supplied values.
func (r *GuestRepository) Upsert(ctx context.Context, g *domain.Guest) error {
	g.Email = domain.NormalizeEmail(g.Email)

	var existing domain.Guest
	err := r.db.WithContext(ctx).Where("email = ?", g.Email).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return writeErr(r.db.WithContext(ctx).Omit("Bookings").Create(g).Error, "guest")
	case err != nil:
		return storage(err)
	}

	err = r.db.WithContext(ctx).Model(&existing).Updates(map[string]any{
		"first_name": g.FirstName,
		"last_name":  g.LastName,
		"phone":      g.Phone,
	}).Error
	if err != nil {
		return storage(err)
	}
	g.ID = existing.ID
	g.CreatedAt = existing.CreatedAt
	g.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *GuestRepository) GetByID(ctx context.Context, id int64) (*domain.Guest, error) {
	var g domain.Guest
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, notFound(err, "guest", id)
	}
	return &g, nil
}

func (r *GuestRepository) List(ctx context.Context) ([]domain.Guest, error) {
	var out []domain.Guest
	err := r.db.WithContext(ctx).
		Preload("Bookings").
		Order("created_at DESC").
		Find(&out).Error
	return out, storage(err)
}
