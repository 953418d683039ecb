package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"retreatbooking/internal/domain"
)

type AdminUserRepository struct {
	db *gorm.DB
}

func NewAdminUserRepository(db *gorm.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

func (r *AdminUserRepository) Create(ctx context.Context, u *domain.AdminUser) error {
	u.Email = domain.NormalizeEmail(u.Email)
	return writeErr(r.db.WithContext(ctx).Create(u).Error, "admin user "+u.Email)
}

func (r *AdminUserRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	normalized := domain.NormalizeEmail(email)
	var u domain.AdminUser
	if err := r.db.WithContext(ctx).Where("email = ?", normalized).First(&u).Error; err != nil {
		return nil, notFound(err, "admin user", normalized)
	}
	return &u, nil
}

func (r *AdminUserRepository) List(ctx context.Context) ([]domain.AdminUser, error) {
	var out []domain.AdminUser
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error
	return out, storage(err)
}

func (r *AdminUserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&domain.AdminUser{}).
		Where("id = ?", id).
		Update("last_login", at).Error
	return storage(err)
}
