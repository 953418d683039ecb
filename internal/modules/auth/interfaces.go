package auth

import (
	"context"
	"time"

	"retreatbooking/internal/domain"
)

type AdminUserRepository interface {
	Create(ctx context.Context, u *domain.AdminUser) error
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

type jwtService interface {
	GenerateToken(adminID int64, email, role string) (string, error)
	TTL() time.Duration
}
