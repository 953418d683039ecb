package pricing

import (
	"context"

	"retreatbooking/internal/domain"
)

type PromoCodeRepository interface {
	FindActiveByCode(ctx context.Context, code string) (*domain.PromoCode, error)
}
