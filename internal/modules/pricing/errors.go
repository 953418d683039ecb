package pricing

import (
	"fmt"

	"retreatbooking/internal/domain"
)

var ErrPromoCodeNotFound = fmt.Errorf("invalid or expired promo code: %w", domain.ErrNotFound)
