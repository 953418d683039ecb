package auth

import (
	"fmt"

	"retreatbooking/internal/domain"
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	ErrAccountInactive    = fmt.Errorf("account is disabled: %w", domain.ErrForbidden)
)
