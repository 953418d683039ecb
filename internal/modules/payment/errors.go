package payment

import (
	"errors"
	"fmt"

	"retreatbooking/internal/domain"
)

var ErrPaymentNotFound = fmt.Errorf("payment %w", domain.ErrNotFound)

// errAlreadyCompleted aborts the confirmation transaction when another
// delivery of the same event got there first.
var errAlreadyCompleted = errors.New("payment already completed")
