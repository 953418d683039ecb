package booking

import (
	"errors"
	"fmt"

	"retreatbooking/internal/domain"
)

var ErrBookingNotFound = fmt.Errorf("booking %w", domain.ErrNotFound)

// SkipTransition is returned by a TxHook to commit without changing status.
var SkipTransition = errors.New("skip transition")
