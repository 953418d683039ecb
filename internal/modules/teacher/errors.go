package teacher

import (
	"fmt"

	"retreatbooking/internal/domain"
)

var ErrDuplicateAssignment = fmt.Errorf("teacher is already assigned to this retreat date: %w", domain.ErrConflict)
