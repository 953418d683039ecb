package admin

import (
	"context"

	"retreatbooking/internal/modules/teacher"
)

// NotificationResender retries teacher assignment emails that have not
// gone out.
type NotificationResender interface {
	ResendPendingNotifications(ctx context.Context) (*teacher.ResendResult, error)
}
