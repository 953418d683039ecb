package admin

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"retreatbooking/internal/domain"
	"retreatbooking/internal/modules/pricing"
	"retreatbooking/internal/repository"
)

const recentBookingsLimit = 5

type Service struct {
	db       *gorm.DB
	users    *repository.AdminUserRepository
	bookings *repository.BookingRepository
	resender NotificationResender
	logger   *zap.Logger
}

func NewService(db *gorm.DB, resender NotificationResender, logger *zap.Logger) *Service {
	return &Service{
		db:       db,
		users:    repository.NewAdminUserRepository(db),
		bookings: repository.NewBookingRepository(db),
		resender: resender,
		logger:   logger,
	}
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.AdminUser, error) {
	return s.users.List(ctx)
}

// Dashboard aggregates booking counts by status. Revenue counts confirmed
// bookings only.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	stats, err := s.bookings.Stats(ctx)
	if err != nil {
		return nil, err
	}

	out := &Dashboard{
		TotalBookings:     stats.Total,
		PendingBookings:   stats.Pending,
		ConfirmedBookings: stats.Confirmed,
		CancelledBookings: stats.Cancelled,
		TotalRevenue:      pricing.Round2(stats.Revenue),
	}

	db := s.db.WithContext(ctx)
	if err := db.Model(&domain.Guest{}).Count(&out.TotalGuests).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if err := db.Model(&domain.Retreat{}).Count(&out.TotalRetreats).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	recent, err := s.bookings.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(recent) > recentBookingsLimit {
		recent = recent[:recentBookingsLimit]
	}
	out.RecentBookings = recent
	return out, nil
}

func (s *Service) SendPendingNotifications(ctx context.Context) (*SendNotificationsResult, error) {
	res, err := s.resender.ResendPendingNotifications(ctx)
	if err != nil {
		return nil, err
	}
	return &SendNotificationsResult{
		Message: fmt.Sprintf("Sent %d notifications, %d failed", res.Sent, res.Failed),
		Sent:    res.Sent,
		Failed:  res.Failed,
	}, nil
}
