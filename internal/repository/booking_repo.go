package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"retreatbooking/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return writeErr(r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error, "booking")
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, notFound(err, "booking", id)
	}
	return &b, nil
}

// GetForUpdate reads the booking holding a row lock for the rest of the
// transaction. SQLite ignores the locking clause and serialises writers instead.
func (r *BookingRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b, id).Error
	if err != nil {
		return nil, notFound(err, "booking", id)
	}
	return &b, nil
}

// GetDetail loads a booking with guest, retreat, date, room type and promo.
func (r *BookingRepository) GetDetail(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := withBookingRelations(r.db.WithContext(ctx)).First(&b, id).Error
	if err != nil {
		return nil, notFound(err, "booking", id)
	}
	return &b, nil
}

func (r *BookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	err := withBookingRelations(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Find(&out).Error
	return out, storage(err)
}

// UpdateStatusIf writes the status only while the row still holds from.
func (r *BookingRepository) UpdateStatusIf(ctx context.Context, id int64, from, to domain.BookingStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, storage(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *BookingRepository) UpdateTotalPrice(ctx context.Context, id int64, total float64) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Update("total_price", total).Error
	return storage(err)
}

func (r *BookingRepository) ExistsForRetreat(ctx context.Context, retreatID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("retreat_id = ?", retreatID).
		Limit(1).
		Count(&n).Error
	return n > 0, storage(err)
}

// SumConfirmedGuests totals numberOfGuests over CONFIRMED bookings on a date.
func (r *BookingRepository) SumConfirmedGuests(ctx context.Context, retreatDateID int64) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Select("COALESCE(SUM(number_of_guests), 0)").
		Where("retreat_date_id = ? AND status = ?", retreatDateID, domain.BookingConfirmed).
		Scan(&total).Error
	return total, storage(err)
}

type BookingStats struct {
	Total     int64
	Pending   int64
	Confirmed int64
	Cancelled int64
	Revenue   float64
}

func (r *BookingRepository) Stats(ctx context.Context) (*BookingStats, error) {
	var rows []struct {
		Status string
		Count  int64
		Amount float64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_price), 0) AS amount").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, storage(err)
	}

	stats := &BookingStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch domain.BookingStatus(row.Status) {
		case domain.BookingPending:
			stats.Pending = row.Count
		case domain.BookingConfirmed:
			stats.Confirmed = row.Count
			stats.Revenue = row.Amount
		case domain.BookingCancelled:
			stats.Cancelled = row.Count
		}
	}
	return stats, nil
}

func withBookingRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Guest").
		Preload("Retreat").
		Preload("RetreatDate").
		Preload("RoomType").
		Preload("PromoCode.Influencer")
}
