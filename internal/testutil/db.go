// Package testutil opens throwaway SQLite databases for package tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"

	"retreatbooking/internal/database"
	"retreatbooking/internal/domain"
)

// NewDB returns a migrated in-memory database private to t. It holds a
// single connection so concurrent callers queue the way SQLite writers do.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{
		DriverName: "sqlite",
		DSN:        dsn,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Inventory is a retreat with one date and one room type.
type Inventory struct {
	Retreat  domain.Retreat
	Date     domain.RetreatDate
	RoomType domain.RoomType
}

// SeedInventory creates a retreat with a single date of the given capacity
// and a room type that sleeps maxGuests at price.
func SeedInventory(t testing.TB, db *gorm.DB, capacity, maxGuests int, price float64) Inventory {
	t.Helper()
	ctx := context.Background()

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	inv := Inventory{
		Retreat: domain.Retreat{
			Name:        "Ocean Flow",
			Location:    "Ericeira, Portugal",
			BasePrice:   900,
			MaxCapacity: capacity,
		},
	}
	require.NoError(t, db.WithContext(ctx).Create(&inv.Retreat).Error)

	inv.Date = domain.RetreatDate{
		RetreatID: inv.Retreat.ID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 6),
		Capacity:  capacity,
	}
	require.NoError(t, db.WithContext(ctx).Create(&inv.Date).Error)

	inv.RoomType = domain.RoomType{
		RetreatID:    inv.Retreat.ID,
		Name:         "Sea View Double",
		PackagePrice: price,
		MaxGuests:    maxGuests,
	}
	require.NoError(t, db.WithContext(ctx).Create(&inv.RoomType).Error)

	return inv
}

// SeedPromo creates an influencer owning an active promo code.
func SeedPromo(t testing.TB, db *gorm.DB, code string, discount int) domain.PromoCode {
	t.Helper()
	ctx := context.Background()

	inf := domain.Influencer{Name: "Maya Lotus", Email: "maya@example.com"}
	require.NoError(t, db.WithContext(ctx).Create(&inf).Error)

	promo := domain.PromoCode{
		Code:               domain.NormalizePromoCode(code),
		InfluencerID:       inf.ID,
		DiscountPercentage: discount,
		IsActive:           true,
	}
	require.NoError(t, db.WithContext(ctx).Create(&promo).Error)
	promo.Influencer = &inf
	return promo
}

// Booked reads the current booked counter of a date.
func Booked(t testing.TB, db *gorm.DB, dateID int64) int {
	t.Helper()
	var d domain.RetreatDate
	require.NoError(t, db.First(&d, dateID).Error)
	return d.Booked
}
