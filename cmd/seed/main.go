package main

import (
	"context"
	"errors"
	"log"
	"os"

	"go.uber.org/zap"

	"retreatbooking/internal/config"
	"retreatbooking/internal/database"
	"retreatbooking/internal/domain"
	"retreatbooking/internal/logger"
	"retreatbooking/internal/modules/auth"
	"retreatbooking/internal/modules/catalog"
	jwtsvc "retreatbooking/internal/pkg/jwt"
	"retreatbooking/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("migrate failed", zap.Error(err))
	}
	ctx := context.Background()

	email := getEnv("SEED_ADMIN_EMAIL", "admin@retreats.local")
	password := getEnv("SEED_ADMIN_PASSWORD", "admin12345")

	authService := auth.NewService(repository.NewAdminUserRepository(db), jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL), zl)
	_, err = authService.CreateAdmin(ctx, auth.CreateAdminRequest{
		Email:    email,
		Name:     "Administrator",
		Password: password,
		Role:     domain.RoleAdmin,
	})
	switch {
	case errors.Is(err, domain.ErrConflict):
		zl.Info("admin already exists", zap.String("email", email))
	case err != nil:
		zl.Fatal("create admin failed", zap.Error(err))
	default:
		zl.Info("admin created", zap.String("email", email))
	}

	catalogService := catalog.NewService(db, zl)
	existing, err := catalogService.ListRetreats(ctx)
	if err != nil {
		zl.Fatal("list retreats failed", zap.Error(err))
	}
	if len(existing) > 0 {
		zl.Info("catalog already seeded", zap.Int("retreats", len(existing)))
		return
	}

	capacity := 16
	retreat, err := catalogService.CreateRetreat(ctx, catalog.CreateRetreatRequest{
		Name:        "Sunrise Yoga Retreat",
		Location:    "Ericeira, Portugal",
		Description: "Six days of vinyasa, surf and slow mornings by the Atlantic.",
		BasePrice:   0,
		MaxCapacity: &capacity,
		Amenities:   []string{"Daily yoga", "Surf lessons", "Vegetarian meals"},
		Dates: []catalog.RetreatDateInput{
			{StartDate: "2027-05-10", EndDate: "2027-05-16"},
			{StartDate: "2027-09-06", EndDate: "2027-09-12"},
		},
	})
	if err != nil {
		zl.Fatal("create retreat failed", zap.Error(err))
	}

	pkg, err := catalogService.CreatePackage(ctx, retreat.ID, catalog.CreatePackageRequest{
		Name:          "Full Week",
		PricePerNight: 180,
		MaxGuests:     2,
		Inclusions:    []string{"Airport transfer", "All meals"},
	})
	if err != nil {
		zl.Fatal("create package failed", zap.Error(err))
	}

	rooms := []catalog.CreateRoomTypeRequest{
		{Name: "Shared Dorm", PackagePrice: 890, MaxGuests: 1},
		{Name: "Garden Double", PackagePrice: 1450, MaxGuests: 2, PackageID: &pkg.ID},
		{Name: "Ocean Suite", PackagePrice: 2100, MaxGuests: 2, PackageID: &pkg.ID},
	}
	for _, r := range rooms {
		if _, err := catalogService.CreateRoom(ctx, retreat.ID, r); err != nil {
			zl.Fatal("create room failed", zap.String("room", r.Name), zap.Error(err))
		}
	}

	inf, err := catalogService.CreateInfluencer(ctx, catalog.CreateInfluencerRequest{
		Name:  "Demo Influencer",
		Email: "influencer@retreats.local",
	})
	if err != nil {
		zl.Fatal("create influencer failed", zap.Error(err))
	}
	if _, err := catalogService.CreatePromoCode(ctx, catalog.CreatePromoCodeRequest{
		Code:         "WELCOME10",
		InfluencerID: inf.ID,
	}); err != nil {
		zl.Fatal("create promo code failed", zap.Error(err))
	}

	zl.Info("catalog seeded", zap.Int64("retreat_id", retreat.ID), zap.Int("rooms", len(rooms)))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
