package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"retreatbooking/internal/domain"
	"retreatbooking/internal/modules/pricing"
	"retreatbooking/internal/pkg/validator"
	"retreatbooking/internal/repository"
)

var ErrRetreatHasBookings = fmt.Errorf("retreat has bookings: %w", domain.ErrConflict)

// Service manages retreat inventory and the promo catalog.
type Service struct {
	retreats    *repository.RetreatRepository
	dates       *repository.RetreatDateRepository
	rooms       *repository.RoomTypeRepository
	packages    *repository.PackageRepository
	bookings    *repository.BookingRepository
	influencers *repository.InfluencerRepository
	promos      *repository.PromoCodeRepository
	pricing     *pricing.Service
	logger      *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	promos := repository.NewPromoCodeRepository(db)
	return &Service{
		retreats:    repository.NewRetreatRepository(db),
		dates:       repository.NewRetreatDateRepository(db),
		rooms:       repository.NewRoomTypeRepository(db),
		packages:    repository.NewPackageRepository(db),
		bookings:    repository.NewBookingRepository(db),
		influencers: repository.NewInfluencerRepository(db),
		promos:      promos,
		pricing:     pricing.NewService(promos),
		logger:      logger,
	}
}

/* ---------- RETREATS ---------- */

func (s *Service) ListRetreats(ctx context.Context) ([]domain.Retreat, error) {
	return s.retreats.List(ctx)
}

func (s *Service) GetRetreat(ctx context.Context, id int64) (*domain.Retreat, error) {
	return s.retreats.GetDetail(ctx, id)
}

// CreateRetreat stores a retreat and any nested dates in one insert. Dates
// without a capacity inherit the retreat's maxCapacity.
func (s *Service) CreateRetreat(ctx context.Context, req CreateRetreatRequest) (*domain.Retreat, error) {
	maxCapacity := domain.DefaultMaxCapacity
	if req.MaxCapacity != nil {
		maxCapacity = *req.MaxCapacity
	}
	retreat := &domain.Retreat{
		Name:        strings.TrimSpace(req.Name),
		Location:    strings.TrimSpace(req.Location),
		Description: req.Description,
		BasePrice:   req.BasePrice,
		MaxCapacity: maxCapacity,
		Images:      datatypes.JSONSlice[string](req.Images),
		Amenities:   datatypes.JSONSlice[string](req.Amenities),
	}
	if fields := validator.Validate(retreat); fields != nil {
		return nil, domain.NewValidationError("invalid retreat", fields)
	}

	for i, in := range req.Dates {
		d, err := buildDate(in, maxCapacity)
		if err != nil {
			return nil, fmt.Errorf("retreatDates[%d]: %w", i, err)
		}
		retreat.Dates = append(retreat.Dates, *d)
	}

	if err := s.retreats.Create(ctx, retreat); err != nil {
		return nil, err
	}
	s.logger.Info("retreat created", zap.Int64("retreat_id", retreat.ID), zap.Int("dates", len(retreat.Dates)))
	return s.retreats.GetDetail(ctx, retreat.ID)
}

// DeleteRetreat refuses while any booking references the retreat.
func (s *Service) DeleteRetreat(ctx context.Context, id int64) error {
	if _, err := s.retreats.GetByID(ctx, id); err != nil {
		return err
	}
	booked, err := s.bookings.ExistsForRetreat(ctx, id)
	if err != nil {
		return err
	}
	if booked {
		return ErrRetreatHasBookings
	}
	if err := s.retreats.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("retreat deleted", zap.Int64("retreat_id", id))
	return nil
}

/* ---------- DATES ---------- */

func (s *Service) ListDates(ctx context.Context, retreatID int64) ([]domain.RetreatDate, error) {
	if _, err := s.retreats.GetByID(ctx, retreatID); err != nil {
		return nil, err
	}
	return s.dates.ListByRetreat(ctx, retreatID)
}

func (s *Service) CreateDate(ctx context.Context, retreatID int64, in RetreatDateInput) (*domain.RetreatDate, error) {
	retreat, err := s.retreats.GetByID(ctx, retreatID)
	if err != nil {
		return nil, err
	}
	d, err := buildDate(in, retreat.MaxCapacity)
	if err != nil {
		return nil, err
	}
	d.RetreatID = retreat.ID
	if err := s.dates.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func buildDate(in RetreatDateInput, defaultCapacity int) (*domain.RetreatDate, error) {
	fields := map[string]string{}
	start, err := parseDate(in.StartDate)
	if err != nil {
		fields["StartDate"] = "date"
	}
	end, err := parseDate(in.EndDate)
	if err != nil {
		fields["EndDate"] = "date"
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError("invalid retreat date", fields)
	}

	capacity := defaultCapacity
	if in.Capacity != nil {
		capacity = *in.Capacity
	}
	d := &domain.RetreatDate{StartDate: start, EndDate: end, Capacity: capacity}
	if fields := validator.Validate(d); fields != nil {
		return nil, domain.NewValidationError("invalid retreat date", fields)
	}
	return d, nil
}

func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

/* ---------- ROOMS & PACKAGES ---------- */

func (s *Service) ListRooms(ctx context.Context, retreatID int64) ([]domain.RoomType, error) {
	if _, err := s.retreats.GetByID(ctx, retreatID); err != nil {
		return nil, err
	}
	return s.rooms.ListByRetreat(ctx, retreatID)
}

func (s *Service) ListAllRooms(ctx context.Context) ([]domain.RoomType, error) {
	return s.rooms.ListAll(ctx)
}

func (s *Service) CreateRoom(ctx context.Context, retreatID int64, req CreateRoomTypeRequest) (*domain.RoomType, error) {
	if _, err := s.retreats.GetByID(ctx, retreatID); err != nil {
		return nil, err
	}
	if req.PackageID != nil {
		pkg, err := s.packages.GetByID(ctx, *req.PackageID)
		if err != nil {
			return nil, err
		}
		if pkg.RetreatID != retreatID {
			return nil, fmt.Errorf("package %d does not belong to retreat %d: %w", pkg.ID, retreatID, domain.ErrValidation)
		}
	}

	rt := &domain.RoomType{
		RetreatID:    retreatID,
		PackageID:    req.PackageID,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		PackagePrice: req.PackagePrice,
		MaxGuests:    req.MaxGuests,
		Amenities:    datatypes.JSONSlice[string](req.Amenities),
	}
	if fields := validator.Validate(rt); fields != nil {
		return nil, domain.NewValidationError("invalid room type", fields)
	}
	if err := s.rooms.Create(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *Service) ListPackages(ctx context.Context, retreatID int64) ([]domain.Package, error) {
	if _, err := s.retreats.GetByID(ctx, retreatID); err != nil {
		return nil, err
	}
	return s.packages.ListActiveByRetreat(ctx, retreatID)
}

func (s *Service) CreatePackage(ctx context.Context, retreatID int64, req CreatePackageRequest) (*domain.Package, error) {
	if _, err := s.retreats.GetByID(ctx, retreatID); err != nil {
		return nil, err
	}
	duration := req.DurationDays
	if duration == 0 {
		duration = domain.DefaultPackageDurationDays
	}
	p := &domain.Package{
		RetreatID:     retreatID,
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		PricePerNight: req.PricePerNight,
		DurationDays:  duration,
		MaxGuests:     req.MaxGuests,
		Amenities:     datatypes.JSONSlice[string](req.Amenities),
		Inclusions:    datatypes.JSONSlice[string](req.Inclusions),
		Features:      datatypes.JSONSlice[string](req.Features),
		DisplayOrder:  req.DisplayOrder,
		IsActive:      req.IsActive == nil || *req.IsActive,
	}
	if fields := validator.Validate(p); fields != nil {
		return nil, domain.NewValidationError("invalid package", fields)
	}
	if err := s.packages.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

/* ---------- INFLUENCERS & PROMO CODES ---------- */

func (s *Service) ListInfluencers(ctx context.Context) ([]domain.Influencer, error) {
	return s.influencers.List(ctx)
}

func (s *Service) CreateInfluencer(ctx context.Context, req CreateInfluencerRequest) (*domain.Influencer, error) {
	inf := &domain.Influencer{
		Name:     strings.TrimSpace(req.Name),
		Email:    domain.NormalizeEmail(req.Email),
		Bio:      req.Bio,
		ImageURL: req.ImageURL,
	}
	if fields := validator.Validate(inf); fields != nil {
		return nil, domain.NewValidationError("invalid influencer", fields)
	}
	if err := s.influencers.Create(ctx, inf); err != nil {
		return nil, err
	}
	return inf, nil
}

func (s *Service) ListPromoCodes(ctx context.Context) ([]domain.PromoCode, error) {
	return s.promos.List(ctx)
}

// CreatePromoCode stores the code upper-cased. Discount defaults to 10%.
func (s *Service) CreatePromoCode(ctx context.Context, req CreatePromoCodeRequest) (*domain.PromoCode, error) {
	if _, err := s.influencers.GetByID(ctx, req.InfluencerID); err != nil {
		return nil, err
	}
	discount := domain.DefaultDiscountPercentage
	if req.DiscountPercentage != nil {
		discount = *req.DiscountPercentage
	}
	promo := &domain.PromoCode{
		Code:               domain.NormalizePromoCode(req.Code),
		InfluencerID:       req.InfluencerID,
		DiscountPercentage: discount,
		IsActive:           req.IsActive == nil || *req.IsActive,
	}
	if fields := validator.Validate(promo); fields != nil {
		return nil, domain.NewValidationError("invalid promo code", fields)
	}
	if err := s.promos.Create(ctx, promo); err != nil {
		return nil, err
	}
	return s.promos.GetByID(ctx, promo.ID)
}

func (s *Service) ValidatePromoCode(ctx context.Context, code string) (*pricing.PromoValidation, error) {
	return s.pricing.ValidatePromoCode(ctx, code)
}
