package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"retreatbooking/internal/domain"
	"retreatbooking/internal/modules/pricing"
	"retreatbooking/internal/pkg/validator"
	"retreatbooking/internal/repository"
)

// Service owns the booking state machine and is the only writer of
// RetreatDate.Booked.
type Service struct {
	db        *gorm.DB
	bookings  *repository.BookingRepository
	retreats  *repository.RetreatRepository
	dates     *repository.RetreatDateRepository
	rooms     *repository.RoomTypeRepository
	promos    *repository.PromoCodeRepository
	guests    *repository.GuestRepository
	pricing   *pricing.Service
	observers []Observer
	logger    *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger, observers ...Observer) *Service {
	promos := repository.NewPromoCodeRepository(db)
	return &Service{
		db:        db,
		bookings:  repository.NewBookingRepository(db),
		retreats:  repository.NewRetreatRepository(db),
		dates:     repository.NewRetreatDateRepository(db),
		rooms:     repository.NewRoomTypeRepository(db),
		promos:    promos,
		guests:    repository.NewGuestRepository(db),
		pricing:   pricing.NewService(promos),
		observers: observers,
		logger:    logger,
	}
}

// Observe registers o for status changes. Not safe to call once requests
// are being served.
func (s *Service) Observe(o Observer) {
	s.observers = append(s.observers, o)
}

// CanTransition reports whether from -> to is an edge of the state machine.
func CanTransition(from, to domain.BookingStatus) bool {
	switch from {
	case domain.BookingPending:
		return to == domain.BookingConfirmed || to == domain.BookingCancelled
	case domain.BookingConfirmed:
		return to == domain.BookingCancelled
	}
	return false
}

// CreateBooking validates the request against current inventory and stores
// a PENDING booking. The booked counter is not touched.
func (s *Service) CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Booking, error) {
	if in.NumberOfGuests < 1 {
		return nil, fmt.Errorf("number of guests must be at least 1: %w", domain.ErrValidation)
	}
	if in.Guest == nil && in.GuestID == 0 {
		return nil, fmt.Errorf("guestId or guestInfo is required: %w", domain.ErrValidation)
	}
	var guest GuestInfo
	if in.Guest != nil {
		guest = in.Guest.Normalized()
		if fields := validator.Validate(guest); fields != nil {
			return nil, domain.NewValidationError("invalid guest details", fields)
		}
	}

	retreat, err := s.retreats.GetByID(ctx, in.RetreatID)
	if err != nil {
		return nil, unresolved(err, "retreat", in.RetreatID)
	}
	date, err := s.dates.GetByID(ctx, in.RetreatDateID)
	if err != nil {
		return nil, unresolved(err, "retreat date", in.RetreatDateID)
	}
	if date.RetreatID != retreat.ID {
		return nil, fmt.Errorf("retreat date %d does not belong to retreat %d: %w", date.ID, retreat.ID, domain.ErrInvalidBookingRequest)
	}
	room, err := s.rooms.GetByID(ctx, in.RoomTypeID)
	if err != nil {
		return nil, unresolved(err, "room type", in.RoomTypeID)
	}
	if room.RetreatID != retreat.ID {
		return nil, fmt.Errorf("room type %d does not belong to retreat %d: %w", room.ID, retreat.ID, domain.ErrInvalidBookingRequest)
	}

	if err := pricing.CheckAvailability(*date, *room, in.NumberOfGuests); err != nil {
		return nil, err
	}

	promo, err := s.resolvePromo(ctx, in)
	if err != nil {
		return nil, err
	}
	var (
		promoID  *int64
		discount int
	)
	if promo != nil {
		promoID = &promo.ID
		discount = promo.DiscountPercentage
	}

	b := &domain.Booking{
		GuestID:        in.GuestID,
		RetreatID:      retreat.ID,
		RetreatDateID:  date.ID,
		RoomTypeID:     room.ID,
		PromoCodeID:    promoID,
		NumberOfGuests: in.NumberOfGuests,
		TotalPrice:     pricing.QuotePrice(pricing.BasePrice(*room, *retreat), discount),
		Status:         domain.BookingPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guests := repository.NewGuestRepository(tx)
		if in.Guest != nil {
			g := guest.guest()
			if err := guests.Upsert(ctx, g); err != nil {
				return err
			}
			b.GuestID = g.ID
		} else if _, err := guests.GetByID(ctx, in.GuestID); err != nil {
			return unresolved(err, "guest", in.GuestID)
		}
		return repository.NewBookingRepository(tx).Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.Int64("retreat_date_id", b.RetreatDateID),
		zap.Int("guests", b.NumberOfGuests),
		zap.Float64("total_price", b.TotalPrice),
	)
	s.notify(ctx, domain.BookingStatusChange{
		BookingID:      b.ID,
		RetreatID:      b.RetreatID,
		RetreatDateID:  b.RetreatDateID,
		NumberOfGuests: b.NumberOfGuests,
		TotalPrice:     b.TotalPrice,
		To:             domain.BookingPending,
		At:             b.CreatedAt,
	})

	return s.bookings.GetDetail(ctx, b.ID)
}

func (s *Service) resolvePromo(ctx context.Context, in CreateBookingInput) (*domain.PromoCode, error) {
	switch {
	case in.PromoCodeID != nil:
		promo, err := s.promos.GetByID(ctx, *in.PromoCodeID)
		if err != nil {
			return nil, unresolved(err, "promo code", *in.PromoCodeID)
		}
		if !promo.IsActive {
			return nil, fmt.Errorf("promo code %s is not active: %w", promo.Code, domain.ErrInvalidBookingRequest)
		}
		return promo, nil
	case strings.TrimSpace(in.PromoCode) != "":
		v, err := s.pricing.ValidatePromoCode(ctx, in.PromoCode)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("promo code %q: %w", in.PromoCode, domain.ErrInvalidBookingRequest)
			}
			return nil, err
		}
		return s.promos.GetByID(ctx, v.PromoCodeID)
	}
	return nil, nil
}

// TransitionStatus moves a booking along the state machine and keeps the
// date's booked counter in step with it.
func (s *Service) TransitionStatus(ctx context.Context, bookingID int64, to domain.BookingStatus) (*domain.Booking, error) {
	return s.TransitionWithin(ctx, bookingID, to, nil)
}

// TransitionWithin is TransitionStatus with hook executed in the same
// transaction, before the state machine check.
func (s *Service) TransitionWithin(ctx context.Context, bookingID int64, to domain.BookingStatus, hook TxHook) (*domain.Booking, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", to, domain.ErrValidation)
	}

	var (
		change  domain.BookingStatusChange
		skipped bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := repository.NewBookingRepository(tx)
		dates := repository.NewRetreatDateRepository(tx)

		b, err := bookings.GetForUpdate(ctx, bookingID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("id %d: %w", bookingID, ErrBookingNotFound)
			}
			return err
		}

		if hook != nil {
			if err := hook(tx, b); err != nil {
				if errors.Is(err, SkipTransition) {
					skipped = true
					return nil
				}
				return err
			}
		}

		from := b.Status
		if !CanTransition(from, to) {
			return fmt.Errorf("%s -> %s: %w", from, to, domain.ErrInvalidTransition)
		}

		switch {
		case to == domain.BookingConfirmed:
			if err := dates.Reserve(ctx, b.RetreatDateID, b.NumberOfGuests); err != nil {
				return err
			}
		case from == domain.BookingConfirmed:
			if err := dates.Release(ctx, b.RetreatDateID, b.NumberOfGuests); err != nil {
				return err
			}
		}

		ok, err := bookings.UpdateStatusIf(ctx, b.ID, from, to)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("booking %d changed concurrently: %w", b.ID, domain.ErrInvalidTransition)
		}

		change = domain.BookingStatusChange{
			BookingID:      b.ID,
			RetreatID:      b.RetreatID,
			RetreatDateID:  b.RetreatDateID,
			NumberOfGuests: b.NumberOfGuests,
			TotalPrice:     b.TotalPrice,
			From:           from,
			To:             to,
			At:             time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if skipped {
		return s.bookings.GetDetail(ctx, bookingID)
	}

	s.logger.Info("booking status changed",
		zap.Int64("booking_id", change.BookingID),
		zap.String("from", string(change.From)),
		zap.String("to", string(change.To)),
	)
	s.notify(ctx, change)

	return s.bookings.GetDetail(ctx, bookingID)
}

func (s *Service) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("id %d: %w", id, ErrBookingNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.List(ctx)
}

func (s *Service) ListGuests(ctx context.Context) ([]domain.Guest, error) {
	return s.guests.List(ctx)
}

// UpsertGuest creates a guest or refreshes the contact details of the guest
// with the same email.
func (s *Service) UpsertGuest(ctx context.Context, in GuestInfo) (*domain.Guest, error) {
	in = in.Normalized()
	if fields := validator.Validate(in); fields != nil {
		return nil, domain.NewValidationError("invalid guest details", fields)
	}
	g := in.guest()
	if err := s.guests.Upsert(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// notify runs observers after commit. A cancelled request does not cancel
// the side effects.
func (s *Service) notify(ctx context.Context, change domain.BookingStatusChange) {
	detached := context.WithoutCancel(ctx)
	for _, o := range s.observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("booking observer panicked",
						zap.Int64("booking_id", change.BookingID),
						zap.Any("panic", r),
					)
				}
			}()
			o.BookingStatusChanged(detached, change)
		}()
	}
}

func unresolved(err error, entity string, id int64) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s %d does not exist: %w", entity, id, domain.ErrInvalidBookingRequest)
	}
	return err
}
