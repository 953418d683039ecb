package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"retreatbooking/internal/domain"
	"retreatbooking/internal/modules/booking"
	"retreatbooking/internal/modules/pricing"
	"retreatbooking/internal/repository"
)

type Options struct {
	BaseURL  string
	Currency string
}

type Service struct {
	lifecycle bookingLifecycle
	bookings  *repository.BookingRepository
	payments  *repository.PaymentRepository
	gateway   Gateway
	notifier  Notifier
	opts      Options
	logger    *zap.Logger
}

func NewService(db *gorm.DB, lifecycle bookingLifecycle, gateway Gateway, notifier Notifier, opts Options, logger *zap.Logger) *Service {
	if opts.Currency == "" {
		opts.Currency = "eur"
	}
	return &Service{
		lifecycle: lifecycle,
		bookings:  repository.NewBookingRepository(db),
		payments:  repository.NewPaymentRepository(db),
		gateway:   gateway,
		notifier:  notifier,
		opts:      opts,
		logger:    logger,
	}
}

// CreateSession creates a pending booking and opens checkout for it.
func (s *Service) CreateSession(ctx context.Context, in booking.CreateBookingInput) (*CheckoutResult, error) {
	b, err := s.lifecycle.CreateBooking(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.OpenCheckout(ctx, b.ID)
}

// OpenCheckout opens a provider session for a PENDING booking. The amount is
// re-derived from current prices rather than trusted from the booking row.
func (s *Service) OpenCheckout(ctx context.Context, bookingID int64) (*CheckoutResult, error) {
	b, err := s.bookings.GetDetail(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("id %d: %w", bookingID, booking.ErrBookingNotFound)
		}
		return nil, err
	}
	if b.Status != domain.BookingPending {
		return nil, fmt.Errorf("booking %d is %s: %w", b.ID, b.Status, domain.ErrInvalidBookingState)
	}

	discount := 0
	if b.PromoCode != nil {
		discount = b.PromoCode.DiscountPercentage
	}
	amount := pricing.QuotePrice(pricing.BasePrice(*b.RoomType, *b.Retreat), discount)
	if amount <= 0 {
		return nil, fmt.Errorf("booking %d has nothing to charge: %w", b.ID, domain.ErrInvalidBookingState)
	}
	if amount != b.TotalPrice {
		s.logger.Warn("booking total re-derived",
			zap.Int64("booking_id", b.ID),
			zap.Float64("stored", b.TotalPrice),
			zap.Float64("derived", amount),
		)
		if err := s.bookings.UpdateTotalPrice(ctx, b.ID, amount); err != nil {
			return nil, err
		}
	}

	req := CheckoutRequest{
		BookingID:   b.ID,
		AmountMinor: pricing.ToMinorUnits(amount),
		Currency:    s.opts.Currency,
		ProductName: fmt.Sprintf("%s - %s", b.Retreat.Name, b.RoomType.Name),
		Description: fmt.Sprintf("%d guest(s) • Booking ID: %d • Location: %s",
			b.NumberOfGuests, b.ID, b.Retreat.Location),
		SuccessURL:     s.opts.BaseURL + "/booking/thank-you?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:      s.opts.BaseURL + "/booking/payment?cancelled=true",
		PaymentType:    domain.PaymentFull,
		IdempotencyKey: uuid.NewString(),
	}
	if b.Guest != nil {
		req.CustomerEmail = b.Guest.Email
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		s.logger.Error("checkout session failed", zap.Int64("booking_id", b.ID), zap.Error(err))
		if !errors.Is(err, domain.ErrUpstreamPayment) {
			err = fmt.Errorf("%w: %v", domain.ErrUpstreamPayment, err)
		}
		return nil, err
	}

	p := &domain.Payment{
		BookingID:         b.ID,
		ExternalSessionID: session.ID,
		Amount:            amount,
		PaymentType:       domain.PaymentFull,
		Status:            domain.PaymentPending,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("checkout opened",
		zap.Int64("booking_id", b.ID),
		zap.String("session_id", session.ID),
		zap.Float64("amount", amount),
	)
	return &CheckoutResult{
		SessionID:   session.ID,
		CheckoutURL: session.URL,
		BookingID:   b.ID,
		Amount:      amount,
	}, nil
}

// HandleWebhook verifies a provider event and acts on checkout completion.
// Other event types are acknowledged without side effects.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) (*CompletionResult, error) {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return nil, err
	}
	if event.Type != EventCheckoutCompleted {
		s.logger.Debug("webhook event ignored", zap.String("type", event.Type), zap.String("event_id", event.ID))
		return &CompletionResult{Ignored: true, EventType: event.Type}, nil
	}

	res, err := s.HandlePaymentCompleted(ctx, event.SessionID, event.AmountTotal)
	if err != nil {
		return nil, err
	}
	if raw, ok := event.Metadata["bookingId"]; ok && raw != strconv.FormatInt(res.BookingID, 10) {
		s.logger.Warn("webhook booking metadata mismatch",
			zap.String("session_id", event.SessionID),
			zap.String("metadata_booking_id", raw),
			zap.Int64("booking_id", res.BookingID),
		)
	}
	res.EventType = event.Type
	return res, nil
}

// HandlePaymentCompleted marks the payment COMPLETED and confirms its
// booking in one transaction. A booking an admin already confirmed keeps
// its status and counter. Repeated calls for the same session are no-ops.
func (s *Service) HandlePaymentCompleted(ctx context.Context, sessionID string, amountMinor int64) (*CompletionResult, error) {
	p, err := s.payments.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("session %s: %w", sessionID, ErrPaymentNotFound)
		}
		return nil, err
	}
	if p.Status == domain.PaymentCompleted {
		s.logger.Info("payment already completed", zap.String("session_id", sessionID))
		return &CompletionResult{BookingID: p.BookingID, PaymentID: p.ID, AlreadyProcessed: true}, nil
	}

	done := repository.CompletedPayment{
		Amount:     pricing.FromMinorUnits(amountMinor),
		ReceiptURL: s.gateway.ReceiptURL(sessionID),
		PaidAt:     time.Now().UTC(),
	}

	var (
		completed      *domain.Payment
		priorConfirmed bool
	)
	confirmed, err := s.lifecycle.TransitionWithin(ctx, p.BookingID, domain.BookingConfirmed, func(tx *gorm.DB, locked *domain.Booking) error {
		paid, changed, merr := repository.NewPaymentRepository(tx).MarkCompletedIdempotent(ctx, sessionID, done)
		if merr != nil {
			return merr
		}
		if !changed {
			return errAlreadyCompleted
		}
		completed = paid
		// An admin confirmed the booking before the money arrived. Its
		// spots are already counted.
		if locked.Status == domain.BookingConfirmed {
			priorConfirmed = true
			return booking.SkipTransition
		}
		return nil
	})
	switch {
	case errors.Is(err, errAlreadyCompleted):
		s.logger.Info("payment completed by a concurrent delivery", zap.String("session_id", sessionID))
		return &CompletionResult{BookingID: p.BookingID, PaymentID: p.ID, AlreadyProcessed: true}, nil
	case errors.Is(err, domain.ErrInsufficientInventory), errors.Is(err, domain.ErrInvalidTransition):
		return s.recordUnconfirmed(ctx, p, done, err)
	case err != nil:
		s.logger.Error("payment completion failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("payment completed",
		zap.String("session_id", sessionID),
		zap.Int64("booking_id", confirmed.ID),
		zap.Float64("amount", done.Amount),
		zap.Bool("booking_already_confirmed", priorConfirmed),
	)

	detached := context.WithoutCancel(ctx)
	s.notifier.SendPaymentReceipt(detached, completed.ID)
	if confirmed.PromoCodeID != nil {
		s.notifier.SendInfluencerCommission(detached, confirmed.ID)
	}

	return &CompletionResult{BookingID: confirmed.ID, PaymentID: completed.ID}, nil
}

// recordUnconfirmed keeps the money trail when the provider took payment
// but the booking could not be confirmed. The booking is left for manual
// reconciliation.
func (s *Service) recordUnconfirmed(ctx context.Context, p *domain.Payment, done repository.CompletedPayment, cause error) (*CompletionResult, error) {
	done.FailureReason = cause.Error()
	_, changed, err := s.payments.MarkCompletedIdempotent(ctx, p.ExternalSessionID, done)
	if err != nil {
		return nil, err
	}
	if !changed {
		return &CompletionResult{BookingID: p.BookingID, PaymentID: p.ID, AlreadyProcessed: true}, nil
	}

	s.logger.Error("payment completed but booking not confirmed",
		zap.String("session_id", p.ExternalSessionID),
		zap.Int64("booking_id", p.BookingID),
		zap.Error(cause),
	)
	return nil, fmt.Errorf("payment %s recorded, booking %d needs reconciliation: %w", p.ExternalSessionID, p.BookingID, cause)
}
