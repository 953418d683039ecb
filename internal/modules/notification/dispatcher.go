package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"retreatbooking/internal/domain"
	"retreatbooking/internal/modules/pricing"
	"retreatbooking/internal/repository"
)

// Dispatcher renders and sends transactional email. Guest and influencer
// messages are best effort: failures are logged and never returned.
type Dispatcher struct {
	mailer      Mailer
	bookings    *repository.BookingRepository
	payments    *repository.PaymentRepository
	promos      *repository.PromoCodeRepository
	assignments *repository.AssignmentRepository
	currency    string
	logger      *zap.Logger
}

func NewDispatcher(db *gorm.DB, mailer Mailer, currency string, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		mailer:      mailer,
		bookings:    repository.NewBookingRepository(db),
		payments:    repository.NewPaymentRepository(db),
		promos:      repository.NewPromoCodeRepository(db),
		assignments: repository.NewAssignmentRepository(db),
		currency:    currency,
		logger:      logger,
	}
}

// BookingStatusChanged sends the guest confirmation once a booking is
// confirmed.
func (d *Dispatcher) BookingStatusChanged(ctx context.Context, change domain.BookingStatusChange) {
	if change.To == domain.BookingConfirmed {
		d.SendBookingConfirmation(ctx, change.BookingID)
	}
}

func (d *Dispatcher) SendBookingConfirmation(ctx context.Context, bookingID int64) {
	b, err := d.bookings.GetDetail(ctx, bookingID)
	if err != nil {
		d.logFailure("booking confirmation", err, zap.Int64("booking_id", bookingID))
		return
	}
	msg, err := d.bookingConfirmation(b)
	if err != nil {
		d.logFailure("booking confirmation", err, zap.Int64("booking_id", bookingID))
		return
	}
	d.deliver(ctx, "booking confirmation", msg, zap.Int64("booking_id", bookingID))
}

func (d *Dispatcher) SendPaymentReceipt(ctx context.Context, paymentID int64) {
	p, err := d.payments.GetDetail(ctx, paymentID)
	if err != nil {
		d.logFailure("payment receipt", err, zap.Int64("payment_id", paymentID))
		return
	}
	msg, err := d.paymentReceipt(p)
	if err != nil {
		d.logFailure("payment receipt", err, zap.Int64("payment_id", paymentID))
		return
	}
	d.deliver(ctx, "payment receipt", msg, zap.Int64("payment_id", paymentID))
}

func (d *Dispatcher) SendInfluencerCommission(ctx context.Context, bookingID int64) {
	b, err := d.bookings.GetDetail(ctx, bookingID)
	if err != nil {
		d.logFailure("influencer commission", err, zap.Int64("booking_id", bookingID))
		return
	}
	if b.PromoCode == nil || b.PromoCode.Influencer == nil {
		return
	}
	count, err := d.promos.CountConfirmedBookings(ctx, b.PromoCode.ID)
	if err != nil {
		d.logFailure("influencer commission", err, zap.Int64("booking_id", bookingID))
		return
	}
	msg, err := d.influencerCommission(b, count)
	if err != nil {
		d.logFailure("influencer commission", err, zap.Int64("booking_id", bookingID))
		return
	}
	d.deliver(ctx, "influencer commission", msg, zap.Int64("booking_id", bookingID))
}

// SendTeacherAssignment returns the delivery error so the caller can keep
// the assignment flagged for resend.
func (d *Dispatcher) SendTeacherAssignment(ctx context.Context, assignmentID int64) error {
	a, err := d.assignments.GetDetail(ctx, assignmentID)
	if err != nil {
		return err
	}
	msg, err := d.teacherAssignment(a)
	if err != nil {
		return err
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		d.logFailure("teacher assignment", err, zap.Int64("assignment_id", assignmentID))
		return err
	}
	d.logger.Info("email sent", zap.String("kind", "teacher assignment"), zap.Int64("assignment_id", assignmentID))
	return nil
}

func (d *Dispatcher) bookingConfirmation(b *domain.Booking) (Message, error) {
	if b.Guest == nil || b.Retreat == nil || b.RetreatDate == nil || b.RoomType == nil {
		return Message{}, fmt.Errorf("booking %d is missing relations", b.ID)
	}
	data := bookingConfirmationData{
		GuestName:   b.Guest.FullName(),
		RetreatName: b.Retreat.Name,
		Location:    b.Retreat.Location,
		BookingID:   b.ID,
		StartDate:   formatDate(b.RetreatDate.StartDate),
		EndDate:     formatDate(b.RetreatDate.EndDate),
		CheckIn:     checkInTime,
		CheckOut:    checkOutTime,
		RoomName:    b.RoomType.Name,
		Guests:      b.NumberOfGuests,
		Total:       formatMoney(b.TotalPrice, d.currency),
	}
	if b.PromoCode != nil {
		data.PromoCode = b.PromoCode.Code
		data.Discount = b.PromoCode.DiscountPercentage
	}
	html, err := render(tplBookingConfirmation, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      b.Guest.Email,
		Subject: "Booking Confirmed - " + b.Retreat.Name,
		HTML:    html,
	}, nil
}

func (d *Dispatcher) paymentReceipt(p *domain.Payment) (Message, error) {
	b := p.Booking
	if b == nil || b.Guest == nil || b.Retreat == nil {
		return Message{}, fmt.Errorf("payment %d is missing its booking", p.ID)
	}
	data := paymentReceiptData{
		GuestName:   b.Guest.FullName(),
		RetreatName: b.Retreat.Name,
		BookingID:   b.ID,
		PaymentID:   p.ID,
		Amount:      formatMoney(p.Amount, d.currency),
		ReceiptURL:  p.ReceiptURL,
	}
	if p.PaidAt != nil {
		data.PaidAt = formatDate(*p.PaidAt)
	}
	html, err := render(tplPaymentReceipt, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      b.Guest.Email,
		Subject: "Payment Receipt - " + b.Retreat.Name,
		HTML:    html,
	}, nil
}

func (d *Dispatcher) influencerCommission(b *domain.Booking, bookingCount int64) (Message, error) {
	promo := b.PromoCode
	if b.Guest == nil || b.Retreat == nil {
		return Message{}, fmt.Errorf("booking %d is missing relations", b.ID)
	}
	html, err := render(tplInfluencerCommission, influencerCommissionData{
		InfluencerName: promo.Influencer.Name,
		GuestName:      b.Guest.FullName(),
		RetreatName:    b.Retreat.Name,
		Code:           promo.Code,
		Total:          formatMoney(b.TotalPrice, d.currency),
		Percentage:     promo.DiscountPercentage,
		Commission:     formatMoney(pricing.Commission(b.TotalPrice, promo.DiscountPercentage), d.currency),
		BookingCount:   bookingCount,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      promo.Influencer.Email,
		Subject: "New Booking via Your Promo Code - " + promo.Code,
		HTML:    html,
	}, nil
}

func (d *Dispatcher) teacherAssignment(a *domain.TeacherRetreatAssignment) (Message, error) {
	if a.Teacher == nil || a.Retreat == nil || a.RetreatDate == nil {
		return Message{}, fmt.Errorf("assignment %d is missing relations", a.ID)
	}
	html, err := render(tplTeacherAssignment, teacherAssignmentData{
		TeacherName: a.Teacher.Name,
		Role:        a.Role,
		RetreatName: a.Retreat.Name,
		Location:    a.Retreat.Location,
		StartDate:   formatDate(a.RetreatDate.StartDate),
		EndDate:     formatDate(a.RetreatDate.EndDate),
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      a.Teacher.Email,
		Subject: "New Retreat Assignment - " + a.Retreat.Name,
		HTML:    html,
	}, nil
}

func (d *Dispatcher) deliver(ctx context.Context, kind string, msg Message, fields ...zap.Field) {
	if err := d.mailer.Send(ctx, msg); err != nil {
		d.logFailure(kind, err, fields...)
		return
	}
	d.logger.Info("email sent", append(fields, zap.String("kind", kind), zap.String("to", msg.To))...)
}

func (d *Dispatcher) logFailure(kind string, err error, fields ...zap.Field) {
	d.logger.Error("email not sent", append(fields, zap.String("kind", kind), zap.Error(err))...)
}
