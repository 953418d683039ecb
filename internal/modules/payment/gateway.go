package payment

import (
	"context"

	"retreatbooking/internal/domain"
)

const EventCheckoutCompleted = "checkout.session.completed"

type CheckoutRequest struct {
	BookingID      int64
	AmountMinor    int64
	Currency       string
	ProductName    string
	Description    string
	CustomerEmail  string
	SuccessURL     string
	CancelURL      string
	PaymentType    domain.PaymentType
	IdempotencyKey string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Event is a verified provider webhook event. Session fields are only set
// for checkout completion events.
type Event struct {
	ID          string
	Type        string
	SessionID   string
	AmountTotal int64
	Metadata    map[string]string
}

// Gateway is the hosted checkout provider.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
	ReceiptURL(sessionID string) string
}
