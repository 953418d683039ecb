package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"retreatbooking/internal/domain"
)

const publishTimeout = 5 * time.Second

type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher is a booking observer that emits booking.confirmed messages.
// The broker connection is opened lazily and reopened after a failure.
// Publish errors are logged and never reach the booking flow.
type Publisher struct {
	mu     sync.Mutex
	dial   func() (channel, func() error, error)
	ch     channel
	closer func() error
	logger *zap.Logger
}

func NewPublisher(url string, logger *zap.Logger) *Publisher {
	return &Publisher{
		dial: func() (channel, func() error, error) {
			conn, err := amqp.Dial(url)
			if err != nil {
				return nil, nil, fmt.Errorf("dial broker: %w", err)
			}
			ch, err := conn.Channel()
			if err != nil {
				_ = conn.Close()
				return nil, nil, fmt.Errorf("open channel: %w", err)
			}
			return ch, conn.Close, nil
		},
		logger: logger,
	}
}

func (p *Publisher) BookingStatusChanged(ctx context.Context, change domain.BookingStatusChange) {
	if change.To != domain.BookingConfirmed {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.PublishBookingConfirmed(ctx, newBookingConfirmedEvent(change)); err != nil {
		p.logger.Warn("rabbitmq: publish booking.confirmed failed",
			zap.Int64("booking_id", change.BookingID), zap.Error(err))
	}
}

// PublishBookingConfirmed sends a persistent message to the durable
// booking.confirmed queue.
func (p *Publisher) PublishBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, "", BookingConfirmedQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.reset()
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

func (p *Publisher) channel() (channel, error) {
	if p.ch != nil {
		return p.ch, nil
	}
	ch, closer, err := p.dial()
	if err != nil {
		return nil, err
	}
	if _, err := ch.QueueDeclare(BookingConfirmedQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		if closer != nil {
			_ = closer()
		}
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	p.ch, p.closer = ch, closer
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.closer != nil {
		_ = p.closer()
	}
	p.ch, p.closer = nil, nil
}
