package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/materes/reservations/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// NoopPublisher is used when no broker is configured; reservation
// processing never depends on event delivery.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NoopPublisher) Close() error                                       { return nil }

// Reservation event subjects
const (
	ReservationCreated   = "reservation.created"
	ReservationConfirmed = "reservation.confirmed"
	ReservationDenied    = "reservation.denied"
	ReservationDeleted   = "reservation.deleted"
)

type ReservationCreatedEvent struct {
	ReservationID int64     `json:"reservation_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Guests        int       `json:"guests"`
	CreatedAt     time.Time `json:"created_at"`
}

type ReservationModeratedEvent struct {
	ReservationID int64     `json:"reservation_id"`
	Email         string    `json:"email"`
	Status        string    `json:"status"`
	ModeratedAt   time.Time `json:"moderated_at"`
}

type ReservationDeletedEvent struct {
	ReservationID int64     `json:"reservation_id"`
	DeletedAt     time.Time `json:"deleted_at"`
}
