// Package queue publishes reservation domain events to RabbitMQ so
// downstream consumers (analytics, mailers) can react without querying the
// primary database. Publishing is best effort: errors are logged and
// returned, and the whole feature is disabled when no broker URL is set.
package queue

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventReservationCreated       = "reservation.created"
	EventReservationStatusChanged = "reservation.status_changed"
)

// ReservationEvent is the payload published for every reservation lifecycle
// change. It carries enough to notify the customer without a lookup.
type ReservationEvent struct {
	Event           string    `json:"event"`
	ReservationID   string    `json:"reservationId"`
	CustomerEmail   string    `json:"customerEmail"`
	ReservationDate string    `json:"reservationDate"`
	TimeSlot        string    `json:"timeSlot"`
	SelectedTables  []int     `json:"selectedTables"`
	Status          string    `json:"status"`
	GrandTotal      float64   `json:"grandTotal"`
	OccurredAt      time.Time `json:"occurredAt"`
}

func brokerURL() string {
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		return url
	}
	return os.Getenv("AMQP_URL")
}

// PublishReservationEvent sends the event to a durable queue named after the
// event type. It dials per publish; call volume here is a handful of messages
// per booking, not a hot path.
func PublishReservationEvent(ctx context.Context, event ReservationEvent) error {
	url := brokerURL()
	if url == "" {
		return nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(event.Event, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, "", event.Event, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
	}
	return err
}
