// internal/events/publisher.go
package events

import (
	"encoding/json"
	"time"

	"github.com/streadway/amqp"
)

const queueName = "delivery_events"

// DeliveryEvent is one per-contact outcome from the send loop, mirrored to
// RabbitMQ so downstream consumers can audit a campaign without polling the
// HTTP log endpoints.
type DeliveryEvent struct {
	PhoneNumber string    `json:"phone_number"`
	Status      string    `json:"status"` // sent, failed
	Detail      string    `json:"detail,omitempty"`
	At          time.Time `json:"at"`
}

// Publisher writes delivery events to a durable queue. A nil *Publisher is
// valid and drops every event, so callers never need to branch on whether
// RabbitMQ was configured.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Connect dials RabbitMQ and declares the delivery_events queue.
func Connect(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, ch: ch}, nil
}

// PublishOutcome pushes one event to the queue.
func (p *Publisher) PublishOutcome(evt DeliveryEvent) error {
	if p == nil {
		return nil
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.ch.Publish(
		"",
		queueName,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.ch.Close()
	p.conn.Close()
}
