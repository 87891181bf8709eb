package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const alertQueueName = "alert.raised"

// Publisher pushes alert events onto the broker.  The connection string
// comes from configuration so the queue package never reads the
// environment itself.
type Publisher struct {
	url string
	log zerolog.Logger
}

func NewPublisher(url string, log zerolog.Logger) *Publisher {
	return &Publisher{url: url, log: log.With().Str("component", "alert-publisher").Logger()}
}

// PublishAlertRaised publishes an AlertRaisedEvent to the alert.raised
// queue.  Any error is logged and returned so the caller can choose to
// ignore it without interrupting the request flow.  Messages are marked
// persistent.
func (p *Publisher) PublishAlertRaised(ctx context.Context, event AlertRaisedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Error().Err(err).Msg("dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Error().Err(err).Msg("channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(alertQueueName, true, false, false, false, nil); err != nil {
		p.log.Error().Err(err).Msg("queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error().Err(err).Msg("marshal event failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", alertQueueName, false, false, pub); err != nil {
		p.log.Error().Err(err).Uint64("alert_id", event.AlertID).Msg("publish failed")
		return err
	}
	return nil
}
