package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher sends events to a topic exchange with routing key
// "order.<action type>", e.g. "order.status_change".
type RabbitPublisher struct {
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
}

func NewRabbitPublisher(url, exchange string) (*RabbitPublisher, error) {
	if exchange == "" {
		return nil, errs.NewValueIsRequiredError("rabbitmq exchange")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	p := NewRabbitPublisherWithChannel(ch, exchange)
	p.conn = conn
	return p, nil
}

func NewRabbitPublisherWithChannel(channel amqpChannel, exchange string) *RabbitPublisher {
	return &RabbitPublisher{channel: channel, exchange: exchange}
}

func (p *RabbitPublisher) Publish(ctx context.Context, events ...ports.OrderEvent) error {
	for _, e := range events {
		body, err := json.Marshal(newMessage(e))
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", e.ID, err)
		}

		err = p.channel.PublishWithContext(
			ctx,
			p.exchange,
			"order."+e.ActionType,
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    e.ID.String(),
				Timestamp:    e.OccurredAt,
				Body:         body,
			})
		if err != nil {
			return fmt.Errorf("failed to publish event %s: %w", e.ID, err)
		}
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	err := p.channel.Close()
	if p.conn != nil {
		if cErr := p.conn.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}
	return err
}
