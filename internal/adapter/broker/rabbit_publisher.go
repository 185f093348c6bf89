package broker

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/minhle2104/shopcore-api/internal/outbox"
)

// RabbitPublisher publishes events on a durable topic exchange, one routing
// key per topic. Consumers bind their own queues.
type RabbitPublisher struct {
	ch       *amqp.Channel
	exchange string
}

// NewRabbitPublisher declares the exchange once at startup and enables
// publisher confirms so a broker that silently drops messages surfaces as
// an error the dispatch worker can retry.
func NewRabbitPublisher(ch *amqp.Channel, exchange string) (*RabbitPublisher, error) {
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}
	return &RabbitPublisher{ch: ch, exchange: exchange}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // survive broker restarts
		Body:         payload,
	}
	if err := p.ch.PublishWithContext(
		ctx,
		p.exchange,
		topic, // routing key
		false, // mandatory
		false, // immediate
		pub,
	); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

var _ outbox.Publisher = (*RabbitPublisher)(nil)
