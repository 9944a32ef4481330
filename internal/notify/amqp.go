package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rabbitmq/amqp091-go"

	"github.com/alexanderramin/chantier/internal/domain"
)

// DefaultExchange is used when no exchange name is configured.
const DefaultExchange = "chantier.events"

// Channel is the subset of *amqp091.Channel used for publishing.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQPPublisher publishes alert events to a durable topic exchange.
type AMQPPublisher struct {
	conn     *amqp091.Connection
	channel  Channel
	exchange string
}

// DialAMQP connects to the broker and declares the exchange.
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// NewAMQPPublisher wraps an already opened channel.
func NewAMQPPublisher(ch Channel, exchange string) *AMQPPublisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &AMQPPublisher{channel: ch, exchange: exchange}
}

func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishAlerts sends one persistent JSON message per alert. Every alert is
// attempted; failures are joined.
func (p *AMQPPublisher) PublishAlerts(ctx context.Context, alerts []domain.Alert) error {
	var errs []error
	for _, a := range alerts {
		body, err := json.Marshal(NewAlertEvent(a))
		if err != nil {
			errs = append(errs, fmt.Errorf("encoding alert %s: %w", a.ID, err))
			continue
		}
		err = p.channel.PublishWithContext(ctx, p.exchange, RoutingKey(a.Type), false, false,
			amqp091.Publishing{
				ContentType:  "application/json",
				Body:         body,
				DeliveryMode: amqp091.Persistent,
				MessageId:    a.ID,
			})
		if err != nil {
			errs = append(errs, fmt.Errorf("publishing alert %s: %w", a.ID, err))
		}
	}
	return errors.Join(errs...)
}
