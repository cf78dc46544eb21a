package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"carteira/internal/logger"
)

// Bridge publishes changes to a fanout exchange and dispatches every change
// it consumes, including its own, to a local Hub. Each process binds its own
// exclusive queue, so every process sees every change.
type Bridge struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
	hub      *Hub
}

var _ Publisher = (*Bridge)(nil)

// DialBridge connects to the broker and declares the exchange and this
// process's queue.
func DialBridge(url, exchange string, hub *Hub) (*Bridge, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	b := &Bridge{conn: conn, channel: channel, exchange: exchange, hub: hub}
	if err := b.setup(); err != nil {
		b.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return b, nil
}

func (b *Bridge) setup() error {
	err := b.channel.ExchangeDeclare(
		b.exchange, // name
		"fanout",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	q, err := b.channel.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	b.queue = q.Name

	if err := b.channel.QueueBind(b.queue, "", b.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// Publish sends c to every process.
func (b *Bridge) Publish(ctx context.Context, c Change) error {
	body, err := c.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = b.channel.PublishWithContext(ctx,
		b.exchange, // exchange
		"",         // routing key, ignored by fanout
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   c.Timestamp,
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

// Run consumes changes and dispatches them to the Hub until ctx ends.
func (b *Bridge) Run(ctx context.Context) error {
	log := logger.Named("notify")

	msgs, err := b.channel.Consume(
		b.queue, // queue
		"",      // consumer
		true,    // auto-ack: notices are disposable
		true,    // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	log.Infow("consuming collection changes", "exchange", b.exchange, "queue", b.queue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-msgs:
			if !ok {
				return errors.New("change feed closed by broker")
			}
			c, err := ChangeFromJSON(delivery.Body)
			if err != nil {
				log.Warnw("dropping malformed change", "error", err)
				continue
			}
			b.hub.Dispatch(c)
		}
	}
}

// Close closes the channel and the connection.
func (b *Bridge) Close() error {
	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
