package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// AMQPSink republishes bus events on a topic exchange, using the event name
// as routing key so consumers can bind to "budget.#" or "transaction.*".
type AMQPSink struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

func NewAMQPSink(url, exchange string) (*AMQPSink, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()

		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPSink{conn: conn, channel: channel, exchange: exchange}, nil
}

// Run publishes every event received on events until the channel closes or
// ctx is done. Messages are transient: the bus never replays.
func (s *AMQPSink) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				return nil
			}

			body, err := Encode(e)
			if err != nil {
				slog.Error("failed to encode event", "event", e.Name, "error", err)
				continue
			}

			pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = s.channel.PublishWithContext(
				pubCtx,
				s.exchange, // exchange
				e.Name,     // routing key
				false,      // mandatory
				false,      // immediate
				amqp091.Publishing{
					ContentType:  "application/json",
					DeliveryMode: amqp091.Transient,
					Timestamp:    e.At,
					Type:         e.Name,
					Body:         body,
				},
			)
			cancel()

			if err != nil {
				slog.Warn("failed to publish event to amqp", "event", e.Name, "exchange", s.exchange, "error", err)
			}
		}
	}
}

func (s *AMQPSink) Close() error {
	if s.channel != nil {
		s.channel.Close()
	}

	if s.conn != nil {
		return s.conn.Close()
	}

	return nil
}
