package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Handle func(ctx context.Context, body []byte) error

type Consumer interface {
	Consume(ctx context.Context, prefetch int, queue string, handler Handle) error
}

type RabbitConsumer struct {
	ch  *amqp.Channel
	tag string
}

func NewRabbitConsumer(ch *amqp.Channel, tag string) Consumer {
	return &RabbitConsumer{ch: ch, tag: tag}
}

// Consume handles deliveries one at a time until ctx is cancelled or the
// broker closes the channel. Unacked deliveries return to the queue when the
// channel closes.
func (c *RabbitConsumer) Consume(ctx context.Context, prefetch int, queue string, handler Handle) error {
	if err := c.ch.Qos(max(prefetch, 1), 0, false); err != nil {
		return fmt.Errorf("set qos on %s: %w", queue, err)
	}

	deliveries, err := c.ch.Consume(queue, c.tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			_ = c.ch.Cancel(c.tag, false)
			return ctx.Err()

		case d, ok := <-deliveries:
			if !ok {
				return nil
			}

			settle(d, safeHandle(ctx, handler, d.Body))
		}
	}
}

// safeHandle converts a handler panic into a permanent failure so the
// delivery is dead-lettered instead of crashing the worker.
func safeHandle(ctx context.Context, handler Handle, body []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	return handler(ctx, body)
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// settle acks handled deliveries. Failures are requeued when temporary and
// rejected to the dead-letter queue otherwise.
func settle(d acknowledger, err error) {
	if err == nil {
		_ = d.Ack(false)
		return
	}

	_ = d.Nack(false, IsTemporary(err))
}
