package mq

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	Publish(ctx context.Context, exchange string, routingKey string, body []byte) error
}

// RabbitPublisher sends persistent JSON messages on a single channel.
// Publishes are serialised because an amqp channel is not meant to be
// shared by concurrent writers.
type RabbitPublisher struct {
	mu    sync.Mutex
	ch    *amqp.Channel
	appID string
	now   func() time.Time
}

func NewRabbitPublisher(ch *amqp.Channel, appID string) *RabbitPublisher {
	return &RabbitPublisher{ch: ch, appID: appID, now: time.Now}
}

func (p *RabbitPublisher) Publish(ctx context.Context, exchange string, routingKey string, body []byte) error {
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    p.now().UTC(),
		AppId:        p.appID,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(ctx, exchange, routingKey, false, false, msg)
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		return nil
	}

	return p.ch.Close()
}
