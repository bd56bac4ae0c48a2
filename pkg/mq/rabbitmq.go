package mq

import (
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// DeadLetterSuffix names the queue that receives deliveries a consumer
// rejects without requeue.
const DeadLetterSuffix = ".dead"

var ErrConnectionClosed = errors.New("rabbitmq connection is closed")

type Config struct {
	URL            string        `mapstructure:"url"`
	ConnectionName string        `mapstructure:"connection_name"`
	Heartbeat      time.Duration `mapstructure:"heartbeat"`
}

type RabbitMQ struct {
	conn   *amqp.Connection
	name   string
	logger *zap.Logger
}

func NewConnection(cfg Config, logger *zap.Logger) (*RabbitMQ, error) {
	props := amqp.NewConnectionProperties()
	if cfg.ConnectionName != "" {
		props.SetClientConnectionName(cfg.ConnectionName)
	}

	heartbeat := cfg.Heartbeat
	if heartbeat <= 0 {
		heartbeat = 10 * time.Second
	}

	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{Heartbeat: heartbeat, Locale: "en_US", Properties: props})
	if err != nil {
		logger.Error("RabbitMQ dial failed", zap.String("connection", cfg.ConnectionName), zap.Error(err))
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	logger.Info("RabbitMQ connected", zap.String("connection", cfg.ConnectionName))

	return &RabbitMQ{conn: conn, name: cfg.ConnectionName, logger: logger}, nil
}

func (r *RabbitMQ) channel() (*amqp.Channel, error) {
	if r.conn == nil || r.conn.IsClosed() {
		return nil, ErrConnectionClosed
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return ch, nil
}

// QueueArgs returns the declare arguments routing rejected messages of
// queue to its dead-letter queue through the default exchange.
func QueueArgs(queue string) amqp.Table {
	return amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": queue + DeadLetterSuffix,
	}
}

// DeclareTopology declares each work queue as durable together with its
// dead-letter queue.
func (r *RabbitMQ) DeclareTopology(queues []string) error {
	ch, err := r.channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	for _, queue := range queues {
		if _, err := ch.QueueDeclare(queue+DeadLetterSuffix, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare dead-letter queue for %s: %w", queue, err)
		}
		if _, err := ch.QueueDeclare(queue, true, false, false, false, QueueArgs(queue)); err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}
	}

	r.logger.Debug("RabbitMQ topology declared", zap.Strings("queues", queues))

	return nil
}

func (r *RabbitMQ) CreatePublisher() (*RabbitPublisher, error) {
	ch, err := r.channel()
	if err != nil {
		return nil, err
	}

	return NewRabbitPublisher(ch, r.name), nil
}

func (r *RabbitMQ) CreateConsumer(tag string) (Consumer, error) {
	ch, err := r.channel()
	if err != nil {
		return nil, err
	}

	return NewRabbitConsumer(ch, tag), nil
}

func (r *RabbitMQ) Close() error {
	if r.conn == nil || r.conn.IsClosed() {
		return nil
	}

	return r.conn.Close()
}
