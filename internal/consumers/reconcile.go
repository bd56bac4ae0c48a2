package consumers

import (
	"context"
	"encoding/json"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/config"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/service"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/mq"
	"go.uber.org/zap"
)

type ReconcileConsumer interface {
	Consume(ctx context.Context) error
}

type reconcileConsumer struct {
	service  service.ReconcileService
	consumer mq.Consumer
	queue    string
	prefetch int
	logger   *zap.Logger
}

func NewReconcileConsumer(service service.ReconcileService, consumer mq.Consumer, cfg *config.Config,
	logger *zap.Logger) ReconcileConsumer {
	return &reconcileConsumer{
		service:  service,
		consumer: consumer,
		queue:    cfg.Reconcile.Queue,
		prefetch: cfg.Reconcile.Prefetch,
		logger:   logger,
	}
}

func (r *reconcileConsumer) Consume(ctx context.Context) error {
	return r.consumer.Consume(ctx, r.prefetch, r.queue, r.handleMessage)
}

func (r *reconcileConsumer) handleMessage(ctx context.Context, body []byte) error {
	r.logger.Debug("received reconcile command", zap.ByteString("body", body))

	var cmd service.ReconcileChargeCommand
	if err := json.Unmarshal(body, &cmd); err != nil {
		r.logger.Warn("invalid reconcile command", zap.Error(err))
		return err
	}

	return r.service.Reconcile(ctx, cmd)
}
