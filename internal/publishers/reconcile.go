package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/config"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/service"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/mq"
	"go.uber.org/zap"
)

type reconcilePublisher struct {
	publisher mq.Publisher
	queue     string
	logger    *zap.Logger
}

func NewReconcilePublisher(publisher mq.Publisher, cfg *config.Config, logger *zap.Logger) service.ReconcileQueue {
	return &reconcilePublisher{publisher: publisher, queue: cfg.Reconcile.Queue, logger: logger}
}

func (r *reconcilePublisher) Enqueue(ctx context.Context, cmd service.ReconcileChargeCommand) error {
	body, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encoding reconcile command: %w", err)
	}

	if err := r.publisher.Publish(ctx, "", r.queue, body); err != nil {
		r.logger.Error("Failed to publish reconcile command",
			zap.Error(err),
			zap.String("chargeID", cmd.ChargeID))
		return err
	}

	r.logger.Info("Charge queued for reconcile", zap.String("chargeID", cmd.ChargeID))

	return nil
}

type noopPublisher struct{}

// NewNoopReconcilePublisher is used when the reconcile worker is disabled.
func NewNoopReconcilePublisher() service.ReconcileQueue {
	return noopPublisher{}
}

func (noopPublisher) Enqueue(context.Context, service.ReconcileChargeCommand) error {
	return nil
}
