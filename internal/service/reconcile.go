package service

import (
	"context"
	"errors"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/constants"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/metrics"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/mq"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/omise"
	"go.uber.org/zap"
)

type ReconcileService interface {
	Reconcile(ctx context.Context, cmd ReconcileChargeCommand) error
}

// Reconcile re-drives a paid charge through the webhook crediting path. It is
// a second way in to the same idempotent grant, not a second writer.
type Reconcile struct {
	payment PaymentService
	webhook WebhookService
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewReconcileService(payment PaymentService, webhook WebhookService, metrics *metrics.Metrics,
	logger *zap.Logger) ReconcileService {
	return &Reconcile{payment: payment, webhook: webhook, metrics: metrics, logger: logger}
}

// Reconcile returns an mq.Temporary error when a later attempt could succeed.
func (r *Reconcile) Reconcile(ctx context.Context, cmd ReconcileChargeCommand) error {
	r.logger.Info("Reconciling charge", zap.String("chargeID", cmd.ChargeID))

	if cmd.ChargeID == "" {
		r.metrics.RecordReconcileMessage("invalid")
		return ErrMalformedEvent
	}

	charge, err := r.payment.GetCharge(ctx, cmd.ChargeID)
	if err != nil {
		var serviceErr Error
		if errors.As(err, &serviceErr) && omise.IsRetryable(serviceErr.Cause) {
			r.metrics.RecordReconcileMessage("retry")
			return mq.Temporary(err)
		}

		r.logger.Warn("Charge lookup failed permanently", zap.Error(err), zap.String("chargeID", cmd.ChargeID))
		r.metrics.RecordReconcileMessage("dropped")
		return err
	}

	if charge.Status != omise.ChargeStatusSuccessful {
		r.logger.Info("Charge not successful, nothing to reconcile",
			zap.String("chargeID", cmd.ChargeID),
			zap.String("status", string(charge.Status)))
		r.metrics.RecordReconcileMessage("skipped")
		return nil
	}

	result, err := r.webhook.ProcessCharge(ctx, charge)
	if err != nil {
		var serviceErr Error
		if errors.As(err, &serviceErr) && serviceErr.Code == constants.ErrCodeDatabase {
			r.metrics.RecordReconcileMessage("retry")
			return mq.Temporary(err)
		}

		r.metrics.RecordReconcileMessage("dropped")
		return err
	}

	r.metrics.RecordReconcileMessage(string(result.Outcome))
	return nil
}
