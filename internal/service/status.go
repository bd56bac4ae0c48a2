package service

import (
	"context"
	"errors"
	"time"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/constants"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/metrics"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/pricing"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/repository"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/omise"
	"go.uber.org/zap"
)

type StatusService interface {
	CheckCharge(ctx context.Context, query CheckChargeQuery) (ChargeStatus, error)
}

// ReconcileQueue hands charges that were paid but not yet credited to the
// reconcile worker.
type ReconcileQueue interface {
	Enqueue(ctx context.Context, cmd ReconcileChargeCommand) error
}

// Status answers charge status polls. It only reads: balances and
// transactions are never written here, whatever the gateway reports.
type Status struct {
	payment PaymentService
	txRepo  repository.TransactionRepository
	catalog *pricing.Catalog
	queue   ReconcileQueue
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewStatusService(payment PaymentService, txRepo repository.TransactionRepository, catalog *pricing.Catalog,
	queue ReconcileQueue, metrics *metrics.Metrics, logger *zap.Logger) StatusService {
	return &Status{payment: payment, txRepo: txRepo, catalog: catalog, queue: queue, metrics: metrics, logger: logger}
}

func (s *Status) CheckCharge(ctx context.Context, query CheckChargeQuery) (ChargeStatus, error) {
	charge, err := s.payment.GetCharge(ctx, query.ChargeID)
	if err != nil {
		return ChargeStatus{}, err
	}

	if owner := charge.Metadata.String("userId", "user_id"); query.UserID != "" && owner != "" && owner != query.UserID {
		s.logger.Warn("Charge polled by another user",
			zap.String("chargeID", query.ChargeID),
			zap.String("userID", query.UserID))
		return ChargeStatus{}, NewServiceError(constants.ErrCodeChargeNotOwned, ErrChargeNotOwned)
	}

	result := ChargeStatus{
		ID:             charge.ID,
		Status:         charge.Status,
		LocalStatus:    LocalStatusPending,
		Amount:         omise.FromSubunits(charge.Amount),
		FailureCode:    charge.FailureCode,
		FailureMessage: charge.FailureMessage,
	}

	switch charge.Status {
	case omise.ChargeStatusSuccessful:
		tx, err := s.txRepo.FindByRefNo(ctx, charge.ID)
		switch {
		case err == nil:
			result.LocalStatus = LocalStatusRecorded
			result.Credits = tx.Credits
		case errors.Is(err, repository.ErrTransactionNotFound):
			result.LocalStatus = LocalStatusSyncNeeded
			result.Credits = s.estimateCredits(charge)
			s.requestReconcile(ctx, charge, query.UserID)
		default:
			s.logger.Error("Transaction lookup failed", zap.Error(err), zap.String("chargeID", charge.ID))
			return ChargeStatus{}, NewServiceError(constants.ErrCodeDatabase, errors.Join(ErrDatabase, err))
		}
	case omise.ChargeStatusFailed, omise.ChargeStatusExpired:
		result.LocalStatus = LocalStatusFailed
	}

	s.metrics.RecordStatusCheck(string(result.LocalStatus))
	s.logger.Info("Charge status checked",
		zap.String("chargeID", charge.ID),
		zap.String("status", string(charge.Status)),
		zap.String("localStatus", string(result.LocalStatus)))

	return result, nil
}

// estimateCredits is for display only while the webhook has not landed.
func (s *Status) estimateCredits(charge omise.Charge) int64 {
	amount, ok := charge.Metadata.Decimal("amount")
	if !ok || amount.IsZero() {
		amount = omise.FromSubunits(charge.Amount)
	}

	credits, _ := s.catalog.CreditsFor(amount)
	return credits
}

func (s *Status) requestReconcile(ctx context.Context, charge omise.Charge, userID string) {
	cmd := ReconcileChargeCommand{ChargeID: charge.ID, UserID: userID, ObservedAt: time.Now().UTC()}
	if err := s.queue.Enqueue(ctx, cmd); err != nil {
		s.logger.Warn("Failed to enqueue charge for reconcile", zap.Error(err), zap.String("chargeID", charge.ID))
	}
}
