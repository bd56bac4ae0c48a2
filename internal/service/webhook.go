package service

import (
	"context"
	"errors"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/config"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/constants"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/metrics"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/model"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/pricing"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/repository"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/omise"
	"go.uber.org/zap"
)

type WebhookService interface {
	// HandleEvent processes a callback as posted by the gateway.
	HandleEvent(ctx context.Context, event omise.Event) (WebhookResult, error)
	// ProcessCharge credits a charge already confirmed with the gateway.
	ProcessCharge(ctx context.Context, charge omise.Charge) (WebhookResult, error)
}

type Webhook struct {
	txManager    repository.TxManager
	profileRepo  repository.ProfileRepository
	txRepo       repository.TransactionRepository
	payment      PaymentService
	catalog      *pricing.Catalog
	verifyEvents bool
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewWebhookService(txManager repository.TxManager, profileRepo repository.ProfileRepository,
	txRepo repository.TransactionRepository, payment PaymentService, catalog *pricing.Catalog,
	config *config.Config, metrics *metrics.Metrics, logger *zap.Logger) WebhookService {
	return &Webhook{
		txManager:    txManager,
		profileRepo:  profileRepo,
		txRepo:       txRepo,
		payment:      payment,
		catalog:      catalog,
		verifyEvents: config.Omise.VerifyEvents,
		metrics:      metrics,
		logger:       logger,
	}
}

func (w *Webhook) HandleEvent(ctx context.Context, event omise.Event) (WebhookResult, error) {
	charge := event.Data

	if event.Key != omise.EventChargeComplete || charge.Status != omise.ChargeStatusSuccessful {
		w.logger.Info("Webhook event ignored",
			zap.String("eventID", event.ID),
			zap.String("key", event.Key),
			zap.String("status", string(charge.Status)))
		w.metrics.RecordWebhookEvent(string(OutcomeIgnored))

		return WebhookResult{Outcome: OutcomeIgnored, ChargeID: charge.ID}, nil
	}

	if charge.ID == "" {
		w.metrics.RecordWebhookEvent("malformed")
		return WebhookResult{}, NewServiceError(constants.ErrCodeMalformedEvent, ErrMalformedEvent)
	}

	if w.verifyEvents {
		fetched, err := w.payment.GetCharge(ctx, charge.ID)
		if err != nil {
			w.logger.Error("Webhook charge verification failed", zap.Error(err), zap.String("chargeID", charge.ID))
			return WebhookResult{}, err
		}

		if fetched.Status != omise.ChargeStatusSuccessful {
			w.logger.Warn("Webhook claims success but gateway disagrees",
				zap.String("chargeID", charge.ID),
				zap.String("gatewayStatus", string(fetched.Status)))
			w.metrics.RecordWebhookEvent(string(OutcomeIgnored))

			return WebhookResult{Outcome: OutcomeIgnored, ChargeID: charge.ID}, nil
		}

		charge = fetched
	}

	return w.ProcessCharge(ctx, charge)
}

func (w *Webhook) ProcessCharge(ctx context.Context, charge omise.Charge) (WebhookResult, error) {
	correlation, err := ParseCorrelation(charge.Metadata)
	if err != nil {
		w.logger.Error("Charge has no user id in metadata",
			zap.Error(err),
			zap.String("chargeID", charge.ID))
		w.metrics.RecordWebhookEvent("missing_user_id")

		return WebhookResult{}, NewServiceError(constants.ErrCodeMissingUserID, err)
	}

	result := WebhookResult{ChargeID: charge.ID, UserID: correlation.UserID}

	credits, ok := int64(0), false
	if correlation.HasAmount {
		credits, ok = w.catalog.CreditsFor(correlation.Amount)
	}
	if !ok {
		w.logger.Warn("Charge amount does not match any package",
			zap.String("chargeID", charge.ID),
			zap.String("userID", correlation.UserID),
			zap.Any("amount", charge.Metadata["amount"]),
			zap.String("catalogVersion", w.catalog.Version()))
		w.metrics.RecordWebhookEvent(string(OutcomeUnknownAmount))

		result.Outcome = OutcomeUnknownAmount
		return result, nil
	}

	result.Credits = credits

	if existing, err := w.txRepo.FindByRefNo(ctx, charge.ID); err == nil {
		w.logAlreadyProcessed(charge.ID)
		result.Outcome = OutcomeAlreadyProcessed
		result.Credits = existing.Credits
		return result, nil
	} else if !errors.Is(err, repository.ErrTransactionNotFound) {
		// the insert below still guards against duplicates
		w.logger.Warn("Idempotency pre-check failed", zap.Error(err), zap.String("chargeID", charge.ID))
	}

	balance, err := w.grant(ctx, charge.ID, correlation, credits)
	if errors.Is(err, repository.ErrTransactionExisted) {
		w.logAlreadyProcessed(charge.ID)
		result.Outcome = OutcomeAlreadyProcessed
		return result, nil
	}
	if err != nil {
		return WebhookResult{}, w.grantFailed(charge.ID, correlation.UserID, err)
	}

	w.metrics.RecordWebhookEvent(string(OutcomeCredited))
	w.metrics.RecordCreditsGranted(credits)
	w.logger.Info("Credits granted",
		zap.String("chargeID", charge.ID),
		zap.String("userID", correlation.UserID),
		zap.String("orderNo", correlation.OrderID),
		zap.Int64("credits", credits),
		zap.Int64("balance", balance))

	result.Outcome = OutcomeCredited
	result.Balance = balance
	return result, nil
}

// grant records the transaction and increments the balance as one unit. A
// duplicate ref_no makes the insert a no-op and nothing else is written.
func (w *Webhook) grant(ctx context.Context, chargeID string, correlation Correlation, credits int64) (int64, error) {
	var balance int64

	err := w.txManager.WithTx(ctx, func(ctx context.Context) error {
		tx := &model.Transaction{
			UserID:  correlation.UserID,
			Amount:  correlation.Amount,
			Credits: credits,
			RefNo:   chargeID,
			OrderNo: correlation.OrderID,
			Status:  model.TransactionStatusCompleted,
		}
		if err := w.txRepo.Create(ctx, tx); err != nil {
			return err
		}

		var err error
		balance, err = w.profileRepo.AddCredits(ctx, correlation.UserID, credits)
		return err
	})

	return balance, err
}

func (w *Webhook) grantFailed(chargeID, userID string, err error) error {
	if errors.Is(err, repository.ErrProfileNotFound) {
		w.logger.Error("Profile not found for paid charge",
			zap.String("chargeID", chargeID),
			zap.String("userID", userID))
		w.metrics.RecordWebhookEvent("user_not_found")

		return NewServiceError(constants.ErrCodeUserNotFound, err)
	}

	w.logger.Error("Credit grant failed",
		zap.Error(err),
		zap.String("chargeID", chargeID),
		zap.String("userID", userID))
	w.metrics.RecordWebhookEvent("error")

	return NewServiceError(constants.ErrCodeDatabase, errors.Join(ErrDatabase, err))
}

func (w *Webhook) logAlreadyProcessed(chargeID string) {
	w.logger.Info("Charge already processed", zap.String("chargeID", chargeID))
	w.metrics.RecordWebhookEvent(string(OutcomeAlreadyProcessed))
}
