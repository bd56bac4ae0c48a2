package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/config"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/constants"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/metrics"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/pricing"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/omise"
	"go.uber.org/zap"
)

type PaymentService interface {
	CreateCharge(ctx context.Context, cmd CreateChargeCommand) (ChargeResult, error)
	GetCharge(ctx context.Context, chargeID string) (omise.Charge, error)
}

type Payment struct {
	gateway    omise.Gateway
	catalog    *pricing.Catalog
	currency   string
	sourceType string
	maxRetry   int
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewPaymentService(gateway omise.Gateway, catalog *pricing.Catalog, config *config.Config,
	metrics *metrics.Metrics, logger *zap.Logger) PaymentService {
	maxRetry := config.Omise.MaxRetries
	if maxRetry <= 0 {
		maxRetry = 1
	}

	return &Payment{
		gateway:    gateway,
		catalog:    catalog,
		currency:   config.Omise.Currency,
		sourceType: config.Omise.SourceType,
		maxRetry:   maxRetry,
		metrics:    metrics,
		logger:     logger,
	}
}

// CreateCharge creates a QR payment source and a charge against it. Nothing is
// persisted locally; the charge only turns into credits through the webhook.
// Creation is never retried since a retry could leave two live charges.
func (p *Payment) CreateCharge(ctx context.Context, cmd CreateChargeCommand) (ChargeResult, error) {
	if !cmd.Amount.IsPositive() {
		return ChargeResult{}, NewServiceError(constants.ErrCodeValidationFailed,
			fmt.Errorf("amount must be positive, got %s", cmd.Amount))
	}

	if _, ok := p.catalog.CreditsFor(cmd.Amount); !ok {
		p.logger.Warn("Charge amount does not match any package",
			zap.String("amount", cmd.Amount.String()),
			zap.String("userID", cmd.UserID),
			zap.String("catalogVersion", p.catalog.Version()))
	}

	subunits := omise.ToSubunits(cmd.Amount)

	p.logger.Info("Creating charge",
		zap.String("userID", cmd.UserID),
		zap.String("orderID", cmd.OrderID),
		zap.String("package", cmd.PackageLabel),
		zap.Int64("subunits", subunits))

	source, err := p.gateway.CreateSource(ctx, omise.CreateSourceRequest{
		Amount:   subunits,
		Currency: p.currency,
		Type:     p.sourceType,
	})
	if err != nil {
		p.metrics.RecordGatewayRequest("create_source", "error")
		return ChargeResult{}, p.initFailed("source", cmd, err)
	}
	p.metrics.RecordGatewayRequest("create_source", "success")

	correlation := Correlation{UserID: cmd.UserID, Amount: cmd.Amount, HasAmount: true, OrderID: cmd.OrderID}
	charge, err := p.gateway.CreateCharge(ctx, omise.CreateChargeRequest{
		Amount:      subunits,
		Currency:    p.currency,
		Source:      source.ID,
		Description: fmt.Sprintf("Top-up: %s for %s", cmd.PackageLabel, cmd.Email),
		Metadata:    correlation.Metadata(),
	})
	if err != nil {
		p.metrics.RecordGatewayRequest("create_charge", "error")
		return ChargeResult{}, p.initFailed("charge", cmd, err)
	}
	p.metrics.RecordGatewayRequest("create_charge", "success")

	qrCode := charge.QRCodeURL()
	if qrCode == "" {
		return ChargeResult{}, p.initFailed("charge", cmd, ErrMissingQRCode)
	}

	p.metrics.RecordChargeCreated("success")
	p.logger.Info("Charge created",
		zap.String("chargeID", charge.ID),
		zap.String("userID", cmd.UserID),
		zap.String("orderID", cmd.OrderID))

	return ChargeResult{ID: charge.ID, QRCode: qrCode}, nil
}

func (p *Payment) initFailed(stage string, cmd CreateChargeCommand, err error) error {
	p.metrics.RecordChargeCreated("error")
	p.logger.Error("Payment initialization failed",
		zap.Error(err),
		zap.String("stage", stage),
		zap.String("userID", cmd.UserID),
		zap.String("orderID", cmd.OrderID))

	return NewServiceError(constants.ErrCodePaymentInitFailed, &PaymentInitError{
		Message: fmt.Sprintf("Omise %s: %s", stage, gatewayMessage(err)),
		Err:     err,
	})
}

// GetCharge looks a charge up, retrying timeouts and gateway 5xx responses.
func (p *Payment) GetCharge(ctx context.Context, chargeID string) (omise.Charge, error) {
	var lastErr error
	for attempt := 1; attempt <= p.maxRetry; attempt++ {
		charge, err := p.gateway.GetCharge(ctx, chargeID)
		if err == nil {
			p.metrics.RecordGatewayRequest("get_charge", "success")
			p.logger.Debug("Charge fetched",
				zap.String("chargeID", chargeID),
				zap.String("status", string(charge.Status)),
				zap.Int("attempt", attempt))

			return charge, nil
		}

		p.metrics.RecordGatewayRequest("get_charge", "error")
		lastErr = err

		if !omise.IsRetryable(err) || ctx.Err() != nil {
			break
		}

		p.logger.Warn("Charge lookup attempt failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.String("chargeID", chargeID))
	}

	if errors.Is(lastErr, omise.ErrTimeout) {
		p.logger.Error("Charge lookup timed out",
			zap.Error(lastErr),
			zap.Int("maxRetries", p.maxRetry),
			zap.String("chargeID", chargeID))
		return omise.Charge{}, NewServiceError(constants.ErrCodeGatewayTimeout, lastErr)
	}

	p.logger.Error("Charge lookup failed",
		zap.Error(lastErr),
		zap.String("chargeID", chargeID))

	return omise.Charge{}, NewServiceError(constants.ErrCodePaymentLookupFailed, lastErr)
}

func gatewayMessage(err error) string {
	var apiErr *omise.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	if errors.Is(err, omise.ErrTimeout) {
		return "gateway timed out"
	}

	if errors.Is(err, ErrMissingQRCode) {
		return "failed to generate QR code"
	}

	return err.Error()
}
