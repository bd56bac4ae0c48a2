package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/config"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/constants"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/mocks"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/model"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/pricing"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/repository"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/service"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/omise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newWebhookService(db *gorm.DB, payment service.PaymentService, cfg *config.Config) service.WebhookService {
	return service.NewWebhookService(
		repository.NewTransactionManager(db),
		repository.NewProfileRepository(db),
		repository.NewTransactionRepository(db),
		payment,
		pricing.Default(),
		cfg,
		newMetrics(),
		zap.NewNop(),
	)
}

func TestWebhook_Idempotency(t *testing.T) {
	for _, n := range []int{1, 5, 50} {
		t.Run(fmt.Sprintf("%d deliveries", n), func(t *testing.T) {
			db := newTestDB(t)
			seedProfile(t, db, "user-1", 40)
			svc := newWebhookService(db, &mocks.PaymentService{}, testConfig)

			event := completeEvent(successfulCharge("chrg_idem", "user-1", 100))

			credited := 0
			for i := 0; i < n; i++ {
				result, err := svc.HandleEvent(context.Background(), event)
				require.NoError(t, err)
				if result.Outcome == service.OutcomeCredited {
					credited++
				} else {
					assert.Equal(t, service.OutcomeAlreadyProcessed, result.Outcome)
				}
			}

			assert.Equal(t, 1, credited)
			assert.Equal(t, int64(40+125), credits(t, db, "user-1"))
			assert.Equal(t, int64(1), transactionCount(t, db, "chrg_idem"))
		})
	}
}

func TestWebhook_ConcurrentDuplicates(t *testing.T) {
	db := newTestDB(t)
	seedProfile(t, db, "user-1", 0)
	svc := newWebhookService(db, &mocks.PaymentService{}, testConfig)

	event := completeEvent(successfulCharge("chrg_race", "user-1", 200))

	var wg sync.WaitGroup
	errs := make(chan error, 25)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.HandleEvent(context.Background(), event); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}

	assert.Equal(t, int64(270), credits(t, db, "user-1"))
	assert.Equal(t, int64(1), transactionCount(t, db, "chrg_race"))
}

func TestWebhook_AmountToCredits(t *testing.T) {
	tests := []struct {
		amount  float64
		credits int64
	}{
		{amount: 50, credits: 55},
		{amount: 100, credits: 125},
		{amount: 200, credits: 270},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("package %.0f", tt.amount), func(t *testing.T) {
			db := newTestDB(t)
			seedProfile(t, db, "user-1", 0)
			svc := newWebhookService(db, &mocks.PaymentService{}, testConfig)

			chargeID := fmt.Sprintf("chrg_%.0f", tt.amount)
			result, err := svc.HandleEvent(context.Background(), completeEvent(successfulCharge(chargeID, "user-1", tt.amount)))

			require.NoError(t, err)
			assert.Equal(t, service.OutcomeCredited, result.Outcome)
			assert.Equal(t, tt.credits, result.Credits)
			assert.Equal(t, tt.credits, result.Balance)

			var tx model.Transaction
			require.NoError(t, db.Where("ref_no = ?", chargeID).Take(&tx).Error)
			assert.Equal(t, tt.credits, tx.Credits)
			assert.Equal(t, "user-1", tx.UserID)
			assert.Equal(t, "ARC-20250101-0001-user-1", tx.OrderNo)
			assert.Equal(t, model.TransactionStatusCompleted, tx.Status)
		})
	}

	for _, amount := range []any{75.0, 0.0, -100.0, "abc", nil} {
		t.Run(fmt.Sprintf("unknown amount %v", amount), func(t *testing.T) {
			db := newTestDB(t)
			seedProfile(t, db, "user-1", 10)
			svc := newWebhookService(db, &mocks.PaymentService{}, testConfig)

			charge := successfulCharge("chrg_unknown", "user-1", 100)
			charge.Metadata["amount"] = amount

			result, err := svc.HandleEvent(context.Background(), completeEvent(charge))

			require.NoError(t, err)
			assert.Equal(t, service.OutcomeUnknownAmount, result.Outcome)
			assert.Equal(t, int64(10), credits(t, db, "user-1"))
			assert.Equal(t, int64(0), transactionCount(t, db, "chrg_unknown"))
		})
	}
}

func TestWebhook_IgnoredEvents(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		status omise.ChargeStatus
	}{
		{name: "create event", key: "charge.create", status: omise.ChargeStatusPending},
		{name: "failed charge", key: omise.EventChargeComplete, status: omise.ChargeStatusFailed},
		{name: "expired charge", key: omise.EventChargeComplete, status: omise.ChargeStatusExpired},
		{name: "successful but other key", key: "charge.update", status: omise.ChargeStatusSuccessful},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			seedProfile(t, db, "user-1", 0)
			svc := newWebhookService(db, &mocks.PaymentService{}, testConfig)

			charge := successfulCharge("chrg_ignored", "user-1", 100)
			charge.Status = tt.status

			result, err := svc.HandleEvent(context.Background(), omise.Event{Key: tt.key, Data: charge})

			require.NoError(t, err)
			assert.Equal(t, service.OutcomeIgnored, result.Outcome)
			assert.Equal(t, int64(0), credits(t, db, "user-1"))
			assert.Equal(t, int64(0), transactionCount(t, db, "chrg_ignored"))
		})
	}
}

func TestWebhook_MissingUserID(t *testing.T) {
	db := newTestDB(t)
	seedProfile(t, db, "user-1", 30)
	svc := newWebhookService(db, &mocks.PaymentService{}, testConfig)

	charge := successfulCharge("chrg_nouser", "user-1", 100)
	charge.Metadata = omise.Metadata{}

	_, err := svc.HandleEvent(context.Background(), completeEvent(charge))

	var serviceErr service.Error
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, constants.ErrCodeMissingUserID, serviceErr.Code)
	assert.ErrorIs(t, err, service.ErrMissingUserID)
	assert.Equal(t, int64(30), credits(t, db, "user-1"))

	var total int64
	require.NoError(t, db.Model(&model.Transaction{}).Count(&total).Error)
	assert.Equal(t, int64(0), total)
}

func TestWebhook_MetadataKeyFallbacks(t *testing.T) {
	db := newTestDB(t)
	seedProfile(t, db, "user-legacy", 0)
	svc := newWebhookService(db, &mocks.PaymentService{}, testConfig)

	charge := successfulCharge("chrg_legacy", "x", 50)
	charge.Metadata = omise.Metadata{"user_id": "user-legacy", "amount": "50", "order_id": "ARC-LEGACY"}

	result, err := svc.HandleEvent(context.Background(), completeEvent(charge))

	require.NoError(t, err)
	assert.Equal(t, service.OutcomeCredited, result.Outcome)
	assert.Equal(t, "user-legacy", result.UserID)

	var tx model.Transaction
	require.NoError(t, db.Where("ref_no = ?", "chrg_legacy").Take(&tx).Error)
	assert.Equal(t, "ARC-LEGACY", tx.OrderNo)
}

func TestWebhook_ProfileNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newWebhookService(db, &mocks.PaymentService{}, testConfig)

	_, err := svc.HandleEvent(context.Background(), completeEvent(successfulCharge("chrg_ghost", "ghost", 100)))

	var serviceErr service.Error
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, constants.ErrCodeUserNotFound, serviceErr.Code)
	assert.Equal(t, int64(0), transactionCount(t, db, "chrg_ghost"))
}

func TestWebhook_EmptyChargeID(t *testing.T) {
	db := newTestDB(t)
	svc := newWebhookService(db, &mocks.PaymentService{}, testConfig)

	_, err := svc.HandleEvent(context.Background(), completeEvent(successfulCharge("", "user-1", 100)))

	var serviceErr service.Error
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, constants.ErrCodeMalformedEvent, serviceErr.Code)
}

func TestWebhook_VerifyEvents(t *testing.T) {
	cfg := &config.Config{Omise: omise.Config{VerifyEvents: true}}

	t.Run("gateway copy is credited", func(t *testing.T) {
		db := newTestDB(t)
		seedProfile(t, db, "user-1", 0)
		payment := &mocks.PaymentService{}
		svc := newWebhookService(db, payment, cfg)

		posted := successfulCharge("chrg_verify", "user-1", 200)
		payment.On("GetCharge", mock.Anything, "chrg_verify").Return(successfulCharge("chrg_verify", "user-1", 50), nil)

		result, err := svc.HandleEvent(context.Background(), completeEvent(posted))

		require.NoError(t, err)
		assert.Equal(t, int64(55), result.Credits)
		assert.Equal(t, int64(55), credits(t, db, "user-1"))
		payment.AssertExpectations(t)
	})

	t.Run("forged success is ignored", func(t *testing.T) {
		db := newTestDB(t)
		seedProfile(t, db, "user-1", 0)
		payment := &mocks.PaymentService{}
		svc := newWebhookService(db, payment, cfg)

		pending := successfulCharge("chrg_forged", "user-1", 200)
		pending.Status = omise.ChargeStatusPending
		payment.On("GetCharge", mock.Anything, "chrg_forged").Return(pending, nil)

		result, err := svc.HandleEvent(context.Background(), completeEvent(successfulCharge("chrg_forged", "user-1", 200)))

		require.NoError(t, err)
		assert.Equal(t, service.OutcomeIgnored, result.Outcome)
		assert.Equal(t, int64(0), credits(t, db, "user-1"))
	})

	t.Run("lookup failure is returned so the gateway retries", func(t *testing.T) {
		db := newTestDB(t)
		payment := &mocks.PaymentService{}
		svc := newWebhookService(db, payment, cfg)

		lookupErr := service.NewServiceError(constants.ErrCodeGatewayTimeout, omise.ErrTimeout)
		payment.On("GetCharge", mock.Anything, "chrg_slow").Return(omise.Charge{}, lookupErr)

		_, err := svc.HandleEvent(context.Background(), completeEvent(successfulCharge("chrg_slow", "user-1", 100)))

		assert.Equal(t, lookupErr, err)
	})
}

func TestWebhook_DatabaseFailure(t *testing.T) {
	txManager := &mocks.TxManager{}
	profileRepo := &mocks.ProfileRepository{}
	txRepo := &mocks.TransactionRepository{}

	svc := service.NewWebhookService(txManager, profileRepo, txRepo, &mocks.PaymentService{}, pricing.Default(),
		testConfig, newMetrics(), zap.NewNop())

	dbErr := errors.New("connection reset")
	txRepo.On("FindByRefNo", mock.Anything, "chrg_db").Return(model.Transaction{}, dbErr)
	txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	txRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Transaction")).Return(dbErr)

	_, err := svc.HandleEvent(context.Background(), completeEvent(successfulCharge("chrg_db", "user-1", 100)))

	var serviceErr service.Error
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, constants.ErrCodeDatabase, serviceErr.Code)
	assert.ErrorIs(t, err, service.ErrDatabase)
	profileRepo.AssertNotCalled(t, "AddCredits", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1, txManager.Rollbacks())
	assert.Zero(t, txManager.Commits())
}
