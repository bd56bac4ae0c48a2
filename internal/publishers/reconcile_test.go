package publishers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/config"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/mocks"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/publishers"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestReconcilePublisher_Enqueue(t *testing.T) {
	cfg := &config.Config{Reconcile: config.Reconcile{Queue: "topup.reconcile"}}
	cmd := service.ReconcileChargeCommand{
		ChargeID:   "chrg_1",
		UserID:     "user-1",
		ObservedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	matchBody := mock.MatchedBy(func(body []byte) bool {
		var got service.ReconcileChargeCommand
		return json.Unmarshal(body, &got) == nil && got.ChargeID == "chrg_1" && got.UserID == "user-1"
	})

	t.Run("publishes to the reconcile queue", func(t *testing.T) {
		publisher := &mocks.Publisher{}
		queue := publishers.NewReconcilePublisher(publisher, cfg, zap.NewNop())

		publisher.On("Publish", context.Background(), "", "topup.reconcile", matchBody).Return(nil)

		assert.NoError(t, queue.Enqueue(context.Background(), cmd))
		publisher.AssertExpectations(t)
	})

	t.Run("returns broker errors", func(t *testing.T) {
		publisher := &mocks.Publisher{}
		queue := publishers.NewReconcilePublisher(publisher, cfg, zap.NewNop())

		brokerErr := errors.New("channel closed")
		publisher.On("Publish", context.Background(), "", "topup.reconcile", matchBody).Return(brokerErr)

		assert.Equal(t, brokerErr, queue.Enqueue(context.Background(), cmd))
	})

	t.Run("noop publisher accepts everything", func(t *testing.T) {
		assert.NoError(t, publishers.NewNoopReconcilePublisher().Enqueue(context.Background(), cmd))
	})
}
