package service_test

import (
	"context"
	"testing"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/config"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/metrics"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/model"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/repository"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/database"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/omise"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testConfig = &config.Config{
	Omise: omise.Config{Currency: "thb", SourceType: "promptpay", MaxRetries: 3},
}

func newMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.NewRegistry())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewConnection(context.Background(),
		database.Config{Driver: database.DriverSQLite, DSN: ":memory:", LogLevel: "silent"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func seedProfile(t *testing.T, db *gorm.DB, id string, credits int64) {
	t.Helper()
	require.NoError(t, db.Create(&model.Profile{ID: id, Email: id + "@example.com", Credits: credits}).Error)
}

func credits(t *testing.T, db *gorm.DB, id string) int64 {
	t.Helper()

	var p model.Profile
	require.NoError(t, db.Where("id = ?", id).Take(&p).Error)
	return p.Credits
}

func transactionCount(t *testing.T, db *gorm.DB, refNo string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&model.Transaction{}).Where("ref_no = ?", refNo).Count(&count).Error)
	return count
}

// successfulCharge mimics a charge decoded from a webhook body, where numbers
// arrive as float64.
func successfulCharge(id, userID string, amount float64) omise.Charge {
	return omise.Charge{
		Object: "charge",
		ID:     id,
		Amount: int64(amount * 100),
		Status: omise.ChargeStatusSuccessful,
		Metadata: omise.Metadata{
			"userId":   userID,
			"amount":   amount,
			"orderId":  "ARC-20250101-0001-" + userID,
			"order_no": "ARC-20250101-0001-" + userID,
		},
	}
}

func completeEvent(charge omise.Charge) omise.Event {
	return omise.Event{Object: "event", ID: "evnt_" + charge.ID, Key: omise.EventChargeComplete, Data: charge}
}
