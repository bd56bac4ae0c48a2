package service

import (
	"time"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/omise"
	"github.com/shopspring/decimal"
)

type CreateChargeCommand struct {
	Amount       decimal.Decimal
	UserID       string
	Email        string
	PackageLabel string
	OrderID      string
}

type ChargeResult struct {
	ID     string
	QRCode string
}

type CheckChargeQuery struct {
	ChargeID string
	UserID   string
}

type LocalStatus string

const (
	LocalStatusRecorded   LocalStatus = "recorded"
	LocalStatusSyncNeeded LocalStatus = "successful_sync_needed"
	LocalStatusFailed     LocalStatus = "failed"
	LocalStatusPending    LocalStatus = "pending"
)

// ChargeStatus is the poller's view of a charge. Credits is authoritative only
// when LocalStatus is recorded; for successful_sync_needed it is an estimate.
type ChargeStatus struct {
	ID             string
	Status         omise.ChargeStatus
	LocalStatus    LocalStatus
	Amount         decimal.Decimal
	Credits        int64
	FailureCode    *string
	FailureMessage *string
}

type WebhookOutcome string

const (
	OutcomeIgnored          WebhookOutcome = "ignored"
	OutcomeUnknownAmount    WebhookOutcome = "unknown_amount"
	OutcomeAlreadyProcessed WebhookOutcome = "already_processed"
	OutcomeCredited         WebhookOutcome = "credited"
)

type WebhookResult struct {
	Outcome  WebhookOutcome
	ChargeID string
	UserID   string
	Credits  int64
	Balance  int64
}

type ReconcileChargeCommand struct {
	ChargeID   string    `json:"charge_id"`
	UserID     string    `json:"user_id"`
	ObservedAt time.Time `json:"observed_at"`
}

type HistoryQuery struct {
	UserID string
	Limit  int
	Offset int
}
