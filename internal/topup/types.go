package topup

import (
	"context"
	"errors"
	"fmt"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/pricing"
	"github.com/shopspring/decimal"
)

type State string

const (
	StateSelectingPackage State = "selecting_package"
	StateConfirmingOrder  State = "confirming_order"
	StateAwaitingPayment  State = "awaiting_payment"
	StateVerifying        State = "verifying"
	StateSuccess          State = "success"
	StateCancelRequested  State = "cancel_requested"
	StateCancelled        State = "cancelled"
)

// Terminal states accept no further input except Restart.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateCancelled
}

const (
	LocalStatusRecorded   = "recorded"
	LocalStatusSyncNeeded = "successful_sync_needed"
	LocalStatusFailed     = "failed"
	LocalStatusPending    = "pending"
)

var (
	ErrInvalidTransition = errors.New("transition not allowed in current state")
	ErrUnknownPackage    = errors.New("unknown package")
	ErrChargeDead        = errors.New("charge has failed or expired, start a new top-up")
)

type User struct {
	ID    string
	Email string
}

type ChargeRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	UserID       string          `json:"userId"`
	Email        string          `json:"email"`
	PackageLabel string          `json:"packageLabel"`
	OrderID      string          `json:"orderId"`
}

type Charge struct {
	ID     string `json:"id"`
	QRCode string `json:"qr_code"`
}

type ChargeStatus struct {
	ID             string          `json:"id"`
	Status         string          `json:"status"`
	LocalStatus    string          `json:"localStatus"`
	Amount         decimal.Decimal `json:"amount"`
	Credits        int64           `json:"credits"`
	FailureCode    string          `json:"failure_code"`
	FailureMessage string          `json:"failure_message"`
}

type Transaction struct {
	Amount    decimal.Decimal `json:"amount"`
	Credits   int64           `json:"credits"`
	RefNo     string          `json:"ref_no"`
	OrderNo   string          `json:"order_no"`
	Status    string          `json:"status"`
	CreatedAt string          `json:"created_at"`
}

type History struct {
	Transactions []Transaction `json:"transactions"`
	Total        int64         `json:"total"`
}

// Backend is the server side of a top-up: the three payment endpoints plus a
// balance read.
type Backend interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (Charge, error)
	CheckCharge(ctx context.Context, chargeID, userID string) (ChargeStatus, error)
	Balance(ctx context.Context, userID string) (int64, error)
}

type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeInfo
	NoticeError
)

type Notice struct {
	Kind    NoticeKind
	Message string
}

// View is a snapshot of the modal for rendering.
type View struct {
	State    State
	Packages []pricing.Package
	Selected *pricing.Package
	OrderID  string
	Charge   Charge
	Balance  int64
	Credited int64
	Notice   Notice
	Closed   bool
}

// APIError is a non-2xx answer from the top-up API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("top-up api returned status %d", e.StatusCode)
	}

	return e.Message
}
