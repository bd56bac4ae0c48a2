package topup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/pricing"
	"go.uber.org/zap"
)

const (
	DefaultVerifyDelay    = 2 * time.Second
	DefaultAutoCloseDelay = 1500 * time.Millisecond
)

const (
	msgNotDetected   = "Payment not yet detected. If you have paid, please wait a moment and try again."
	msgMissingQRCode = "Failed to generate QR Code"
)

type Option func(*Modal)

func WithVerifyDelay(d time.Duration) Option {
	return func(m *Modal) { m.verifyDelay = d }
}

func WithAutoCloseDelay(d time.Duration) Option {
	return func(m *Modal) { m.autoCloseDelay = d }
}

func WithOrderNumbers(o *OrderNumbers) Option {
	return func(m *Modal) { m.orders = o }
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *Modal) { m.logger = logger }
}

// WithBalanceListener is called with the new balance after a verified top-up.
func WithBalanceListener(fn func(balance int64)) Option {
	return func(m *Modal) { m.onBalance = fn }
}

// Modal drives one user through a top-up: pick a package, confirm, pay the QR
// code, then ask the server whether the payment landed. It never grants credit
// itself; it only reflects what the backend reports.
//
// Backend calls run without the lock held. Every transition that makes an
// in-flight call stale bumps gen, and late results for an old gen are dropped.
type Modal struct {
	backend        Backend
	catalog        *pricing.Catalog
	user           User
	orders         *OrderNumbers
	verifyDelay    time.Duration
	autoCloseDelay time.Duration
	onBalance      func(int64)
	logger         *zap.Logger

	mu       sync.Mutex
	state    State
	resume   State
	selected *pricing.Package
	orderID  string
	charge   Charge
	dead     bool
	creating bool
	balance  int64
	credited int64
	notice   Notice
	closed   bool
	gen      uint64
}

func NewModal(backend Backend, catalog *pricing.Catalog, user User, balance int64, opts ...Option) *Modal {
	m := &Modal{
		backend:        backend,
		catalog:        catalog,
		user:           user,
		verifyDelay:    DefaultVerifyDelay,
		autoCloseDelay: DefaultAutoCloseDelay,
		logger:         zap.NewNop(),
		state:          StateSelectingPackage,
		balance:        balance,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.orders == nil {
		m.orders = NewOrderNumbers(nil)
	}

	return m
}

func (m *Modal) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		State:    m.state,
		Packages: m.catalog.Packages(),
		OrderID:  m.orderID,
		Charge:   m.charge,
		Balance:  m.balance,
		Credited: m.credited,
		Notice:   m.notice,
		Closed:   m.closed,
	}
	if m.selected != nil {
		selected := *m.selected
		v.Selected = &selected
	}

	return v
}

func (m *Modal) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

func (m *Modal) Select(packageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateSelectingPackage {
		return m.invalid("select")
	}

	pkg, ok := m.catalog.ByID(packageID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPackage, packageID)
	}

	m.selected = &pkg
	m.state = StateConfirmingOrder
	m.notice = Notice{}

	return nil
}

// Back leaves the confirmation for the package list, or the QR code for the
// confirmation. A charge left behind this way is abandoned, not cancelled.
func (m *Modal) Back() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateConfirmingOrder:
		if m.creating {
			return m.invalid("back")
		}
		m.selected = nil
		m.state = StateSelectingPackage
	case StateAwaitingPayment:
		m.abandonCharge("back")
		m.state = StateConfirmingOrder
	default:
		return m.invalid("back")
	}

	m.notice = Notice{}

	return nil
}

// Confirm creates the charge for the selected package. On failure the modal
// stays in ConfirmingOrder with an error notice.
func (m *Modal) Confirm(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateConfirmingOrder || m.creating {
		defer m.mu.Unlock()
		return m.invalid("confirm")
	}

	pkg := *m.selected
	orderID := m.orders.Next(m.user.ID)
	gen := m.gen
	m.creating = true
	m.notice = Notice{}
	m.mu.Unlock()

	m.logger.Info("Initiating charge",
		zap.String("userID", m.user.ID),
		zap.String("orderID", orderID),
		zap.String("package", pkg.Label),
		zap.String("amount", pkg.Price.String()))

	charge, err := m.backend.CreateCharge(ctx, ChargeRequest{
		Amount:       pkg.Price,
		UserID:       m.user.ID,
		Email:        m.user.Email,
		PackageLabel: pkg.Label,
		OrderID:      orderID,
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	m.creating = false

	if gen != m.gen || m.state != StateConfirmingOrder {
		if err == nil {
			m.logger.Info("Charge created after modal moved on, abandoning",
				zap.String("chargeID", charge.ID),
				zap.String("orderID", orderID))
		}
		return nil
	}

	if err == nil && charge.QRCode == "" {
		err = errors.New(msgMissingQRCode)
	}
	if err != nil {
		m.logger.Warn("Payment initialization failed", zap.Error(err), zap.String("orderID", orderID))
		m.notice = Notice{Kind: NoticeError, Message: fmt.Sprintf("Payment system error: %s. Please try again later.", err)}
		return nil
	}

	m.orderID = orderID
	m.charge = charge
	m.dead = false
	m.state = StateAwaitingPayment

	return nil
}

// MarkPaid is the "I have paid" button: wait for the verify delay so the
// webhook gets a head start, then ask the status endpoint.
func (m *Modal) MarkPaid(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateAwaitingPayment {
		defer m.mu.Unlock()
		return m.invalid("mark paid")
	}
	if m.dead {
		m.mu.Unlock()
		return ErrChargeDead
	}

	m.gen++
	gen := m.gen
	chargeID := m.charge.ID
	m.state = StateVerifying
	m.notice = Notice{}
	m.mu.Unlock()

	var (
		status     ChargeStatus
		balance    int64
		balanceErr error
	)

	err := sleep(ctx, m.verifyDelay)
	if err == nil {
		status, err = m.backend.CheckCharge(ctx, chargeID, m.user.ID)
	}
	if err == nil && status.LocalStatus == LocalStatusRecorded {
		balance, balanceErr = m.backend.Balance(ctx, m.user.ID)
	}

	m.mu.Lock()
	if gen != m.gen || m.state != StateVerifying {
		m.mu.Unlock()
		return nil
	}

	notify := m.applyVerification(chargeID, status, err, balance, balanceErr)
	m.mu.Unlock()

	if notify != nil {
		notify()
	}

	return nil
}

// applyVerification must hold mu. It returns the listener call to make once
// the lock is released.
func (m *Modal) applyVerification(chargeID string, status ChargeStatus, err error, balance int64,
	balanceErr error) func() {
	m.state = StateAwaitingPayment

	if err != nil {
		m.logger.Warn("Payment verification failed", zap.Error(err), zap.String("chargeID", chargeID))
		m.notice = Notice{Kind: NoticeError, Message: fmt.Sprintf("Could not verify payment: %s. Please try again.", err)}
		return nil
	}

	switch status.LocalStatus {
	case LocalStatusRecorded:
		if balanceErr != nil {
			m.logger.Warn("Balance refresh failed, using credited amount",
				zap.Error(balanceErr),
				zap.String("chargeID", chargeID))
			balance = m.balance + status.Credits
		}

		m.balance = balance
		m.credited = status.Credits
		m.state = StateSuccess
		m.notice = Notice{Kind: NoticeInfo, Message: fmt.Sprintf("Payment confirmed! Your new balance is %d Credits.", balance)}
		m.scheduleClose(m.gen)

		m.logger.Info("Top-up verified",
			zap.String("chargeID", chargeID),
			zap.Int64("credits", status.Credits),
			zap.Int64("balance", balance))

		if m.onBalance == nil {
			return nil
		}
		listener := m.onBalance
		return func() { listener(balance) }
	case LocalStatusFailed:
		m.dead = true
		reason := status.FailureMessage
		if reason == "" {
			reason = status.Status
		}
		m.notice = Notice{Kind: NoticeError, Message: fmt.Sprintf("Payment %s. Please start a new top-up.", reason)}
	default:
		m.notice = Notice{Kind: NoticeInfo, Message: msgNotDetected}
	}

	return nil
}

func (m *Modal) scheduleClose(gen uint64) {
	time.AfterFunc(m.autoCloseDelay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if m.gen == gen && m.state == StateSuccess {
			m.closed = true
		}
	})
}

// RequestCancel asks for confirmation before closing. Any in-flight charge
// creation or verification is discarded.
func (m *Modal) RequestCancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.state == StateCancelRequested:
		return nil
	case m.state.Terminal():
		return m.invalid("cancel")
	}

	m.resume = m.state
	if m.state == StateVerifying {
		m.resume = StateAwaitingPayment
	}
	m.state = StateCancelRequested
	m.gen++

	return nil
}

func (m *Modal) ConfirmCancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateCancelRequested {
		return m.invalid("confirm cancel")
	}

	m.abandonCharge("cancelled")
	m.state = StateCancelled
	m.closed = true

	return nil
}

func (m *Modal) AbortCancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateCancelRequested {
		return m.invalid("abort cancel")
	}

	m.state = m.resume

	return nil
}

// Restart returns to package selection, dropping any charge in progress.
func (m *Modal) Restart() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateVerifying {
		return m.invalid("restart")
	}

	if m.state == StateSuccess {
		m.charge = Charge{}
	} else {
		m.abandonCharge("restart")
	}
	m.gen++
	m.state = StateSelectingPackage
	m.selected = nil
	m.orderID = ""
	m.credited = 0
	m.notice = Notice{}
	m.closed = false

	return nil
}

func (m *Modal) abandonCharge(reason string) {
	if m.charge.ID == "" {
		return
	}

	m.logger.Info("Charge abandoned",
		zap.String("chargeID", m.charge.ID),
		zap.String("orderID", m.orderID),
		zap.String("reason", reason))

	m.charge = Charge{}
	m.dead = false
}

func (m *Modal) invalid(action string) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, m.state)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
