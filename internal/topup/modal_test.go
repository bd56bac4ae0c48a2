package topup_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/mocks"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/pricing"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/topup"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var raider = topup.User{ID: "user-1", Email: "raider@example.com"}

const boosterID = 2

func newModal(backend topup.Backend, opts ...topup.Option) *topup.Modal {
	opts = append([]topup.Option{topup.WithVerifyDelay(0), topup.WithAutoCloseDelay(0)}, opts...)
	return topup.NewModal(backend, pricing.Default(), raider, 100, opts...)
}

// awaiting returns a modal showing the QR code of chrg_1.
func awaiting(t *testing.T, backend *mocks.TopupBackend, opts ...topup.Option) *topup.Modal {
	t.Helper()

	backend.On("CreateCharge", mock.Anything, mock.Anything).
		Return(topup.Charge{ID: "chrg_1", QRCode: "https://qr.example/chrg_1.svg"}, nil).Once()

	m := newModal(backend, opts...)
	require.NoError(t, m.Select(boosterID))
	require.NoError(t, m.Confirm(context.Background()))
	require.Equal(t, topup.StateAwaitingPayment, m.State())

	return m
}

func TestModalHappyPath(t *testing.T) {
	backend := new(mocks.TopupBackend)

	var notified atomic.Int64
	m := newModal(backend, topup.WithBalanceListener(func(b int64) { notified.Store(b) }))

	assert.Equal(t, topup.StateSelectingPackage, m.State())
	require.NoError(t, m.Select(boosterID))

	view := m.View()
	assert.Equal(t, topup.StateConfirmingOrder, view.State)
	require.NotNil(t, view.Selected)
	assert.Equal(t, int64(125), view.Selected.Credits)

	backend.On("CreateCharge", mock.Anything, mock.MatchedBy(func(r topup.ChargeRequest) bool {
		return r.Amount.Equal(decimal.NewFromInt(100)) &&
			r.UserID == raider.ID &&
			r.Email == raider.Email &&
			r.PackageLabel == "BOOSTER PACK" &&
			len(r.OrderID) > 0
	})).Return(topup.Charge{ID: "chrg_1", QRCode: "https://qr.example/chrg_1.svg"}, nil)

	require.NoError(t, m.Confirm(context.Background()))

	view = m.View()
	assert.Equal(t, topup.StateAwaitingPayment, view.State)
	assert.Equal(t, "chrg_1", view.Charge.ID)
	assert.Regexp(t, `^ARC-\d{8}-\d{4}-USER1$`, view.OrderID)

	backend.On("CheckCharge", mock.Anything, "chrg_1", raider.ID).
		Return(topup.ChargeStatus{ID: "chrg_1", Status: "successful", LocalStatus: topup.LocalStatusRecorded, Credits: 125}, nil)
	backend.On("Balance", mock.Anything, raider.ID).Return(int64(225), nil)

	require.NoError(t, m.MarkPaid(context.Background()))

	view = m.View()
	assert.Equal(t, topup.StateSuccess, view.State)
	assert.Equal(t, int64(225), view.Balance)
	assert.Equal(t, int64(125), view.Credited)
	assert.Equal(t, topup.NoticeInfo, view.Notice.Kind)
	assert.Equal(t, int64(225), notified.Load())

	assert.Eventually(t, func() bool { return m.View().Closed }, time.Second, 5*time.Millisecond)
	backend.AssertExpectations(t)
}

func TestModalVerificationOutcomes(t *testing.T) {
	cases := []struct {
		name   string
		status topup.ChargeStatus
		err    error
		state  topup.State
		notice topup.NoticeKind
		dead   bool
	}{
		{
			name:   "recorded",
			status: topup.ChargeStatus{Status: "successful", LocalStatus: topup.LocalStatusRecorded, Credits: 125},
			state:  topup.StateSuccess,
			notice: topup.NoticeInfo,
		},
		{
			name:   "successful_sync_needed",
			status: topup.ChargeStatus{Status: "successful", LocalStatus: topup.LocalStatusSyncNeeded, Credits: 125},
			state:  topup.StateAwaitingPayment,
			notice: topup.NoticeInfo,
		},
		{
			name:   "pending",
			status: topup.ChargeStatus{Status: "pending", LocalStatus: topup.LocalStatusPending},
			state:  topup.StateAwaitingPayment,
			notice: topup.NoticeInfo,
		},
		{
			name:   "failed",
			status: topup.ChargeStatus{Status: "expired", LocalStatus: topup.LocalStatusFailed},
			state:  topup.StateAwaitingPayment,
			notice: topup.NoticeError,
			dead:   true,
		},
		{
			name:   "network error",
			err:    errors.New("connection reset by peer"),
			state:  topup.StateAwaitingPayment,
			notice: topup.NoticeError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := new(mocks.TopupBackend)
			m := awaiting(t, backend)

			backend.On("CheckCharge", mock.Anything, "chrg_1", raider.ID).Return(tc.status, tc.err)
			backend.On("Balance", mock.Anything, raider.ID).Return(int64(225), nil).Maybe()

			require.NoError(t, m.MarkPaid(context.Background()))

			view := m.View()
			assert.Equal(t, tc.state, view.State)
			assert.Equal(t, tc.notice, view.Notice.Kind)
			assert.NotEmpty(t, view.Notice.Message)

			err := m.MarkPaid(context.Background())
			switch {
			case tc.state == topup.StateSuccess:
				assert.ErrorIs(t, err, topup.ErrInvalidTransition)
			case tc.dead:
				assert.ErrorIs(t, err, topup.ErrChargeDead)
			default:
				assert.NoError(t, err, "user may retry")
			}
		})
	}
}

func TestModalNoCreditBeforeRecorded(t *testing.T) {
	backend := new(mocks.TopupBackend)
	m := awaiting(t, backend)

	backend.On("CheckCharge", mock.Anything, "chrg_1", raider.ID).
		Return(topup.ChargeStatus{Status: "successful", LocalStatus: topup.LocalStatusSyncNeeded, Credits: 125}, nil)

	require.NoError(t, m.MarkPaid(context.Background()))

	assert.Equal(t, int64(100), m.View().Balance)
	backend.AssertNotCalled(t, "Balance", mock.Anything, mock.Anything)
}

func TestModalBalanceFallback(t *testing.T) {
	backend := new(mocks.TopupBackend)
	m := awaiting(t, backend)

	backend.On("CheckCharge", mock.Anything, "chrg_1", raider.ID).
		Return(topup.ChargeStatus{LocalStatus: topup.LocalStatusRecorded, Credits: 125}, nil)
	backend.On("Balance", mock.Anything, raider.ID).Return(int64(0), errors.New("timeout"))

	require.NoError(t, m.MarkPaid(context.Background()))

	view := m.View()
	assert.Equal(t, topup.StateSuccess, view.State)
	assert.Equal(t, int64(225), view.Balance)
}

func TestModalConfirmFailureKeepsState(t *testing.T) {
	cases := map[string]struct {
		charge topup.Charge
		err    error
	}{
		"gateway error": {err: &topup.APIError{StatusCode: 502, Code: "PAYMENT_INIT_FAILED", Message: "Omise source: invalid amount"}},
		"no qr code":    {charge: topup.Charge{ID: "chrg_1"}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			backend := new(mocks.TopupBackend)
			backend.On("CreateCharge", mock.Anything, mock.Anything).Return(tc.charge, tc.err)

			m := newModal(backend)
			require.NoError(t, m.Select(boosterID))
			require.NoError(t, m.Confirm(context.Background()))

			view := m.View()
			assert.Equal(t, topup.StateConfirmingOrder, view.State)
			assert.Equal(t, topup.NoticeError, view.Notice.Kind)
			assert.Empty(t, view.Charge.ID)
			require.NotNil(t, view.Selected)

			require.NoError(t, m.Back())
			assert.Equal(t, topup.StateSelectingPackage, m.State())
		})
	}
}

func TestModalCancelFromEveryNonTerminalState(t *testing.T) {
	setups := map[topup.State]func(t *testing.T, b *mocks.TopupBackend) *topup.Modal{
		topup.StateSelectingPackage: func(t *testing.T, b *mocks.TopupBackend) *topup.Modal {
			return newModal(b)
		},
		topup.StateConfirmingOrder: func(t *testing.T, b *mocks.TopupBackend) *topup.Modal {
			m := newModal(b)
			require.NoError(t, m.Select(1))
			return m
		},
		topup.StateAwaitingPayment: func(t *testing.T, b *mocks.TopupBackend) *topup.Modal {
			return awaiting(t, b)
		},
	}

	for state, setup := range setups {
		t.Run(string(state), func(t *testing.T) {
			m := setup(t, new(mocks.TopupBackend))
			require.Equal(t, state, m.State())

			require.NoError(t, m.RequestCancel())
			assert.Equal(t, topup.StateCancelRequested, m.State())
			require.NoError(t, m.RequestCancel())

			require.NoError(t, m.AbortCancel())
			assert.Equal(t, state, m.State())

			require.NoError(t, m.RequestCancel())
			require.NoError(t, m.ConfirmCancel())

			view := m.View()
			assert.Equal(t, topup.StateCancelled, view.State)
			assert.True(t, view.Closed)
			assert.Empty(t, view.Charge.ID)

			assert.ErrorIs(t, m.RequestCancel(), topup.ErrInvalidTransition)
		})
	}
}

func TestModalCancelDuringVerification(t *testing.T) {
	backend := new(mocks.TopupBackend)
	m := awaiting(t, backend, topup.WithVerifyDelay(time.Hour))

	done := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { done <- m.MarkPaid(ctx) }()

	require.Eventually(t, func() bool { return m.State() == topup.StateVerifying }, time.Second, time.Millisecond)

	require.NoError(t, m.RequestCancel())
	require.NoError(t, m.ConfirmCancel())
	cancel()

	require.NoError(t, <-done)
	assert.Equal(t, topup.StateCancelled, m.State())
	backend.AssertNotCalled(t, "CheckCharge", mock.Anything, mock.Anything, mock.Anything)
}

func TestModalLateChargeAfterCancelIsDropped(t *testing.T) {
	backend := new(mocks.TopupBackend)
	started, release := make(chan struct{}), make(chan struct{})
	backend.On("CreateCharge", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(topup.Charge{ID: "chrg_late", QRCode: "https://qr.example/late.svg"}, nil)

	m := newModal(backend)
	require.NoError(t, m.Select(boosterID))

	done := make(chan error, 1)
	go func() { done <- m.Confirm(context.Background()) }()

	<-started

	require.NoError(t, m.RequestCancel())
	require.NoError(t, m.AbortCancel())
	close(release)
	require.NoError(t, <-done)

	view := m.View()
	assert.Equal(t, topup.StateConfirmingOrder, view.State)
	assert.Empty(t, view.Charge.ID)
}

func TestModalInvalidTransitions(t *testing.T) {
	m := newModal(new(mocks.TopupBackend))

	assert.ErrorIs(t, m.Confirm(context.Background()), topup.ErrInvalidTransition)
	assert.ErrorIs(t, m.MarkPaid(context.Background()), topup.ErrInvalidTransition)
	assert.ErrorIs(t, m.Back(), topup.ErrInvalidTransition)
	assert.ErrorIs(t, m.ConfirmCancel(), topup.ErrInvalidTransition)
	assert.ErrorIs(t, m.AbortCancel(), topup.ErrInvalidTransition)
	assert.ErrorIs(t, m.Select(99), topup.ErrUnknownPackage)
	assert.Equal(t, topup.StateSelectingPackage, m.State())
}

func TestModalBackAbandonsCharge(t *testing.T) {
	backend := new(mocks.TopupBackend)
	m := awaiting(t, backend)

	require.NoError(t, m.Back())

	view := m.View()
	assert.Equal(t, topup.StateConfirmingOrder, view.State)
	assert.Empty(t, view.Charge.ID)
}

func TestModalRestartAfterDeadCharge(t *testing.T) {
	backend := new(mocks.TopupBackend)
	m := awaiting(t, backend)

	backend.On("CheckCharge", mock.Anything, "chrg_1", raider.ID).
		Return(topup.ChargeStatus{Status: "failed", LocalStatus: topup.LocalStatusFailed, FailureMessage: "payment rejected"}, nil)
	require.NoError(t, m.MarkPaid(context.Background()))
	assert.Contains(t, m.View().Notice.Message, "payment rejected")

	require.NoError(t, m.Restart())

	view := m.View()
	assert.Equal(t, topup.StateSelectingPackage, view.State)
	assert.Nil(t, view.Selected)
	assert.Empty(t, view.Charge.ID)
	assert.Equal(t, topup.NoticeNone, view.Notice.Kind)
}
