package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/mocks"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/pricing"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/topup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var buyer = topup.User{ID: "user-1", Email: "raider@example.com"}

func runSession(t *testing.T, backend topup.Backend, input string) (*topup.Modal, string) {
	t.Helper()

	modal := topup.NewModal(backend, pricing.Default(), buyer, 30,
		topup.WithVerifyDelay(0), topup.WithAutoCloseDelay(0))

	var out bytes.Buffer
	require.NoError(t, newSession(modal, strings.NewReader(input), &out).run(context.Background()))

	return modal, out.String()
}

func TestSessionPurchase(t *testing.T) {
	backend := new(mocks.TopupBackend)
	backend.On("CreateCharge", mock.Anything, mock.Anything).
		Return(topup.Charge{ID: "chrg_1", QRCode: "https://qr.example/1.svg"}, nil)
	backend.On("CheckCharge", mock.Anything, "chrg_1", buyer.ID).
		Return(topup.ChargeStatus{LocalStatus: topup.LocalStatusPending}, nil).Once()
	backend.On("CheckCharge", mock.Anything, "chrg_1", buyer.ID).
		Return(topup.ChargeStatus{LocalStatus: topup.LocalStatusRecorded, Credits: 55}, nil).Once()
	backend.On("Balance", mock.Anything, buyer.ID).Return(int64(85), nil)

	modal, out := runSession(t, backend, "1\nc\np\np\n")

	assert.Equal(t, topup.StateSuccess, modal.State())
	assert.Contains(t, out, "STARTER PACK")
	assert.Contains(t, out, "You are purchasing 55 Credits for ฿50.00")
	assert.Contains(t, out, "https://qr.example/1.svg")
	assert.Contains(t, out, "Payment not yet detected")
	assert.Contains(t, out, "Your new balance is 85 Credits")
	backend.AssertExpectations(t)
}

func TestSessionCancel(t *testing.T) {
	backend := new(mocks.TopupBackend)
	backend.On("CreateCharge", mock.Anything, mock.Anything).
		Return(topup.Charge{ID: "chrg_1", QRCode: "https://qr.example/1.svg"}, nil)

	modal, out := runSession(t, backend, "2\nc\nq\nn\nq\ny\n")

	assert.Equal(t, topup.StateCancelled, modal.State())
	assert.Contains(t, out, "Top-up cancelled.")
	backend.AssertNotCalled(t, "CheckCharge", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionClosedInput(t *testing.T) {
	modal, out := runSession(t, new(mocks.TopupBackend), "7\nfoo\n")

	assert.Equal(t, topup.StateCancelled, modal.State())
	assert.Contains(t, out, "unknown package")
	assert.Contains(t, out, "enter a package id")
}
