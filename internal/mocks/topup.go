package mocks

import (
	"context"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/topup"
	"github.com/stretchr/testify/mock"
)

type TopupBackend struct {
	mock.Mock
}

func (b *TopupBackend) CreateCharge(ctx context.Context, req topup.ChargeRequest) (topup.Charge, error) {
	args := b.Called(ctx, req)
	return args.Get(0).(topup.Charge), args.Error(1)
}

func (b *TopupBackend) CheckCharge(ctx context.Context, chargeID, userID string) (topup.ChargeStatus, error) {
	args := b.Called(ctx, chargeID, userID)
	return args.Get(0).(topup.ChargeStatus), args.Error(1)
}

func (b *TopupBackend) Balance(ctx context.Context, userID string) (int64, error) {
	args := b.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
