package mocks

import (
	"context"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/omise"
	"github.com/stretchr/testify/mock"
)

type Gateway struct {
	mock.Mock
}

func (g *Gateway) CreateSource(ctx context.Context, request omise.CreateSourceRequest) (omise.Source, error) {
	args := g.Called(ctx, request)
	return args.Get(0).(omise.Source), args.Error(1)
}

func (g *Gateway) CreateCharge(ctx context.Context, request omise.CreateChargeRequest) (omise.Charge, error) {
	args := g.Called(ctx, request)
	return args.Get(0).(omise.Charge), args.Error(1)
}

func (g *Gateway) GetCharge(ctx context.Context, chargeID string) (omise.Charge, error) {
	args := g.Called(ctx, chargeID)
	return args.Get(0).(omise.Charge), args.Error(1)
}
