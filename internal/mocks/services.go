package mocks

import (
	"context"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/model"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/service"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/omise"
	"github.com/stretchr/testify/mock"
)

type PaymentService struct {
	mock.Mock
}

func (p *PaymentService) CreateCharge(ctx context.Context, cmd service.CreateChargeCommand) (service.ChargeResult, error) {
	args := p.Called(ctx, cmd)
	return args.Get(0).(service.ChargeResult), args.Error(1)
}

func (p *PaymentService) GetCharge(ctx context.Context, chargeID string) (omise.Charge, error) {
	args := p.Called(ctx, chargeID)
	return args.Get(0).(omise.Charge), args.Error(1)
}

type WebhookService struct {
	mock.Mock
}

func (w *WebhookService) HandleEvent(ctx context.Context, event omise.Event) (service.WebhookResult, error) {
	args := w.Called(ctx, event)
	return args.Get(0).(service.WebhookResult), args.Error(1)
}

func (w *WebhookService) ProcessCharge(ctx context.Context, charge omise.Charge) (service.WebhookResult, error) {
	args := w.Called(ctx, charge)
	return args.Get(0).(service.WebhookResult), args.Error(1)
}

type StatusService struct {
	mock.Mock
}

func (s *StatusService) CheckCharge(ctx context.Context, query service.CheckChargeQuery) (service.ChargeStatus, error) {
	args := s.Called(ctx, query)
	return args.Get(0).(service.ChargeStatus), args.Error(1)
}

type AccountService struct {
	mock.Mock
}

func (a *AccountService) Balance(ctx context.Context, userID string) (model.Profile, error) {
	args := a.Called(ctx, userID)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (a *AccountService) History(ctx context.Context, query service.HistoryQuery) ([]model.Transaction, int64, error) {
	args := a.Called(ctx, query)
	return args.Get(0).([]model.Transaction), args.Get(1).(int64), args.Error(2)
}

type ReconcileService struct {
	mock.Mock
}

func (r *ReconcileService) Reconcile(ctx context.Context, cmd service.ReconcileChargeCommand) error {
	args := r.Called(ctx, cmd)
	return args.Error(0)
}

type ReconcileQueue struct {
	mock.Mock
}

func (r *ReconcileQueue) Enqueue(ctx context.Context, cmd service.ReconcileChargeCommand) error {
	args := r.Called(ctx, cmd)
	return args.Error(0)
}
