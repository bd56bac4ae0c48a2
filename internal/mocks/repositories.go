package mocks

import (
	"context"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/model"
	"github.com/stretchr/testify/mock"
)

type ProfileRepository struct {
	mock.Mock
}

func (p *ProfileRepository) FindByID(ctx context.Context, id string) (model.Profile, error) {
	args := p.Called(ctx, id)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (p *ProfileRepository) AddCredits(ctx context.Context, id string, credits int64) (int64, error) {
	args := p.Called(ctx, id, credits)
	return args.Get(0).(int64), args.Error(1)
}

type TransactionRepository struct {
	mock.Mock
}

func (t *TransactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	args := t.Called(ctx, tx)
	return args.Error(0)
}

func (t *TransactionRepository) FindByRefNo(ctx context.Context, refNo string) (model.Transaction, error) {
	args := t.Called(ctx, refNo)
	return args.Get(0).(model.Transaction), args.Error(1)
}

func (t *TransactionRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]model.Transaction, error) {
	args := t.Called(ctx, userID, limit, offset)
	return args.Get(0).([]model.Transaction), args.Error(1)
}

func (t *TransactionRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	args := t.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
