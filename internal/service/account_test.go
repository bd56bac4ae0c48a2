package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/constants"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/mocks"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/model"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/repository"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAccount_Balance(t *testing.T) {
	ctx := context.Background()

	t.Run("Existing profile", func(t *testing.T) {
		profileRepo := &mocks.ProfileRepository{}
		svc := service.NewAccountService(profileRepo, &mocks.TransactionRepository{}, zap.NewNop())

		profileRepo.On("FindByID", ctx, "user-1").Return(model.Profile{ID: "user-1", Credits: 125}, nil)

		profile, err := svc.Balance(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, int64(125), profile.Credits)
	})

	t.Run("Unknown profile", func(t *testing.T) {
		profileRepo := &mocks.ProfileRepository{}
		svc := service.NewAccountService(profileRepo, &mocks.TransactionRepository{}, zap.NewNop())

		profileRepo.On("FindByID", ctx, "ghost").Return(model.Profile{}, repository.ErrProfileNotFound)

		_, err := svc.Balance(ctx, "ghost")

		var serviceErr service.Error
		require.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeUserNotFound, serviceErr.Code)
	})
}

func TestAccount_History(t *testing.T) {
	ctx := context.Background()

	t.Run("Limit is defaulted and capped", func(t *testing.T) {
		txRepo := &mocks.TransactionRepository{}
		svc := service.NewAccountService(&mocks.ProfileRepository{}, txRepo, zap.NewNop())

		rows := []model.Transaction{{RefNo: "chrg_1", Credits: 55}}
		txRepo.On("ListByUserID", ctx, "user-1", service.DefaultHistoryLimit, 0).Return(rows, nil).Once()
		txRepo.On("ListByUserID", ctx, "user-1", service.MaxHistoryLimit, 10).Return(rows, nil).Once()
		txRepo.On("CountByUserID", ctx, "user-1").Return(int64(11), nil)

		txs, total, err := svc.History(ctx, service.HistoryQuery{UserID: "user-1"})
		require.NoError(t, err)
		assert.Len(t, txs, 1)
		assert.Equal(t, int64(11), total)

		_, _, err = svc.History(ctx, service.HistoryQuery{UserID: "user-1", Limit: 1000, Offset: 10})
		require.NoError(t, err)
		txRepo.AssertExpectations(t)
	})

	t.Run("Database error", func(t *testing.T) {
		txRepo := &mocks.TransactionRepository{}
		svc := service.NewAccountService(&mocks.ProfileRepository{}, txRepo, zap.NewNop())

		txRepo.On("ListByUserID", ctx, "user-1", service.DefaultHistoryLimit, 0).
			Return([]model.Transaction(nil), errors.New("connection refused"))

		_, _, err := svc.History(ctx, service.HistoryQuery{UserID: "user-1"})

		var serviceErr service.Error
		require.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeDatabase, serviceErr.Code)
	})
}

func TestCorrelation(t *testing.T) {
	t.Run("missing user id", func(t *testing.T) {
		_, err := service.ParseCorrelation(nil)
		assert.ErrorIs(t, err, service.ErrMissingUserID)
	})

	t.Run("round trip", func(t *testing.T) {
		c, err := service.ParseCorrelation(service.Correlation{UserID: "u", OrderID: "o"}.Metadata())
		require.NoError(t, err)
		assert.Equal(t, "u", c.UserID)
		assert.Equal(t, "o", c.OrderID)
		assert.True(t, c.HasAmount)
		assert.True(t, c.Amount.IsZero())
	})
}
