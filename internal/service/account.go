package service

import (
	"context"
	"errors"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/constants"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/model"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/repository"
	"go.uber.org/zap"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

type AccountService interface {
	Balance(ctx context.Context, userID string) (model.Profile, error)
	History(ctx context.Context, query HistoryQuery) ([]model.Transaction, int64, error)
}

type Account struct {
	profileRepo repository.ProfileRepository
	txRepo      repository.TransactionRepository
	logger      *zap.Logger
}

func NewAccountService(profileRepo repository.ProfileRepository, txRepo repository.TransactionRepository,
	logger *zap.Logger) AccountService {
	return &Account{profileRepo: profileRepo, txRepo: txRepo, logger: logger}
}

func (a *Account) Balance(ctx context.Context, userID string) (model.Profile, error) {
	profile, err := a.profileRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return model.Profile{}, NewServiceError(constants.ErrCodeUserNotFound, err)
	}
	if err != nil {
		a.logger.Error("Failed to read profile", zap.Error(err), zap.String("userID", userID))
		return model.Profile{}, NewServiceError(constants.ErrCodeDatabase, errors.Join(ErrDatabase, err))
	}

	return profile, nil
}

// History returns the user's top-ups newest first, with the total row count.
func (a *Account) History(ctx context.Context, query HistoryQuery) ([]model.Transaction, int64, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	txs, err := a.txRepo.ListByUserID(ctx, query.UserID, limit, offset)
	if err != nil {
		a.logger.Error("Failed to list transactions", zap.Error(err), zap.String("userID", query.UserID))
		return nil, 0, NewServiceError(constants.ErrCodeDatabase, errors.Join(ErrDatabase, err))
	}

	total, err := a.txRepo.CountByUserID(ctx, query.UserID)
	if err != nil {
		a.logger.Error("Failed to count transactions", zap.Error(err), zap.String("userID", query.UserID))
		return nil, 0, NewServiceError(constants.ErrCodeDatabase, errors.Join(ErrDatabase, err))
	}

	return txs, total, nil
}
