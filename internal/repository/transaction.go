package repository

import (
	"context"
	"errors"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	FindByRefNo(ctx context.Context, refNo string) (model.Transaction, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]model.Transaction, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)
}

type transaction struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transaction{db: db}
}

// Create inserts tx unless a row with the same ref_no exists, in which case it
// returns ErrTransactionExisted and writes nothing.
func (t *transaction) Create(ctx context.Context, tx *model.Transaction) error {
	db := GetTx(ctx, t.db)

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ref_no"}},
		DoNothing: true,
	}).Create(tx)

	if err := result.Error; err != nil {
		if isDuplicateKey(err) {
			return ErrTransactionExisted
		}
		return err
	}

	if result.RowsAffected == 0 {
		return ErrTransactionExisted
	}

	return nil
}

func (t *transaction) FindByRefNo(ctx context.Context, refNo string) (model.Transaction, error) {
	var tx model.Transaction
	err := GetTx(ctx, t.db).Where("ref_no = ?", refNo).Take(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Transaction{}, ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, err
	}

	return tx, nil
}

func (t *transaction) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := GetTx(ctx, t.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	return txs, nil
}

func (t *transaction) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := GetTx(ctx, t.db).Model(&model.Transaction{}).Where("user_id = ?", userID).Count(&count).Error

	return count, err
}
