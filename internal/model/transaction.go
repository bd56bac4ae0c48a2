package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const TransactionStatusCompleted = "completed"

// Transaction records one credited charge. RefNo is the gateway charge id and
// is unique, which makes crediting idempotent.
type Transaction struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    string          `gorm:"column:user_id;type:varchar(64);not null;index"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Credits   int64           `gorm:"column:credits;not null"`
	RefNo     string          `gorm:"column:ref_no;type:varchar(128);not null;uniqueIndex"`
	OrderNo   string          `gorm:"column:order_no;type:varchar(64)"`
	Status    string          `gorm:"column:status;type:varchar(20);not null;default:'completed'"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}
