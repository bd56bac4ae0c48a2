package v1

import "github.com/shopspring/decimal"

type CreateChargeRequest struct {
	Amount       decimal.Decimal `json:"amount" validate:"required,price"`
	UserID       string          `json:"userId" validate:"required,max=64"`
	Email        string          `json:"email" validate:"required,email"`
	PackageLabel string          `json:"packageLabel" validate:"required"`
	OrderID      string          `json:"orderId" validate:"required,max=64"`
}

type CheckChargeRequest struct {
	ChargeID string `json:"chargeId" validate:"required"`
	UserID   string `json:"userId" validate:"omitempty,max=64"`
}
