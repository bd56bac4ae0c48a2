package v1

import (
	"encoding/json"
	"time"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/model"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/pricing"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/service"
	"github.com/shopspring/decimal"
)

type CreateChargeResponse struct {
	ID     string `json:"id"`
	QRCode string `json:"qr_code"`
}

type WebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type ChargeStatusResponse struct {
	ID             string      `json:"id"`
	Status         string      `json:"status"`
	LocalStatus    string      `json:"localStatus"`
	Amount         json.Number `json:"amount"`
	Credits        int64       `json:"credits"`
	FailureCode    *string     `json:"failure_code,omitempty"`
	FailureMessage *string     `json:"failure_message,omitempty"`
}

type PackageResponse struct {
	ID      int         `json:"id"`
	Label   string      `json:"label"`
	Price   json.Number `json:"price"`
	Credits int64       `json:"credits"`
}

type PackagesResponse struct {
	Version  string            `json:"version"`
	Packages []PackageResponse `json:"packages"`
}

type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Credits int64  `json:"credits"`
}

type TransactionResponse struct {
	Amount    json.Number `json:"amount"`
	Credits   int64       `json:"credits"`
	RefNo     string      `json:"ref_no"`
	OrderNo   string      `json:"order_no"`
	Status    string      `json:"status"`
	CreatedAt string      `json:"created_at"`
}

type HistoryResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func newChargeStatusResponse(s service.ChargeStatus) ChargeStatusResponse {
	return ChargeStatusResponse{
		ID:             s.ID,
		Status:         string(s.Status),
		LocalStatus:    string(s.LocalStatus),
		Amount:         number(s.Amount),
		Credits:        s.Credits,
		FailureCode:    s.FailureCode,
		FailureMessage: s.FailureMessage,
	}
}

func newPackagesResponse(catalog *pricing.Catalog) PackagesResponse {
	packages := catalog.Packages()
	resp := PackagesResponse{Version: catalog.Version(), Packages: make([]PackageResponse, 0, len(packages))}
	for _, p := range packages {
		resp.Packages = append(resp.Packages, PackageResponse{
			ID:      p.ID,
			Label:   p.Label,
			Price:   number(p.Price),
			Credits: p.Credits,
		})
	}

	return resp
}

func newHistoryResponse(txs []model.Transaction, total int64) HistoryResponse {
	resp := HistoryResponse{Transactions: make([]TransactionResponse, 0, len(txs)), Total: total}
	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, TransactionResponse{
			Amount:    number(tx.Amount),
			Credits:   tx.Credits,
			RefNo:     tx.RefNo,
			OrderNo:   tx.OrderNo,
			Status:    tx.Status,
			CreatedAt: tx.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return resp
}
