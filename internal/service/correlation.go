package service

import (
	"encoding/json"
	"fmt"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/omise"
	"github.com/shopspring/decimal"
)

// Correlation is the application context round-tripped through the charge
// metadata, the only channel from charge creation to the webhook.
type Correlation struct {
	UserID    string
	Amount    decimal.Decimal
	HasAmount bool
	OrderID   string
}

// Metadata renders the correlation for a charge request. The order id is
// written under both keys read by older consumers.
func (c Correlation) Metadata() omise.Metadata {
	return omise.Metadata{
		"userId":   c.UserID,
		"amount":   json.Number(c.Amount.String()),
		"orderId":  c.OrderID,
		"order_no": c.OrderID,
	}
}

// ParseCorrelation reads a charge's metadata. A missing user id is a hard
// rejection; a missing or unparsable amount is not.
func ParseCorrelation(m omise.Metadata) (Correlation, error) {
	userID := m.String("userId", "user_id")
	if userID == "" {
		return Correlation{}, fmt.Errorf("%w: metadata keys %v", ErrMissingUserID, metadataKeys(m))
	}

	amount, ok := m.Decimal("amount")

	return Correlation{
		UserID:    userID,
		Amount:    amount,
		HasAmount: ok,
		OrderID:   m.String("orderId", "order_id", "order_no"),
	}, nil
}

func metadataKeys(m omise.Metadata) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
