package omise

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type ChargeStatus string

const (
	ChargeStatusPending    ChargeStatus = "pending"
	ChargeStatusSuccessful ChargeStatus = "successful"
	ChargeStatusFailed     ChargeStatus = "failed"
	ChargeStatusExpired    ChargeStatus = "expired"
)

const EventChargeComplete = "charge.complete"

const ObjectError = "error"

type CreateSourceRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Type     string `json:"type"`
}

type CreateChargeRequest struct {
	Amount      int64    `json:"amount"`
	Currency    string   `json:"currency"`
	Source      string   `json:"source"`
	Description string   `json:"description,omitempty"`
	Metadata    Metadata `json:"metadata,omitempty"`
}

type Source struct {
	Object        string         `json:"object"`
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	Amount        int64          `json:"amount"`
	Currency      string         `json:"currency"`
	ScannableCode *ScannableCode `json:"scannable_code,omitempty"`
}

type ScannableCode struct {
	Object string    `json:"object"`
	Type   string    `json:"type"`
	Image  *Document `json:"image,omitempty"`
}

type Document struct {
	Object      string `json:"object"`
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	DownloadURI string `json:"download_uri"`
	URL         string `json:"url"`
}

type Charge struct {
	Object         string       `json:"object"`
	ID             string       `json:"id"`
	Amount         int64        `json:"amount"`
	Currency       string       `json:"currency"`
	Status         ChargeStatus `json:"status"`
	Description    string       `json:"description"`
	Metadata       Metadata     `json:"metadata"`
	Source         *Source      `json:"source,omitempty"`
	FailureCode    *string      `json:"failure_code"`
	FailureMessage *string      `json:"failure_message"`
}

// QRCodeURL returns the scannable code image of the charge's source, if any.
func (c Charge) QRCodeURL() string {
	if c.Source == nil || c.Source.ScannableCode == nil || c.Source.ScannableCode.Image == nil {
		return ""
	}

	image := c.Source.ScannableCode.Image
	if image.DownloadURI != "" {
		return image.DownloadURI
	}

	return image.URL
}

// Event is the envelope Omise posts to webhook endpoints. Only charge events are
// consumed, so Data is decoded as a charge.
type Event struct {
	Object string `json:"object"`
	ID     string `json:"id"`
	Key    string `json:"key"`
	Data   Charge `json:"data"`
}

// Metadata is the key-value bag the gateway round-trips on a charge.
type Metadata map[string]any

// String returns the first non-empty value among keys.
func (m Metadata) String(keys ...string) string {
	for _, key := range keys {
		value, ok := m[key]
		if !ok || value == nil {
			continue
		}

		var s string
		switch v := value.(type) {
		case string:
			s = v
		case json.Number:
			s = v.String()
		case float64:
			s = decimal.NewFromFloat(v).String()
		default:
			s = fmt.Sprint(v)
		}

		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}

	return ""
}

// Decimal parses the value under key as a decimal amount.
func (m Metadata) Decimal(key string) (decimal.Decimal, bool) {
	switch v := m[key].(type) {
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		return d, err == nil
	case decimal.Decimal:
		return v, true
	default:
		return decimal.Zero, false
	}
}

// ToSubunits converts a THB amount into satang.
func ToSubunits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func FromSubunits(subunits int64) decimal.Decimal {
	return decimal.New(subunits, -2)
}
