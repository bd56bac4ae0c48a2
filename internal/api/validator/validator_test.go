package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priced struct {
	Amount decimal.Decimal `json:"amount" validate:"required,price"`
	Label  string          `json:"label" validate:"required"`
}

func TestValidatePrice(t *testing.T) {
	x := NewXValidator(validator.New(), metrics.NewMetrics(prometheus.NewRegistry()))

	cases := []struct {
		amount string
		ok     bool
	}{
		{"50", true},
		{"100.5", true},
		{"199.99", true},
		{"0", false},
		{"-10", false},
		{"10.001", false},
	}

	for _, tc := range cases {
		t.Run(tc.amount, func(t *testing.T) {
			errs := x.Validate(&priced{Amount: decimal.RequireFromString(tc.amount), Label: "pack"})
			if tc.ok {
				assert.Empty(t, errs)
				return
			}

			require.Len(t, errs, 1)
			assert.Equal(t, "amount", errs[0].FailedField)
			assert.Equal(t, PriceTag, errs[0].Tag)
		})
	}
}

func TestValidateUsesJSONNames(t *testing.T) {
	x := NewXValidator(validator.New(), nil)

	errs := x.Validate(&priced{Amount: decimal.NewFromInt(100)})

	require.Len(t, errs, 1)
	assert.Equal(t, "label", errs[0].FailedField)
	assert.Equal(t, "required", errs[0].Tag)
}
