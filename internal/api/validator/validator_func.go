package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	priceRegex = `^\d+(\.\d{1,2})?$`
)

const (
	PriceTag = "price"
)

var pricePattern = regexp.MustCompile(priceRegex)

var valid = map[string]func(fl validator.FieldLevel) bool{
	PriceTag: ValidatePrice,
}

// ValidatePrice accepts a positive amount with at most two decimal places.
func ValidatePrice(fl validator.FieldLevel) bool {
	price := fl.Field().String()
	if !pricePattern.MatchString(price) {
		return false
	}

	d, err := decimal.NewFromString(price)
	return err == nil && d.IsPositive()
}
