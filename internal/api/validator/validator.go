package validator

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/constants"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/metrics"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/service"
	"github.com/shopspring/decimal"
)

const (
	sep = " and "
)

type Error struct {
	Error       bool
	FailedField string
	Tag         string
	Value       interface{}
}

// ValidationError carries the per-field failures of a request body. Its
// message is shown to the caller as-is.
type ValidationError struct {
	Fields  []Error
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type IXValidator interface {
	ParseBody(c *fiber.Ctx, out any, endpoint string) error
	Validate(data any) []Error
}

type XValidator struct {
	validator *validator.Validate
	metrics   *metrics.Metrics
}

func NewXValidator(validate *validator.Validate, metrics *metrics.Metrics) IXValidator {
	validate.RegisterTagNameFunc(jsonFieldName)
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	for key, function := range valid {
		_ = validate.RegisterValidation(key, function)
	}

	return &XValidator{
		validator: validate,
		metrics:   metrics,
	}
}

// ParseBody decodes the JSON body into out and validates it. A body that does
// not decode yields INVALID_REQUEST_BODY; failed rules yield *ValidationError.
func (x *XValidator) ParseBody(c *fiber.Ctx, out any, endpoint string) error {
	start := time.Now()

	if err := c.BodyParser(out); err != nil {
		return service.NewServiceError(constants.ErrCodeInvalidRequestBody, err)
	}

	errs := x.Validate(out)
	if len(errs) == 0 {
		x.observe(endpoint+"_success", start)
		return nil
	}

	errMsgs := make([]string, 0, len(errs))
	for _, err := range errs {
		errMsgs = append(errMsgs, fmt.Sprintf(constants.MessageErrorFormat, err.FailedField))

		if x.metrics != nil {
			x.metrics.RecordValidationError(err.FailedField, err.Tag)
		}
	}
	x.observe(endpoint+"_error", start)

	return &ValidationError{Fields: errs, Message: strings.Join(errMsgs, sep)}
}

func (x *XValidator) Validate(data any) []Error {
	var validationErrors []Error

	errs := x.validator.Struct(data)
	if errs != nil {
		verrs, ok := errs.(validator.ValidationErrors)
		if !ok {
			return []Error{{Error: true, FailedField: "body", Tag: "struct"}}
		}

		for _, err := range verrs {
			var elem Error
			elem.FailedField = err.Field()
			elem.Tag = err.Tag()
			elem.Value = err.Value()
			elem.Error = true
			validationErrors = append(validationErrors, elem)
		}
	}

	return validationErrors
}

func (x *XValidator) observe(endpoint string, start time.Time) {
	if x.metrics != nil {
		x.metrics.RecordValidationDuration(endpoint, time.Since(start))
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}

	return name
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}

	return nil
}
