package service

import "errors"

var (
	ErrMalformedEvent = errors.New("MALFORMED_EVENT")
	ErrMissingUserID  = errors.New("MISSING_USER_ID")
	ErrChargeNotOwned = errors.New("CHARGE_NOT_OWNED")
	ErrMissingQRCode  = errors.New("MISSING_QR_CODE")
	ErrDatabase       = errors.New("DATABASE_ERROR")
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}

// PaymentInitError is returned when a charge could not be created. Message is
// the gateway's explanation and is safe to show to the payer.
type PaymentInitError struct {
	Message string
	Err     error
}

func (e *PaymentInitError) Error() string {
	return e.Message
}

func (e *PaymentInitError) Unwrap() error {
	return e.Err
}
