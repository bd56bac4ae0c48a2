package omise

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	ErrCodeTimeout      = "TIMEOUT"
	ErrCodeServerError  = "SERVER_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeBadRequest   = "BAD_REQUEST"
)

var (
	ErrTimeout      = errors.New(ErrCodeTimeout)
	ErrServerError  = errors.New(ErrCodeServerError)
	ErrNotFound     = errors.New(ErrCodeNotFound)
	ErrUnauthorized = errors.New(ErrCodeUnauthorized)
	ErrBadRequest   = errors.New(ErrCodeBadRequest)
)

var statusErrorMap = map[int]error{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusNotFound:            ErrNotFound,
	http.StatusUnprocessableEntity: ErrBadRequest,
}

// APIError is the error object Omise returns in place of a resource.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("omise %s: %s", e.Code, e.Message)
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}

// IsRetryable reports whether repeating the same read could succeed.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrServerError) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}

	return false
}
