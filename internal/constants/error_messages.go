package constants

const MessageErrorFormat = "The '%s' format is invalid"

const (
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeInvalidRequestBody  = "INVALID_REQUEST_BODY"
	ErrCodePaymentInitFailed   = "PAYMENT_INIT_FAILED"
	ErrCodePaymentLookupFailed = "PAYMENT_LOOKUP_FAILED"
	ErrCodeGatewayTimeout      = "GATEWAY_TIMEOUT"
	ErrCodeMalformedEvent      = "MALFORMED_EVENT"
	ErrCodeMissingUserID       = "MISSING_USER_ID"
	ErrCodeChargeNotOwned      = "CHARGE_NOT_OWNED"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeDatabase            = "DATABASE_ERROR"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

const (
	ErrMsgValidationFailed    = "validation failed"
	ErrMsgInvalidRequestBody  = "failed to parse request body"
	ErrMsgPaymentInitFailed   = "payment initialization failed"
	ErrMsgPaymentLookupFailed = "failed to check payment status"
	ErrMsgGatewayTimeout      = "payment gateway timed out"
	ErrMsgMalformedEvent      = "malformed webhook event"
	ErrMsgMissingUserID       = "missing userId in metadata"
	ErrMsgChargeNotOwned      = "charge does not belong to this user"
	ErrMsgUserNotFound        = "user not found"
	ErrMsgDatabase            = "database error"
	ErrMsgInternalError       = "Internal server error"
)

var errorMessages = map[string]string{
	ErrCodeValidationFailed:    ErrMsgValidationFailed,
	ErrCodeInvalidRequestBody:  ErrMsgInvalidRequestBody,
	ErrCodePaymentInitFailed:   ErrMsgPaymentInitFailed,
	ErrCodePaymentLookupFailed: ErrMsgPaymentLookupFailed,
	ErrCodeGatewayTimeout:      ErrMsgGatewayTimeout,
	ErrCodeMalformedEvent:      ErrMsgMalformedEvent,
	ErrCodeMissingUserID:       ErrMsgMissingUserID,
	ErrCodeChargeNotOwned:      ErrMsgChargeNotOwned,
	ErrCodeUserNotFound:        ErrMsgUserNotFound,
	ErrCodeDatabase:            ErrMsgDatabase,
	ErrCodeInternalError:       ErrMsgInternalError,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeInvalidRequestBody, ErrCodeMalformedEvent, ErrCodeMissingUserID:
		return 400
	case ErrCodeChargeNotOwned:
		return 403
	case ErrCodeUserNotFound:
		return 404
	case ErrCodeValidationFailed:
		return 422
	case ErrCodePaymentInitFailed, ErrCodePaymentLookupFailed:
		return 502
	case ErrCodeGatewayTimeout:
		return 504
	default:
		return 500
	}
}
