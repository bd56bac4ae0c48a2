package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/api/validator"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/constants"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/service"
	"go.uber.org/zap"
)

type Response struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var initErr *service.PaymentInitError
		if errors.As(err, &initErr) {
			return c.Status(constants.GetHTTPStatus(constants.ErrCodePaymentInitFailed)).JSON(Response{
				Code:  constants.ErrCodePaymentInitFailed,
				Error: initErr.Message,
			})
		}

		var validationErr *validator.ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(constants.GetHTTPStatus(constants.ErrCodeValidationFailed)).JSON(Response{
				Code:  constants.ErrCodeValidationFailed,
				Error: validationErr.Message,
			})
		}

		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(Response{
				Code:  constants.ErrCodeInternalError,
				Error: fiberErr.Message,
			})
		}

		logger.Error("Unhandled error",
			zap.Error(err),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()))

		return c.Status(fiber.StatusInternalServerError).JSON(Response{
			Code:  constants.ErrCodeInternalError,
			Error: constants.GetErrorMessage(constants.ErrCodeInternalError),
		})
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error) error {
	errorCode := err.Code

	status := constants.GetHTTPStatus(errorCode)
	if status == fiber.StatusInternalServerError && !isInternalCode(errorCode) {
		errorCode = constants.ErrCodeInternalError
	}

	return c.Status(status).JSON(Response{
		Code:  errorCode,
		Error: constants.GetErrorMessage(errorCode),
	})
}

func isInternalCode(code string) bool {
	return code == constants.ErrCodeInternalError || code == constants.ErrCodeDatabase
}
