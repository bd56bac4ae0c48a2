package v1

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/api/middleware"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/api/validator"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/constants"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/pricing"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/service"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/pkg/omise"
	"go.uber.org/zap"
)

type Handler struct {
	logger         *zap.Logger
	paymentService service.PaymentService
	webhookService service.WebhookService
	statusService  service.StatusService
	accountService service.AccountService
	catalog        *pricing.Catalog
	XValidator     validator.IXValidator
}

func NewHandler(logger *zap.Logger, paymentService service.PaymentService, webhookService service.WebhookService,
	statusService service.StatusService, accountService service.AccountService, catalog *pricing.Catalog,
	XValidator validator.IXValidator) *Handler {
	return &Handler{
		logger:         logger,
		paymentService: paymentService,
		webhookService: webhookService,
		statusService:  statusService,
		accountService: accountService,
		catalog:        catalog,
		XValidator:     XValidator,
	}
}

func (h *Handler) CreateCharge(c *fiber.Ctx) error {
	start := time.Now()

	var request CreateChargeRequest
	if err := h.XValidator.ParseBody(c, &request, "create_charge"); err != nil {
		h.logger.Warn("Invalid create charge request",
			zap.Error(err),
			zap.String("trackID", middleware.GetTrackID(c)))
		return err
	}

	result, err := h.paymentService.CreateCharge(c.UserContext(), service.CreateChargeCommand{
		Amount:       request.Amount,
		UserID:       request.UserID,
		Email:        request.Email,
		PackageLabel: request.PackageLabel,
		OrderID:      request.OrderID,
	})
	if err != nil {
		return err
	}

	h.logger.Info("Charge initiated",
		zap.String("chargeID", result.ID),
		zap.String("userID", request.UserID),
		zap.String("orderID", request.OrderID),
		zap.String("trackID", middleware.GetTrackID(c)),
		zap.Duration("duration", time.Since(start)))

	return c.JSON(CreateChargeResponse{ID: result.ID, QRCode: result.QRCode})
}

// Webhook acknowledges every recognised event with 200 so the gateway stops
// redelivering. Only payloads that can never succeed get a 4xx.
func (h *Handler) Webhook(c *fiber.Ctx) error {
	var event omise.Event

	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.UseNumber()
	if err := decoder.Decode(&event); err != nil {
		h.logger.Warn("Failed to parse webhook body",
			zap.Error(err),
			zap.Int("size", len(c.Body())))
		return service.NewServiceError(constants.ErrCodeMalformedEvent, err)
	}

	result, err := h.webhookService.HandleEvent(c.UserContext(), event)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case service.OutcomeIgnored:
		return c.JSON(WebhookResponse{Success: true, Message: "ignored"})
	case service.OutcomeAlreadyProcessed:
		return c.JSON(WebhookResponse{Success: true, Message: "Already processed"})
	default:
		return c.JSON(WebhookResponse{Success: true})
	}
}

func (h *Handler) CheckCharge(c *fiber.Ctx) error {
	var request CheckChargeRequest
	if err := h.XValidator.ParseBody(c, &request, "check_charge"); err != nil {
		return err
	}

	status, err := h.statusService.CheckCharge(c.UserContext(), service.CheckChargeQuery{
		ChargeID: request.ChargeID,
		UserID:   request.UserID,
	})
	if err != nil {
		return err
	}

	return c.JSON(newChargeStatusResponse(status))
}

func (h *Handler) Packages(c *fiber.Ctx) error {
	return c.JSON(newPackagesResponse(h.catalog))
}

func (h *Handler) Balance(c *fiber.Ctx) error {
	profile, err := h.accountService.Balance(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}

	return c.JSON(BalanceResponse{UserID: profile.ID, Credits: profile.Credits})
}

func (h *Handler) History(c *fiber.Ctx) error {
	txs, total, err := h.accountService.History(c.UserContext(), service.HistoryQuery{
		UserID: c.Params("userId"),
		Limit:  c.QueryInt("limit", service.DefaultHistoryLimit),
		Offset: c.QueryInt("offset", 0),
	})
	if err != nil {
		return err
	}

	return c.JSON(newHistoryResponse(txs, total))
}
