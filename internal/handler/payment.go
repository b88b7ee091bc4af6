package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"bar-ordering-platform/internal/dto"
	"bar-ordering-platform/internal/model"
	"bar-ordering-platform/internal/service"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	webhookService service.WebhookService
}

func NewPaymentHandler(paymentService service.PaymentService, webhookService service.WebhookService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		webhookService: webhookService,
	}
}

func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	result, err := h.paymentService.CreateCheckout(ctx, &req)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// Webhook receives MercadoPago notifications. Anything safely ignorable is
// acknowledged with 200 so the processor stops retrying; 404/500 are
// reserved for conditions where a retry is the correct recovery path.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unreadable body"})
	}

	var notification model.MPWebhookNotification
	if err := json.Unmarshal(body, &notification); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid notification payload"})
	}

	result, err := h.webhookService.HandleNotification(ctx, &notification, body)
	if err != nil {
		// NotFound maps to 404: possibly transient (order creation still in
		// flight) and the processor retries on it. Everything else is 500.
		return errorJSON(c, err)
	}

	if !result.Handled {
		return c.JSON(http.StatusOK, dto.WebhookResponse{Message: "ignored"})
	}

	// A business-level rejection is not a transport error; still 200.
	return c.JSON(http.StatusOK, dto.WebhookResponse{
		Message:       "processed",
		OrderID:       result.OrderID,
		PaymentStatus: result.InternalStatus,
	})
}
