package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bar-ordering-platform/internal/service"
)

type BarHandler struct {
	barService service.BarService
}

func NewBarHandler(barService service.BarService) *BarHandler {
	return &BarHandler{
		barService: barService,
	}
}

func (h *BarHandler) MercadoPagoStatus(c echo.Context) error {
	ctx := c.Request().Context()

	status, err := h.barService.ConnectionStatus(ctx, c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, status)
}

func (h *BarHandler) DisconnectMercadoPago(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.barService.DisconnectMercadoPago(ctx, c.Param("id")); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "disconnected",
	})
}
