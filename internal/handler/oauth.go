package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bar-ordering-platform/internal/service"
)

type OAuthHandler struct {
	oauthService service.OAuthService
}

func NewOAuthHandler(oauthService service.OAuthService) *OAuthHandler {
	return &OAuthHandler{
		oauthService: oauthService,
	}
}

// Callback is invoked by MercadoPago after the bar owner authorizes (or
// denies) the connection. It always answers with a redirect back to the
// admin frontend; only configuration failures earlier in the chain produce
// JSON.
func (h *OAuthHandler) Callback(c echo.Context) error {
	ctx := c.Request().Context()

	redirectURL := h.oauthService.HandleCallback(ctx,
		c.QueryParam("code"),
		c.QueryParam("state"),
		c.QueryParam("error"),
	)

	return c.Redirect(http.StatusFound, redirectURL)
}
