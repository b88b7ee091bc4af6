package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"bar-ordering-platform/internal/config"
	"bar-ordering-platform/internal/handler"
	"bar-ordering-platform/internal/middleware"
	"bar-ordering-platform/internal/service"
)

type Server struct {
	echo           *echo.Echo
	cfg            *config.Config
	paymentHandler *handler.PaymentHandler
	oauthHandler   *handler.OAuthHandler
	barHandler     *handler.BarHandler
}

func NewServer(
	cfg *config.Config,
	paymentService service.PaymentService,
	webhookService service.WebhookService,
	oauthService service.OAuthService,
	barService service.BarService,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:           e,
		cfg:            cfg,
		paymentHandler: handler.NewPaymentHandler(paymentService, webhookService),
		oauthHandler:   handler.NewOAuthHandler(oauthService),
		barHandler:     handler.NewBarHandler(barService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// Public checkout flow, called by the storefront.
	api.POST("/payments", s.paymentHandler.CreatePayment)

	// -------- mercadopago callbacks --------
	mp := api.Group("/mercadopago")
	mp.GET("/oauth/callback", s.oauthHandler.Callback)
	mp.POST("/webhook", s.paymentHandler.Webhook)

	// -------- back office (owner/admin) --------
	bars := api.Group("/bars", middleware.RequireRole(s.cfg.JWTSecret, "owner"))
	bars.GET("/:id/mercadopago/status", s.barHandler.MercadoPagoStatus)
	bars.POST("/:id/mercadopago/disconnect", s.barHandler.DisconnectMercadoPago)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
