package config

import (
	"fmt"
	"strings"

	"bar-ordering-platform/internal/apperr"
)

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	// BaseURL is the public URL this backend is reachable at. MercadoPago
	// calls back into it for the OAuth redirect and webhook notifications.
	BaseURL         string `env:"BASE_URL"`
	FrontendBaseURL string `env:"FRONTEND_BASE_URL"`
	DatabaseURL     string `env:"DATABASE_URL"`
	JWTSecret       string `env:"JWT_SECRET"`

	MercadoPago MercadoPago `envPrefix:"MP_"`
}

type MercadoPago struct {
	BaseApiURL   string `env:"BASE_API_URL" envDefault:"https://api.mercadopago.com"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

// Validate enforces the cold-start contract: processor credentials and
// backend connection parameters must be present, the OAuth redirect URL is
// derived from BaseURL when unset, and the frontend base URL falls back to
// the local dev server.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"MP_CLIENT_ID", c.MercadoPago.ClientID},
		{"MP_CLIENT_SECRET", c.MercadoPago.ClientSecret},
		{"DATABASE_URL", c.DatabaseURL},
		{"BASE_URL", c.BaseURL},
		// Without a secret the back-office token gate would verify against an
		// empty HMAC key.
		{"JWT_SECRET", c.JWTSecret},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return apperr.New(apperr.Configuration, apperr.CodeMissingEnvVar,
				fmt.Sprintf("missing required environment variable %s", r.name))
		}
	}

	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	// Deliberate fallback: the processor app is registered with this exact
	// path, so deriving it keeps BASE_URL as the single source of truth.
	if strings.TrimSpace(c.MercadoPago.RedirectURL) == "" {
		c.MercadoPago.RedirectURL = c.BaseURL + "/api/mercadopago/oauth/callback"
	}

	if strings.TrimSpace(c.FrontendBaseURL) == "" {
		c.FrontendBaseURL = "http://localhost:5173"
	}
	c.FrontendBaseURL = strings.TrimRight(c.FrontendBaseURL, "/")

	return nil
}
