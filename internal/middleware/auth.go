package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Claims carried by back-office tokens. Session issuance lives in the
// account service; this middleware only enforces the role contract.
type Claims struct {
	Role  string `json:"role"`
	BarID string `json:"bar_id,omitempty"`
	jwt.RegisteredClaims
}

// RequireRole gates a route group on a bearer token whose role claim is one
// of the allowed values. Admins pass every gate.
func RequireRole(jwtSecret string, roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(
				strings.TrimPrefix(header, "Bearer "),
				claims,
				func(t *jwt.Token) (interface{}, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, jwt.ErrSignatureInvalid
					}
					return []byte(jwtSecret), nil
				},
			)
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if !allowed[claims.Role] && claims.Role != "admin" {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}

			c.Set("role", claims.Role)
			c.Set("bar_id", claims.BarID)
			return next(c)
		}
	}
}
