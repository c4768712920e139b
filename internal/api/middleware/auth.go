package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/geotrail/location-log/internal/core/domain"
	"github.com/geotrail/location-log/internal/pkg/token"
)

// ClaimsKey is the echo context key holding the verified *token.Claims.
const ClaimsKey = "claims"

// TokenVerifier decodes and validates a raw bearer token.
type TokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

// Auth requires "Authorization: Bearer <token>" and injects the verified
// claims into the context.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token").SetInternal(domain.ErrMissingToken)
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(domain.ErrInvalidToken)
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims set by Auth, if any.
func ClaimsFrom(c echo.Context) (*token.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*token.Claims)
	return claims, ok && claims != nil
}

// bearerToken returns the token part of a "Bearer <token>" header, or "" when
// the header is absent or uses another scheme.
func bearerToken(header string) string {
	scheme, rest, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(rest)
}
