package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/geotrail/location-log/internal/api/middleware"
)

// ctxUserID returns the authenticated subject, or nil when the route runs
// without the Auth middleware.
func ctxUserID(c echo.Context) *string {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return nil
	}
	id := claims.UserID()
	return &id
}
