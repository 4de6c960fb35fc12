package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tanvirio/openblog/backend/internal/models"
)

// AdminOnly rejects requests whose JWT claims do not carry the ADMIN role.
// Runs after JWTAuthMiddleware.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*models.JwtCustomClaims)
			if !ok || claims.Role != models.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
			}
			return next(c)
		}
	}
}
