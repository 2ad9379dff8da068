package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
	"github.com/octabyte/medtrack-gommon/enums"
)

// RequireRole rejects anonymous requests with 401 and requests from roles
// outside roles with 403. No roles means any authenticated caller.
func RequireRole(roles ...enums.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthenticated."})
			}
			if len(roles) > 0 && !slices.Contains(roles, identity.Role) {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "This action is unauthorized."})
			}
			return next(c)
		}
	}
}
