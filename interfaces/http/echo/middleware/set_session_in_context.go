package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/octabyte/medtrack-gommon/models"
	ctxutil "github.com/octabyte/medtrack-gommon/utils/context"
)

// SessionResolver maps an issued token to the identity it was issued for.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (models.Identity, bool, error)
}

// SetSessionInContext resolves the token placed by SetTokenInContext and
// stores the identity. Unknown tokens leave the request anonymous.
func SetSessionInContext(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, _ := c.Get(TokenKey).(string)
			if token == "" {
				return next(c)
			}

			identity, ok, err := resolver.Resolve(c.Request().Context(), token)
			if err != nil {
				log.Errorf("Error resolving session: %v", err)
				return next(c)
			}
			if !ok {
				return next(c)
			}

			c.Set(RequestIdentityKey, identity)
			c.SetRequest(c.Request().WithContext(ctxutil.WithIdentity(c.Request().Context(), identity)))
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by SetSessionInContext.
func IdentityFrom(c echo.Context) (models.Identity, bool) {
	identity, ok := c.Get(RequestIdentityKey).(models.Identity)
	return identity, ok
}
