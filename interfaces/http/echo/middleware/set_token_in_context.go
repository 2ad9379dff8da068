package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/octabyte/medtrack-gommon/utils"
	ctxutil "github.com/octabyte/medtrack-gommon/utils/context"
)

// SetTokenInContext reads the bearer token from the Authorization header,
// falling back to the Authorization cookie, and exposes it both on the echo
// context and on the request context.
func SetTokenInContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(Authorization)

			// The cookie carries the bare token.
			if header == "" {
				cookie, err := c.Cookie(Authorization)
				if err == nil {
					header = utils.BearerHeader(cookie.Value)
				}
			}

			token, ok := utils.ParseBearer(header)
			if !ok {
				return next(c)
			}

			c.Set(TokenKey, token)
			c.SetRequest(c.Request().WithContext(ctxutil.WithToken(c.Request().Context(), token)))
			return next(c)
		}
	}
}
