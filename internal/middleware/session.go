// Package middleware contains reusable HTTP middleware: the login-token
// gate, the Redis response cache and the Redis token-bucket rate limiter.
package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/opentrails/data-relay/internal/session"
)

// TokenHeader is the request header carrying the login token issued by the
// login endpoint. Its value must parse as a UUID; anything else is treated
// exactly like a missing header.
const TokenHeader = "Trails-Api-Key"

// accountIDKey is the context key under which RequireLogin stores the
// resolved account ID.
const accountIDKey = "account_id"

// RequireLogin returns an Echo middleware that resolves the caller's login
// token against the session store and injects the account ID into the
// request context. Requests without a valid token get a 401 before any
// handler or database work runs. Handlers read the ID via AccountID.
func RequireLogin(store *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(TokenHeader)
			token, err := uuid.Parse(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login token was not sent or was invalid"})
			}
			accountID, err := store.Resolve(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login token was not sent or was invalid"})
			}
			c.Set(accountIDKey, accountID)
			return next(c)
		}
	}
}

// AccountID returns the account ID stored by RequireLogin, or "" when the
// request did not pass through it.
func AccountID(c echo.Context) string {
	if v, ok := c.Get(accountIDKey).(string); ok {
		return v
	}
	return ""
}
