// Package middleware provides the request-processing chain shared by the
// HTTP handlers: bearer-token authentication, response caching and rate
// limiting.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tradeloop/marketplace-api/internal/auth"
)

// principalKey is the context key under which the verified claims live for
// the duration of one request. They are never stored anywhere else.
const principalKey = "principal"

// JWTAuth returns middleware that authenticates requests via the
// Authorization header. A missing header, a forged token and an expired
// token all yield 401; expired tokens are logged apart from forged ones so
// operators can tell client clock drift from an attack.
func JWTAuth(codec *auth.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := codec.Verify(raw)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					c.Logger().Debugf("rejected expired token for %s", c.Path())
				} else {
					c.Logger().Debugf("rejected invalid token for %s: %v", c.Path(), err)
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(principalKey, claims)
			return next(c)
		}
	}
}

// Principal returns the authenticated claims attached by JWTAuth, or nil on
// routes that ran without it.
func Principal(c echo.Context) *auth.Claims {
	claims, _ := c.Get(principalKey).(*auth.Claims)
	return claims
}

// SetPrincipal attaches claims to the request context the way JWTAuth does.
// Handler tests use it to simulate an authenticated request.
func SetPrincipal(c echo.Context, claims *auth.Claims) {
	c.Set(principalKey, claims)
}
