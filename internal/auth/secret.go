// Package auth provides the shared-secret bearer check for the notify endpoint.
package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	MissingHeaderMessage = "Authorization header is missing"
	InvalidSecretMessage = "Invalid secret token"
)

// SecretMiddleware accepts requests whose Authorization header is
// "Bearer <secret>". A missing header is 401, any other value 403. An empty
// secret rejects every request. Requests for which skipper returns true pass.
func SecretMiddleware(log *slog.Logger, secret string, skipper middleware.Skipper) echo.MiddlewareFunc {
	if skipper == nil {
		skipper = middleware.DefaultSkipper
	}
	want := []byte(secret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				log.Warn("request without authorization header", slog.String("path", c.Path()))
				return echo.NewHTTPError(http.StatusUnauthorized, MissingHeaderMessage)
			}
			if len(want) == 0 || subtle.ConstantTimeCompare([]byte(bearerToken(header)), want) != 1 {
				log.Warn("request with invalid secret", slog.String("path", c.Path()))
				return echo.NewHTTPError(http.StatusForbidden, InvalidSecretMessage)
			}
			return next(c)
		}
	}
}

// bearerToken returns the second space-separated word of the header.
func bearerToken(header string) string {
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}
