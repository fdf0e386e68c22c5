package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/yagapon/oshirase/internal/logger"
)

func TestSecretMiddleware(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		secret string
		header string
		want   int
	}{
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"wrong secret", "s3cret", "Bearer nope", http.StatusForbidden},
		{"no token", "s3cret", "Bearer", http.StatusForbidden},
		{"ok", "s3cret", "Bearer s3cret", http.StatusOK},
		{"empty secret rejects", "", "Bearer ", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			e.Use(SecretMiddleware(logger.Discard(), tc.secret, nil))
			e.POST("/notify", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

			req := httptest.NewRequest(http.MethodPost, "/notify", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestSecretMiddlewareSkipper(t *testing.T) {
	t.Parallel()

	e := echo.New()
	e.Use(SecretMiddleware(logger.Discard(), "x", func(c echo.Context) bool {
		return c.Request().URL.Path == "/health"
	}))
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
