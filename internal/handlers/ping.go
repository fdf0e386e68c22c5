package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yagapon/oshirase/internal/channel"
)

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status string `json:"status"`
	Bot    string `json:"bot"`
}

// PingHandler serves /ping for liveness and /health for chat readiness.
type PingHandler struct {
	ready  channel.ReadyChecker
	logger *slog.Logger
}

// NewPingHandler creates a ping handler. A nil ready checker reports not ready.
func NewPingHandler(log *slog.Logger, ready channel.ReadyChecker) *PingHandler {
	return &PingHandler{ready: ready, logger: log.With(slog.String("handler", "ping"))}
}

// Register mounts GET /ping and GET, HEAD /health on the Echo instance.
func (h *PingHandler) Register(e *echo.Echo) {
	e.GET("/ping", h.Ping)
	e.GET("/health", h.Health)
	e.HEAD("/health", h.HealthHead)
}

// Ping returns 200 JSON {"status":"ok"}.
func (h *PingHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Health returns 200 when the chat client is ready, otherwise 503.
func (h *PingHandler) Health(c echo.Context) error {
	if !h.isReady() {
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Bot: "not ready"})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Bot: "ready"})
}

// HealthHead is Health without a body.
func (h *PingHandler) HealthHead(c echo.Context) error {
	if !h.isReady() {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}

func (h *PingHandler) isReady() bool {
	return h.ready != nil && h.ready.Ready()
}
