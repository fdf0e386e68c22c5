package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yagapon/oshirase/internal/auth"
	"github.com/yagapon/oshirase/internal/channel"
	"github.com/yagapon/oshirase/internal/notification"
	"github.com/yagapon/oshirase/internal/notifier"
)

// Dispatcher delivers a validated payload.
type Dispatcher interface {
	Dispatch(ctx context.Context, p notification.Payload) (notifier.Result, error)
}

// NotifyResponse is the success body of POST /notify.
type NotifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NotifyHandler serves POST /notify behind the shared secret.
type NotifyHandler struct {
	dispatcher Dispatcher
	ready      channel.ReadyChecker
	secret     string
	logger     *slog.Logger
}

// NewNotifyHandler creates the notify handler.
func NewNotifyHandler(log *slog.Logger, dispatcher Dispatcher, ready channel.ReadyChecker, secret string) *NotifyHandler {
	return &NotifyHandler{
		dispatcher: dispatcher,
		ready:      ready,
		secret:     secret,
		logger:     log.With(slog.String("handler", "notify")),
	}
}

// Register mounts POST /notify with the secret middleware.
func (h *NotifyHandler) Register(e *echo.Echo) {
	e.POST("/notify", h.Notify, auth.SecretMiddleware(h.logger, h.secret, nil))
}

// Notify decodes, validates and dispatches one payload.
func (h *NotifyHandler) Notify(c echo.Context) error {
	if h.ready == nil || !h.ready.Ready() {
		h.logger.Warn("notify received before the chat client is ready")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Discord bot is not ready yet")
	}

	var p notification.Payload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, bindErrorMessage(err))
	}
	if err := p.Validate(); err != nil {
		h.logger.Warn("invalid payload", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.dispatcher.Dispatch(c.Request().Context(), p)
	if err != nil {
		h.logger.Error("dispatch failed",
			slog.String("dispatch_id", res.ID),
			slog.String("type", string(p.Type)),
			slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, internalErrorMessage).SetInternal(err)
	}
	return c.JSON(http.StatusOK, NotifyResponse{Success: true, Message: "Notification sent"})
}

func bindErrorMessage(err error) string {
	var ve *notification.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if s, ok := he.Message.(string); ok {
			return s
		}
	}
	return err.Error()
}
