// Package notifier delivers notification payloads to the chat platform.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yagapon/oshirase/internal/channel"
	"github.com/yagapon/oshirase/internal/channel/adapters/adapterutil"
	"github.com/yagapon/oshirase/internal/channel/route"
	"github.com/yagapon/oshirase/internal/logger"
	"github.com/yagapon/oshirase/internal/notification"
	"github.com/yagapon/oshirase/internal/notification/render"
)

var (
	ErrUnknownType        = errors.New("unknown notification type")
	ErrChannelUnavailable = errors.New("destination channel unavailable")
	ErrSendFailed         = errors.New("send failed")
)

// Resolver decides the destination for a department.
type Resolver interface {
	Resolve(explicitChannelID, department string) (route.Destination, error)
}

// Result describes one dispatch. Err is nil on success.
type Result struct {
	ID         string
	Type       notification.Type
	Department string
	ChannelID  string
	RoleID     string
	Err        error
}

// OK reports whether the notification was sent.
func (r Result) OK() bool { return r.Err == nil }

// Dispatcher renders payloads and sends them through a chat client. Each
// call is independent: one attempt, no retry.
type Dispatcher struct {
	client   channel.Client
	resolver Resolver
	rand     render.Rand
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher. A nil rnd uses render.DefaultRand.
func NewDispatcher(log *slog.Logger, client channel.Client, resolver Resolver, rnd render.Rand) *Dispatcher {
	if log == nil {
		log = logger.L
	}
	if rnd == nil {
		rnd = render.DefaultRand
	}
	return &Dispatcher{
		client:   client,
		resolver: resolver,
		rand:     rnd,
		logger:   log.With(slog.String("component", "notifier")),
	}
}

// Dispatch selects the strategy for p, resolves the destination, checks the
// channel and sends. Failures, including panics, come back as the error and
// in Result.Err.
func (d *Dispatcher) Dispatch(ctx context.Context, p notification.Payload) (res Result, err error) {
	res = Result{ID: uuid.NewString(), Type: p.Type}
	started := time.Now()
	log := d.logger.With(slog.String("dispatch_id", res.ID), slog.String("type", string(p.Type)))
	ctx = logger.WithContext(ctx, log)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dispatch panicked: %v", r)
			res.Err = err
		}
		dispatchTotal.WithLabelValues(string(p.Type), outcomeOf(err)).Inc()
		dispatchDuration.WithLabelValues(string(p.Type)).Observe(time.Since(started).Seconds())
		if err != nil {
			log.Error("notification failed",
				slog.String("department", res.Department),
				slog.String("channel_id", res.ChannelID),
				slog.Any("error", err))
		}
	}()

	strategy, ok := render.For(p, d.rand)
	if !ok {
		res.Err = fmt.Errorf("%w: %q", ErrUnknownType, p.Type)
		return res, res.Err
	}
	res.Department = p.Department()

	dest, err := d.resolver.Resolve(p.ChannelID, res.Department)
	if err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrChannelUnavailable, err)
		return res, res.Err
	}
	res.ChannelID, res.RoleID = dest.ChannelID, dest.RoleID

	msg, err := d.deliver(ctx, dest, func() channel.Message { return strategy(dest.RoleID) })
	if err != nil {
		res.Err = err
		return res, err
	}

	log.Info("notification sent",
		slog.String("department", res.Department),
		slog.String("title", p.Title()),
		slog.String("preview", adapterutil.SummarizeText(msg.Text)),
		slog.String("channel_id", res.ChannelID))
	return res, nil
}

// Announce sends the single-block announcement used by the notify command.
func (d *Dispatcher) Announce(ctx context.Context, s notification.Schedule) (Result, error) {
	res := Result{ID: uuid.NewString(), Type: notification.TypeDaily, Department: s.Department}
	dest, err := d.resolver.Resolve("", s.Department)
	if err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrChannelUnavailable, err)
		return res, res.Err
	}
	res.ChannelID, res.RoleID = dest.ChannelID, dest.RoleID

	if _, err := d.deliver(ctx, dest, func() channel.Message {
		return render.Announcement(s, dest.RoleID, d.rand)
	}); err != nil {
		res.Err = err
		return res, err
	}
	d.logger.Info("announcement sent",
		slog.String("dispatch_id", res.ID),
		slog.String("department", s.Department),
		slog.String("channel_id", res.ChannelID))
	return res, nil
}

// deliver fetches the channel, renders and sends. Nothing is sent unless the
// channel exists and accepts text.
func (d *Dispatcher) deliver(ctx context.Context, dest route.Destination, build func() channel.Message) (channel.Message, error) {
	ch, err := d.client.FetchChannel(ctx, dest.ChannelID)
	if err != nil {
		return channel.Message{}, fmt.Errorf("%w: fetch %s: %w", ErrChannelUnavailable, dest.ChannelID, err)
	}
	if !d.client.IsTextCapable(ch) {
		return channel.Message{}, fmt.Errorf("%w: channel %s (%s) is not a text channel", ErrChannelUnavailable, dest.ChannelID, ch.Kind)
	}

	msg := build()
	if err := d.client.Send(ctx, ch, msg); err != nil {
		return msg, fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	logger.FromContext(ctx).Debug("message delivered", adapterutil.MessageAttrs(ch, msg)...)
	return msg, nil
}
