package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/yagapon/oshirase/internal/channel"
	"github.com/yagapon/oshirase/internal/channel/adapters/discord"
	"github.com/yagapon/oshirase/internal/channel/adapters/slack"
	"github.com/yagapon/oshirase/internal/channel/route"
	"github.com/yagapon/oshirase/internal/commands"
	"github.com/yagapon/oshirase/internal/config"
	"github.com/yagapon/oshirase/internal/department"
	"github.com/yagapon/oshirase/internal/handlers"
	"github.com/yagapon/oshirase/internal/logger"
	"github.com/yagapon/oshirase/internal/notifier"
	"github.com/yagapon/oshirase/internal/server"
	"github.com/yagapon/oshirase/internal/trigger"
	"github.com/yagapon/oshirase/internal/version"
)

const (
	limiterSweepSpec = "@every 10m"
	limiterIdleAge   = 30 * time.Minute
)

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	app := fx.New(
		fx.Supply(cfg),
		fx.Provide(
			provideLogger,
			provideDirectory,
			provideResolver,
			provideDiscord,
			provideChatClient,
			provideDispatcher,
			provideResponder,
			provideCommandRouter,

			provideServerHandler(providePingHandler),
			provideServerHandler(provideNotifyHandler),
			provideServerHandler(handlers.NewMetricsHandler),

			provideServer,
		),
		fx.Invoke(
			startServer,
			startDiscord,
			startHousekeeping,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	)
	if err := app.Err(); err != nil {
		return err
	}
	app.Run()
	return nil
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	for _, w := range cfg.Warnings {
		logger.L.Warn("config", slog.String("warning", w))
	}
	return logger.L
}

func provideDirectory(cfg config.Config) *department.Directory {
	return department.NewDirectory(cfg.Departments.Channels, cfg.Departments.Roles)
}

func provideResolver(cfg config.Config, dir *department.Directory) *route.Resolver {
	return route.NewResolver(dir, cfg.Notify.DefaultChannelID)
}

// provideDiscord returns nil when no Discord token is configured (Slack only).
func provideDiscord(log *slog.Logger, cfg config.Config) (*discord.Adapter, error) {
	if cfg.Discord.Token == "" {
		return nil, nil
	}
	return discord.New(log, discord.Config{
		BotToken:      cfg.Discord.Token,
		ApplicationID: cfg.Discord.ClientID,
		GuildID:       cfg.Discord.GuildID,
	})
}

type chatClientResult struct {
	fx.Out

	Client channel.Client
	Ready  channel.ReadyChecker
}

func provideChatClient(log *slog.Logger, cfg config.Config, dc *discord.Adapter) (chatClientResult, error) {
	platform, ok := channel.ParseChannelType(cfg.Platform)
	if !ok {
		return chatClientResult{}, fmt.Errorf("unsupported chat platform %q", cfg.Platform)
	}
	switch platform {
	case channel.ChannelTypeSlack:
		sc, err := slack.New(log, slack.Config{BotToken: cfg.Slack.BotToken})
		if err != nil {
			return chatClientResult{}, err
		}
		return chatClientResult{Client: sc, Ready: sc}, nil
	default:
		if dc == nil {
			return chatClientResult{}, errors.New("discord platform selected without a token")
		}
		return chatClientResult{Client: dc, Ready: dc}, nil
	}
}

func provideDispatcher(log *slog.Logger, client channel.Client, resolver *route.Resolver) *notifier.Dispatcher {
	return notifier.NewDispatcher(log, client, resolver, nil)
}

func provideResponder(log *slog.Logger, cfg config.Config) (*trigger.Responder, error) {
	defs := trigger.Defaults()
	if cfg.Triggers.File != "" {
		loaded, err := trigger.LoadFile(cfg.Triggers.File)
		if err != nil {
			return nil, fmt.Errorf("load triggers: %w", err)
		}
		defs = loaded
		log.Info("triggers loaded", slog.String("file", cfg.Triggers.File), slog.Int("count", len(defs)))
	}
	return trigger.NewResponder(log, trigger.NewMatcher(defs), cfg.Triggers.RepliesPerMinute), nil
}

func provideCommandRouter(log *slog.Logger, cfg config.Config, dispatcher *notifier.Dispatcher) *commands.Router {
	return commands.NewRouter(log, dispatcher, commands.NewMonthlyClient(cfg.Monthly.URL, nil))
}

func providePingHandler(log *slog.Logger, ready channel.ReadyChecker) *handlers.PingHandler {
	return handlers.NewPingHandler(log, ready)
}

func provideNotifyHandler(log *slog.Logger, cfg config.Config, dispatcher *notifier.Dispatcher, ready channel.ReadyChecker) *handlers.NotifyHandler {
	return handlers.NewNotifyHandler(log, dispatcher, ready, cfg.Notify.Secret)
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, params.Config.Server.Addr(), handlers.ErrorHandler(params.Logger), params.ServerHandlers...)
}

// startServer is invoked first so the HTTP listener comes up before the
// gateway login.
func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	logger.Info("starting yagapon", version.Get().Attrs()...)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}

// startDiscord attaches the trigger responder and slash commands, then logs in.
func startDiscord(lc fx.Lifecycle, logger *slog.Logger, dc *discord.Adapter, responder *trigger.Responder, router *commands.Router) {
	if dc == nil {
		logger.Info("discord disabled: no token configured")
		return
	}
	dc.HandleInbound(responder.Respond)
	router.Attach(dc.Session())
	logger.Info("discord handlers attached",
		slog.Any("commands", router.Names()),
		slog.String("guild_id", dc.Config().GuildID))

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return dc.Open()
		},
		OnStop: func(ctx context.Context) error {
			if err := dc.Close(); err != nil {
				return fmt.Errorf("close discord: %w", err)
			}
			return nil
		},
	})
}

// startHousekeeping periodically drops idle per-channel reply limiters.
func startHousekeeping(lc fx.Lifecycle, logger *slog.Logger, responder *trigger.Responder) error {
	c := cron.New()
	if _, err := c.AddFunc(limiterSweepSpec, func() {
		if n := responder.EvictIdle(limiterIdleAge); n > 0 {
			logger.Debug("evicted idle reply limiters", slog.Int("count", n))
		}
	}); err != nil {
		return fmt.Errorf("schedule limiter sweep: %w", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			select {
			case <-c.Stop().Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return nil
}
