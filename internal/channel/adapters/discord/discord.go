// Package discord implements the chat client on top of the Discord gateway and REST API.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"

	"github.com/yagapon/oshirase/internal/channel"
	"github.com/yagapon/oshirase/internal/channel/adapters/adapterutil"
	"github.com/yagapon/oshirase/internal/logger"
)

// Adapter owns the Discord session. It reports ready once the gateway has
// delivered the READY event.
type Adapter struct {
	session *discordgo.Session
	cfg     Config
	logger  *slog.Logger
	ready   atomic.Bool
	botID   atomic.Value
}

// New creates an adapter; the gateway is not opened until Open.
func New(log *slog.Logger, cfg Config) (*Adapter, error) {
	cfg, err := parseConfig(cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.L
	}
	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	a := &Adapter{
		session: session,
		cfg:     cfg,
		logger:  log.With(slog.String("adapter", "discord")),
	}
	a.botID.Store("")
	session.AddHandler(a.onReady)
	session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) {
		a.logger.Warn("gateway disconnected")
	})
	return a, nil
}

// Session exposes the underlying session for slash command handling.
func (a *Adapter) Session() *discordgo.Session {
	return a.session
}

func (a *Adapter) Config() Config {
	return a.cfg
}

// Ready implements channel.ReadyChecker.
func (a *Adapter) Ready() bool {
	return a.ready.Load()
}

// BotID is the logged-in bot user id, empty before READY.
func (a *Adapter) BotID() string {
	id, _ := a.botID.Load().(string)
	return id
}

func (a *Adapter) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	if r.User != nil {
		a.botID.Store(r.User.ID)
		a.logger.Info("discord ready", slog.String("user", r.User.Username), slog.String("user_id", r.User.ID))
	}
	a.ready.Store(true)
}

// Open connects to the gateway.
func (a *Adapter) Open() error {
	a.logger.Info("logging in to discord")
	if err := a.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	return nil
}

// Close disconnects from the gateway.
func (a *Adapter) Close() error {
	a.ready.Store(false)
	return a.session.Close()
}

// FetchChannel looks up a channel over REST.
func (a *Adapter) FetchChannel(ctx context.Context, id string) (channel.Channel, error) {
	if id == "" {
		return channel.Channel{}, fmt.Errorf("discord channel id is empty")
	}
	ch, err := a.session.Channel(id, discordgo.WithContext(ctx))
	if err != nil {
		return channel.Channel{}, fmt.Errorf("fetch discord channel %s: %w", id, err)
	}
	return toChannel(ch), nil
}

// IsTextCapable reports whether messages can be posted to ch.
func (a *Adapter) IsTextCapable(ch channel.Channel) bool {
	return isTextKind(ch)
}

// Send posts the heading as content and each block as an embed.
func (a *Adapter) Send(ctx context.Context, ch channel.Channel, msg channel.Message) error {
	if msg.IsEmpty() {
		return fmt.Errorf("discord message is empty")
	}
	_, err := a.session.ChannelMessageSendComplex(ch.ID, toMessageSend(msg), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send discord message to %s: %w", ch.ID, err)
	}
	a.logger.Debug("message sent", adapterutil.MessageAttrs(ch, msg)...)
	return nil
}

// HandleInbound routes MESSAGE_CREATE events through handler and posts any
// reply as a reply to the original message.
func (a *Adapter) HandleInbound(handler channel.InboundHandler) {
	a.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		msg, ok := toInbound(a.BotID(), m)
		if !ok {
			return
		}
		ctx := logger.WithContext(context.Background(), a.logger.With(
			slog.String("channel_id", msg.ChannelID),
			slog.String("message_id", msg.ID)))
		reply, ok := handler(ctx, msg)
		if !ok || reply == "" {
			return
		}
		if _, err := s.ChannelMessageSendReply(m.ChannelID, channel.Truncate(reply, maxContentLength), m.Reference()); err != nil {
			a.logger.Error("reply failed", slog.String("channel_id", m.ChannelID), slog.Any("error", err))
		}
	})
}
