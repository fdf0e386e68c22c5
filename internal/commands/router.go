package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/yagapon/oshirase/internal/logger"
	"github.com/yagapon/oshirase/internal/notification"
	"github.com/yagapon/oshirase/internal/notifier"
)

// FailureReply is shown when a command handler fails unexpectedly.
const FailureReply = "コマンドの実行中にエラーが発生しました。"

const pingPlaceholder = "Pinging..."

// Announcer sends a single schedule announcement.
type Announcer interface {
	Announce(ctx context.Context, s notification.Schedule) (notifier.Result, error)
}

// MonthlyRequester triggers the external monthly schedule post.
type MonthlyRequester interface {
	RequestMonthly(ctx context.Context, department, channelID string) error
}

// API is the subset of *discordgo.Session the router talks to.
type API interface {
	InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(i *discordgo.Interaction, edit *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(i *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	HeartbeatLatency() time.Duration
}

// Invocation is a slash command call reduced to what handlers need.
type Invocation struct {
	Name       string
	ChannelID  string
	UserID     string
	Options    map[string]string
	CreatedAt  time.Time
	APILatency time.Duration
}

// Option returns the trimmed string value of an option.
func (inv Invocation) Option(name string) string {
	return strings.TrimSpace(inv.Options[name])
}

// Response is what a handler wants shown.
type Response struct {
	Content string
	Embeds  []*discordgo.MessageEmbed
}

// replyMode is how the interaction is acknowledged before the handler runs.
type replyMode int

const (
	// replyDirect answers with the handler's response.
	replyDirect replyMode = iota
	// replyDeferred acknowledges first and edits in the response.
	replyDeferred
	// replyPlaceholder sends a visible placeholder and edits it.
	replyPlaceholder
)

type handlerFunc func(ctx context.Context, inv Invocation) (Response, error)

type route struct {
	mode      replyMode
	ephemeral bool
	handle    handlerFunc
}

// Router dispatches interactions to command handlers by name.
type Router struct {
	routes    map[string]route
	announcer Announcer
	monthly   MonthlyRequester
	now       func() time.Time
	logger    *slog.Logger
}

// NewRouter wires the five commands. A nil monthly requester makes /monthly
// report the missing URL.
func NewRouter(log *slog.Logger, announcer Announcer, monthly MonthlyRequester) *Router {
	if log == nil {
		log = logger.L
	}
	r := &Router{
		announcer: announcer,
		monthly:   monthly,
		now:       time.Now,
		logger:    log.With(slog.String("component", "commands")),
	}
	r.routes = map[string]route{
		NamePing:    {mode: replyPlaceholder, handle: r.ping},
		NameHelp:    {mode: replyDirect, ephemeral: true, handle: r.help},
		NameIntro:   {mode: replyDirect, handle: r.intro},
		NameNotify:  {mode: replyDeferred, ephemeral: true, handle: r.notify},
		NameMonthly: {mode: replyDeferred, ephemeral: true, handle: r.requestMonthly},
	}
	return r
}

// Names lists the commands the router answers.
func (r *Router) Names() []string {
	out := make([]string, 0, len(r.routes))
	for _, def := range Definitions() {
		if _, ok := r.routes[def.Name]; ok {
			out = append(out, def.Name)
		}
	}
	return out
}

// Attach registers the interaction handler on the session.
func (r *Router) Attach(s *discordgo.Session) {
	s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		r.Serve(context.Background(), s, ic.Interaction)
	})
}

// Serve answers one interaction. Only application commands are handled.
func (r *Router) Serve(ctx context.Context, api API, i *discordgo.Interaction) {
	if i == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	inv := invocationOf(i)
	inv.APILatency = api.HeartbeatLatency()
	log := r.logger.With(slog.String("command", inv.Name), slog.String("channel_id", inv.ChannelID))
	ctx = logger.WithContext(ctx, log)

	rt, ok := r.routes[inv.Name]
	if !ok {
		log.Warn("unknown command")
		return
	}

	acknowledged := false
	switch rt.mode {
	case replyDeferred:
		err := api.InteractionRespond(i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Flags: flags(rt.ephemeral)},
		})
		if err != nil {
			log.Error("defer reply failed", slog.Any("error", err))
			return
		}
		acknowledged = true
	case replyPlaceholder:
		err := api.InteractionRespond(i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Content: pingPlaceholder, Flags: flags(rt.ephemeral)},
		})
		if err != nil {
			log.Error("placeholder reply failed", slog.Any("error", err))
			return
		}
		acknowledged = true
	}

	resp, err := r.run(ctx, rt.handle, inv)
	if err != nil {
		log.Error("command failed", slog.Any("error", err))
		r.fail(api, i, acknowledged, log)
		return
	}

	if acknowledged {
		edit := &discordgo.WebhookEdit{Content: &resp.Content}
		if len(resp.Embeds) > 0 {
			edit.Embeds = &resp.Embeds
		}
		if _, err := api.InteractionResponseEdit(i, edit); err != nil {
			log.Error("edit reply failed", slog.Any("error", err))
		}
		return
	}
	err = api.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: resp.Content,
			Embeds:  resp.Embeds,
			Flags:   flags(rt.ephemeral),
		},
	})
	if err != nil {
		log.Error("reply failed", slog.Any("error", err))
	}
}

func (r *Router) run(ctx context.Context, h handlerFunc, inv Invocation) (resp Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("command panicked: %v", p)
		}
	}()
	return h(ctx, inv)
}

func (r *Router) fail(api API, i *discordgo.Interaction, acknowledged bool, log *slog.Logger) {
	var err error
	if acknowledged {
		_, err = api.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
			Content: FailureReply,
			Flags:   discordgo.MessageFlagsEphemeral,
		})
	} else {
		err = api.InteractionRespond(i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Content: FailureReply, Flags: discordgo.MessageFlagsEphemeral},
		})
	}
	if err != nil {
		log.Error("failure reply failed", slog.Any("error", err))
	}
}

func (r *Router) ping(_ context.Context, inv Invocation) (Response, error) {
	latency := r.now().Sub(inv.CreatedAt)
	if inv.CreatedAt.IsZero() || latency < 0 {
		latency = 0
	}
	return Response{Content: fmt.Sprintf("🏓 Pong!\n⏱️ レイテンシー: %dms\n💓 API レイテンシー: %dms",
		latency.Milliseconds(), inv.APILatency.Milliseconds())}, nil
}

func (r *Router) help(context.Context, Invocation) (Response, error) {
	return Response{Embeds: []*discordgo.MessageEmbed{helpEmbed(r.now())}}, nil
}

func (r *Router) intro(context.Context, Invocation) (Response, error) {
	return Response{Embeds: []*discordgo.MessageEmbed{introEmbed(r.now())}}, nil
}

func (r *Router) notify(ctx context.Context, inv Invocation) (Response, error) {
	s := scheduleFromOptions(inv)
	if r.announcer == nil {
		return Response{Content: "❌ 通知の送信に失敗しました: notifier is not configured"}, nil
	}
	if _, err := r.announcer.Announce(ctx, s); err != nil {
		return Response{Content: "❌ 通知の送信に失敗しました: " + err.Error()}, nil
	}
	dept := s.Department
	if dept == "" {
		dept = "全体"
	}
	return Response{Content: fmt.Sprintf("✅ 通知を送信しました！\n**タイトル**: %s\n**局**: %s", s.Title, dept)}, nil
}

func (r *Router) requestMonthly(ctx context.Context, inv Invocation) (Response, error) {
	dept := inv.Option(optMonthlyDepartment)
	var err error
	if r.monthly == nil {
		err = ErrMonthlyURLMissing
	} else {
		err = r.monthly.RequestMonthly(ctx, dept, inv.ChannelID)
	}
	if err != nil {
		logger.FromContext(ctx).Warn("monthly request failed", slog.String("department", dept), slog.Any("error", err))
		return Response{Content: "❌ エラーが発生しました: " + err.Error()}, nil
	}
	return Response{Content: fmt.Sprintf("✅ %sの月間予定取得リクエストを送信しました", dept)}, nil
}

// scheduleFromOptions builds the announcement. Location defaults to 未定.
func scheduleFromOptions(inv Invocation) notification.Schedule {
	location := inv.Option(optLocation)
	if location == "" {
		location = "未定"
	}
	return notification.Schedule{
		Title:       inv.Option(optTitle),
		Description: inv.Option(optDescription),
		Location:    location,
		Department:  inv.Option(optDepartment),
		Section:     inv.Option(optSection),
	}
}

func invocationOf(i *discordgo.Interaction) Invocation {
	data := i.ApplicationCommandData()
	inv := Invocation{
		Name:      data.Name,
		ChannelID: i.ChannelID,
		Options:   make(map[string]string, len(data.Options)),
	}
	for _, opt := range data.Options {
		if opt != nil && opt.Type == discordgo.ApplicationCommandOptionString {
			inv.Options[opt.Name] = opt.StringValue()
		}
	}
	switch {
	case i.Member != nil && i.Member.User != nil:
		inv.UserID = i.Member.User.ID
	case i.User != nil:
		inv.UserID = i.User.ID
	}
	if ts, err := discordgo.SnowflakeTimestamp(i.ID); err == nil {
		inv.CreatedAt = ts
	}
	return inv
}

func flags(ephemeral bool) discordgo.MessageFlags {
	if ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}
