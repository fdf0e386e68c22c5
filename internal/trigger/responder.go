package trigger

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/yagapon/oshirase/internal/channel"
	"github.com/yagapon/oshirase/internal/logger"
)

const (
	PingCommand = "!ping"
	PingReply   = "Pong!"

	BareMentionReply  = "呼んだぽん？"
	MentionFailReply  = "フォーマットが見つかりませんでした。入力形式を確認してください。"
	IncludesFailReply = "なにを言いたいのかよくわからないぽん..."

	DefaultRepliesPerMinute = 30
)

var mentionPattern = regexp.MustCompile(`<@[!&]?\d+>`)

// Reply is the outcome of matching one message.
type Reply struct {
	TriggerID string
	Text      string
	Extracted bool
}

// Responder decides replies for inbound messages and rate limits them per channel.
type Responder struct {
	matcher *Matcher
	limiter *channelLimiter
	logger  *slog.Logger
}

// NewResponder creates a responder. repliesPerMinute <= 0 uses the default.
func NewResponder(log *slog.Logger, matcher *Matcher, repliesPerMinute int) *Responder {
	if log == nil {
		log = logger.L
	}
	if repliesPerMinute <= 0 {
		repliesPerMinute = DefaultRepliesPerMinute
	}
	return &Responder{
		matcher: matcher,
		limiter: newChannelLimiter(repliesPerMinute),
		logger:  log.With(slog.String("component", "trigger")),
	}
}

// Respond implements channel.InboundHandler.
func (r *Responder) Respond(ctx context.Context, msg channel.InboundMessage) (string, bool) {
	reply, ok := r.Match(msg)
	if !ok {
		return "", false
	}
	if !r.limiter.Allow(msg.ChannelID) {
		r.logger.Warn("trigger reply rate limited",
			slog.String("trigger", reply.TriggerID),
			slog.String("channel_id", msg.ChannelID))
		return "", false
	}
	triggerReplies.WithLabelValues(reply.TriggerID).Inc()
	logger.FromContext(ctx).Info("trigger replied",
		slog.String("trigger", reply.TriggerID),
		slog.String("channel_id", msg.ChannelID),
		slog.Bool("extracted", reply.Extracted))
	return reply.Text, true
}

// Match picks the reply for msg without touching the rate limiter.
func (r *Responder) Match(msg channel.InboundMessage) (Reply, bool) {
	if msg.Sender.Bot {
		return Reply{}, false
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return Reply{}, false
	}
	if text == PingCommand {
		return Reply{TriggerID: "ping", Text: PingReply}, true
	}

	ctx := Context{ChannelID: msg.ChannelID}
	if msg.MentionsBot() {
		if reply, ok := r.matchMention(text, ctx); ok {
			return reply, true
		}
	}

	d, ok := r.matcher.FirstMatch(text, ctx)
	if !ok {
		return Reply{}, false
	}
	if d.EffectiveMode() == ModeIncludes && d.Extract != nil {
		out, extracted := d.Extract.Render(text, IncludesFailReply)
		return Reply{TriggerID: d.ID, Text: out, Extracted: extracted}, true
	}
	if d.Reply != "" {
		return Reply{TriggerID: d.ID, Text: d.Reply}, true
	}
	return Reply{}, false
}

func (r *Responder) matchMention(text string, ctx Context) (Reply, bool) {
	if strings.TrimSpace(mentionPattern.ReplaceAllString(text, "")) == "" {
		return Reply{TriggerID: "mention", Text: BareMentionReply}, true
	}
	d, ok := r.matcher.FirstMention(ctx)
	if !ok {
		return Reply{}, false
	}
	if d.Extract != nil {
		out, extracted := d.Extract.Render(text, MentionFailReply)
		return Reply{TriggerID: d.ID, Text: out, Extracted: extracted}, true
	}
	if d.Reply != "" {
		return Reply{TriggerID: d.ID, Text: d.Reply}, true
	}
	return Reply{}, false
}

// EvictIdle drops rate limiters for channels quiet for longer than maxAge.
func (r *Responder) EvictIdle(maxAge time.Duration) int {
	return r.limiter.Evict(maxAge)
}
