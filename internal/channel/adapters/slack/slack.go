// Package slack implements the chat client on top of the Slack Web API. It
// is outbound only: notifications can be relayed to Slack, triggers stay on Discord.
package slack

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/slack-go/slack"

	"github.com/yagapon/oshirase/internal/channel"
	"github.com/yagapon/oshirase/internal/channel/adapters/adapterutil"
	"github.com/yagapon/oshirase/internal/logger"
)

type Config struct {
	BotToken string
	// APIURL overrides the Web API base URL; tests point it at a local server.
	APIURL string
}

type Adapter struct {
	client *slack.Client
	logger *slog.Logger
}

func New(log *slog.Logger, cfg Config) (*Adapter, error) {
	token := strings.TrimSpace(cfg.BotToken)
	if token == "" {
		return nil, fmt.Errorf("slack bot token is required")
	}
	if log == nil {
		log = logger.L
	}
	var opts []slack.Option
	if cfg.APIURL != "" {
		opts = append(opts, slack.OptionAPIURL(cfg.APIURL))
	}
	return &Adapter{
		client: slack.New(token, opts...),
		logger: log.With(slog.String("adapter", "slack")),
	}, nil
}

// Ready implements channel.ReadyChecker. The Web API has no session to wait for.
func (a *Adapter) Ready() bool { return true }

func (a *Adapter) FetchChannel(ctx context.Context, id string) (channel.Channel, error) {
	info, err := a.client.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{ChannelID: id})
	if err != nil {
		return channel.Channel{}, fmt.Errorf("fetch slack channel %s: %w", id, err)
	}
	return toChannel(info), nil
}

func (a *Adapter) IsTextCapable(ch channel.Channel) bool {
	switch ch.Kind {
	case channel.KindText, channel.KindDirect:
		return !ch.Archived
	default:
		return false
	}
}

// Send posts the heading as text and each block as a coloured attachment.
func (a *Adapter) Send(ctx context.Context, ch channel.Channel, msg channel.Message) error {
	if msg.IsEmpty() {
		return fmt.Errorf("slack message is empty")
	}
	opts := []slack.MsgOption{slack.MsgOptionText(convertMarkup(msg.Text), false)}
	if attachments := toAttachments(msg.Blocks); len(attachments) > 0 {
		opts = append(opts, slack.MsgOptionAttachments(attachments...))
	}
	if _, _, err := a.client.PostMessageContext(ctx, ch.ID, opts...); err != nil {
		return fmt.Errorf("send slack message to %s: %w", ch.ID, err)
	}
	a.logger.Debug("message sent", adapterutil.MessageAttrs(ch, msg)...)
	return nil
}

func toChannel(info *slack.Channel) channel.Channel {
	if info == nil {
		return channel.Channel{Kind: channel.KindUnknown}
	}
	kind := channel.KindText
	if info.IsIM || info.IsMpIM {
		kind = channel.KindDirect
	}
	return channel.Channel{
		ID:       info.ID,
		Name:     info.Name,
		Kind:     kind,
		Archived: info.IsArchived,
	}
}

func toAttachments(blocks []channel.Block) []slack.Attachment {
	out := make([]slack.Attachment, 0, len(blocks))
	for _, b := range blocks {
		text := convertMarkup(b.Description)
		out = append(out, slack.Attachment{
			Color:    fmt.Sprintf("#%06x", b.Color),
			Title:    b.Title,
			Text:     text,
			Footer:   b.Footer,
			Fallback: adapterutil.SummarizeText(firstLine(b.Title, text)),
		})
	}
	return out
}

var (
	roleMention  = regexp.MustCompile(`<@&(\d+)>`)
	customEmoji  = regexp.MustCompile(`<a?:([A-Za-z0-9_]+):\d+>`)
	headingLine  = regexp.MustCompile(`(?m)^#{1,3} (.+)$`)
	boldMarkdown = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// convertMarkup rewrites Discord markup into Slack mrkdwn: role mentions
// become user group mentions, custom emoji become :name:, headings and
// **bold** become *bold*.
func convertMarkup(text string) string {
	text = roleMention.ReplaceAllString(text, "<!subteam^$1>")
	text = customEmoji.ReplaceAllString(text, ":$1:")
	text = headingLine.ReplaceAllString(text, "*$1*")
	return boldMarkdown.ReplaceAllString(text, "*$1*")
}

func firstLine(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			line, _, _ := strings.Cut(v, "\n")
			return line
		}
	}
	return ""
}
