// Package adapterutil provides shared utilities for channel adapters.
package adapterutil

import (
	"log/slog"
	"strings"

	"github.com/yagapon/oshirase/internal/channel"
)

// SummarizeText returns a truncated preview of the text, limited to 120 characters.
func SummarizeText(text string) string {
	value := strings.TrimSpace(text)
	if value == "" {
		return ""
	}
	const limit = 120
	if len([]rune(value)) <= limit {
		return value
	}
	return string([]rune(value)[:limit]) + "..."
}

// MessageAttrs describes an outbound message for a log line.
func MessageAttrs(ch channel.Channel, msg channel.Message) []any {
	return []any{
		slog.String("channel_id", ch.ID),
		slog.String("channel_kind", string(ch.Kind)),
		slog.Int("blocks", len(msg.Blocks)),
		slog.String("preview", SummarizeText(msg.Text)),
	}
}
