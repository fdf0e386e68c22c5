package render

import (
	"strings"

	"github.com/yagapon/oshirase/internal/channel"
	"github.com/yagapon/oshirase/internal/notification"
	"github.com/yagapon/oshirase/internal/timefmt"
)

// Daily renders the reminder sent the day before an event.
func Daily(s notification.Schedule, roleID string, rnd Rand) channel.Message {
	body := strings.TrimSpace(scheduleBody(s, rnd))
	return channel.Message{
		Text: mentionLine(roleID) + "# 明日は" + s.Title + "だぽん！" + Face,
		Blocks: []channel.Block{{
			Description: body,
			Color:       accent(s.Department),
			Footer:      footer(s.Department, s.Section),
		}},
	}
}

// Announcement renders the older single-message form used by the notify
// command: the heading lives inside the block and the text is only the mention.
func Announcement(s notification.Schedule, roleID string, rnd Rand) channel.Message {
	body := strings.TrimSpace("## 明日は" + s.Title + "だぽん！" + Face + scheduleBody(s, rnd))
	return channel.Message{
		Text: mention(roleID),
		Blocks: []channel.Block{{
			Description: body,
			Color:       accent(s.Department),
			Footer:      footer(s.Department, s.Section),
		}},
	}
}

func scheduleBody(s notification.Schedule, rnd Rand) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(s.Description)
	b.WriteString("\n\n📍  ")
	b.WriteString(orUndecided(s.Location))
	b.WriteString("\n🗓️  ")
	b.WriteString(timefmt.DateTime(s.StartTime, s.EndTime))
	b.WriteString("\n\n### ")
	b.WriteString(Flavor(rnd))
	return b.String()
}
