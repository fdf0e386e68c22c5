// Package render turns notification payloads into chat messages. Every
// function here is pure apart from the flavor line, whose randomness comes
// from an injected Rand.
package render

import (
	"math/rand/v2"

	"github.com/yagapon/oshirase/internal/channel"
	"github.com/yagapon/oshirase/internal/department"
	"github.com/yagapon/oshirase/internal/notification"
	"github.com/yagapon/oshirase/internal/timefmt"
)

// Face is the mascot emoji appended to every heading.
const Face = "<:face:1439173874368381011>"

var flavorEmojis = []string{
	"<:front_sq:1439180903007125514>",
	"<:front_face:1439180911685013625>",
}

var flavorPhrases = []string{
	"楽しみだぽん！！",
	"みんな集まるぽん！",
	"忘れないでぽん！",
	"待ってるぽん！",
	"準備しておくぽん！",
	"よろしくぽん！",
	"ワクワクするぽん！",
	"元気に参加するぽん！",
	"ここが頑張り時だぽん！",
}

// Rand picks an index in [0, n).
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand draws from the process-wide source and is safe for concurrent use.
var DefaultRand Rand = globalRand{}

// Strategy renders one payload for a resolved mention role.
type Strategy func(roleID string) channel.Message

// For selects the strategy for p. It reports false for an unknown type or a
// payload whose data does not match its type.
func For(p notification.Payload, rnd Rand) (Strategy, bool) {
	if rnd == nil {
		rnd = DefaultRand
	}
	switch p.Type {
	case notification.TypeDaily:
		if p.Daily == nil {
			return nil, false
		}
		s := *p.Daily
		return func(roleID string) channel.Message { return Daily(s, roleID, rnd) }, true
	case notification.TypeMonthly:
		if p.Monthly == nil {
			return nil, false
		}
		m := *p.Monthly
		return func(roleID string) channel.Message { return Monthly(m, roleID) }, true
	case notification.TypeSchedule:
		if p.Schedule == nil {
			return nil, false
		}
		c := *p.Schedule
		return func(roleID string) channel.Message { return ScheduleChange(c, roleID) }, true
	default:
		return nil, false
	}
}

// Flavor returns the closing decorative line; emoji and phrase are drawn independently.
func Flavor(rnd Rand) string {
	if rnd == nil {
		rnd = DefaultRand
	}
	return flavorEmojis[rnd.IntN(len(flavorEmojis))] + flavorPhrases[rnd.IntN(len(flavorPhrases))]
}

func mention(roleID string) string {
	if roleID == "" {
		return ""
	}
	return "<@&" + roleID + ">"
}

// mentionLine is the role mention followed by a newline, or nothing.
func mentionLine(roleID string) string {
	if m := mention(roleID); m != "" {
		return m + "\n"
	}
	return ""
}

func footer(dept, section string) string {
	if dept == "" {
		return ""
	}
	if section != "" {
		return dept + "（" + section + "）"
	}
	return dept
}

func orUndecided(value string) string {
	if value == "" {
		return timefmt.Undecided
	}
	return value
}

func accent(dept string) int {
	return department.Color(dept)
}
