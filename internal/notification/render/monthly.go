package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yagapon/oshirase/internal/channel"
	"github.com/yagapon/oshirase/internal/notification"
	"github.com/yagapon/oshirase/internal/timefmt"
)

// sameDateIndent lines up follow-up entries under the previous date.
const sameDateIndent = "　　　　　 "

// Monthly renders a department's schedule for one month.
func Monthly(m notification.MonthlyData, roleID string) channel.Message {
	description := fmt.Sprintf("%sの%sのスケジュールをお知らせするぽん！\n\n全%d件の予定があるぽん！\n\n%s",
		m.Department, m.Month, len(m.Schedules), MonthlyList(m.Schedules))

	return channel.Message{
		Text: mentionLine(roleID) + "# " + m.Department + " " + m.Month + "のスケジュールだぽん！" + Face,
		Blocks: []channel.Block{{
			Title:       "📅 " + m.Month + "の予定",
			Description: description,
			Color:       accent(m.Department),
			Footer:      m.Department,
		}},
	}
}

// MonthlyList sorts schedules by start time and groups entries sharing a date.
func MonthlyList(schedules []notification.Schedule) string {
	lines := make([]string, 0, len(schedules))
	lastDate := ""
	for i, s := range SortByStart(schedules) {
		entry := "**" + s.Title + "**"
		if s.Section != "" {
			entry += "（" + s.Section + "）"
		}

		date := timefmt.Undecided
		if d, ok := timefmt.ShortDate(s.StartTime); ok {
			date = d + " "
		}
		if date == lastDate {
			lines = append(lines, sameDateIndent+entry)
			continue
		}
		lastDate = date
		prefix := ""
		if i > 0 {
			prefix = "\n"
		}
		lines = append(lines, prefix+date+" 　"+entry)
	}
	return strings.Join(lines, "\n")
}

// SortByStart returns a copy ordered by start time. Entries without a usable
// start time go last and keep their input order.
func SortByStart(schedules []notification.Schedule) []notification.Schedule {
	sorted := slices.Clone(schedules)
	slices.SortStableFunc(sorted, func(a, b notification.Schedule) int {
		ta, okA := timefmt.Instant(a.StartTime)
		tb, okB := timefmt.Instant(b.StartTime)
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return 1
		case !okB:
			return -1
		default:
			return ta.Compare(tb)
		}
	})
	return sorted
}
