package render

import (
	"strings"

	"github.com/yagapon/oshirase/internal/channel"
	"github.com/yagapon/oshirase/internal/notification"
	"github.com/yagapon/oshirase/internal/timefmt"
)

var fieldLabels = map[string]string{
	"title":       "タイトル",
	"location":    "場所",
	"description": "説明",
	"detail":      "詳細",
	"startAt":     "開始時刻",
	"endAt":       "終了時刻",
	"department":  "局",
	"section":     "部署",
	"url":         "URL",
}

// FieldLabel returns the display label for a changed field.
func FieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}

// ScheduleChange renders an add, update or delete event.
func ScheduleChange(c notification.ScheduleChange, roleID string) channel.Message {
	switch c.Action {
	case notification.ActionAdd:
		return scheduleAdded(c, roleID)
	case notification.ActionUpdate:
		return scheduleUpdated(c, roleID)
	default:
		return scheduleDeleted(c, roleID)
	}
}

func scheduleAdded(c notification.ScheduleChange, roleID string) channel.Message {
	heading := timefmt.MonthDay(c.StartAt) + "に" + c.Title + "が追加されたぽん！"
	return channel.Message{
		Text:   mentionLine(roleID) + "# " + heading + Face,
		Blocks: []channel.Block{scheduleBlock(c.Title+"(追加)", c.Snapshot, c.Action)},
	}
}

func scheduleUpdated(c notification.ScheduleChange, roleID string) channel.Message {
	eff := c.Effective()
	lines := []string{
		"# " + timefmt.MonthDay(eff.StartAt) + "の" + c.Title + "が変更されたぽん！" + Face,
		"**変更箇所**",
	}
	lines = append(lines, ChangeLines(c.ChangedDetails)...)
	return channel.Message{
		Text:   mentionLine(roleID) + strings.Join(lines, "\n"),
		Blocks: []channel.Block{scheduleBlock(eff.Title+"(変更後)", eff, c.Action)},
	}
}

func scheduleDeleted(c notification.ScheduleChange, roleID string) channel.Message {
	eff := c.Effective()
	var b strings.Builder
	b.WriteString(mentionLine(roleID))
	b.WriteString("# " + timefmt.MonthDay(eff.StartAt) + "の" + eff.Title + "が削除されたぽん！" + Face)
	if by := strings.TrimSpace(eff.UpdatedBy); by != "" {
		b.WriteString("\n削除者：" + by)
	}
	if reason := strings.TrimSpace(eff.Description); reason != "" {
		b.WriteString("\n削除理由：\n" + reason)
	}
	return channel.Message{Text: b.String()}
}

func scheduleBlock(title string, view notification.Snapshot, action notification.Action) channel.Block {
	var lines []string
	if body := firstNonEmpty(view.Detail, view.Description); body != "" {
		lines = append(lines, body, "")
	}
	lines = append(lines,
		"🗓️ "+timefmt.MonthDayTime(view.StartAt)+" ～ "+timefmt.Clock(view.EndAt),
		"📍 "+orUndecided(view.Location),
	)
	if view.URL != "" {
		lines = append(lines, "🔗 "+view.URL)
	}
	if view.UpdatedBy != "" {
		lines = append(lines, "👤 "+action.Label()+"者: "+view.UpdatedBy)
	}
	return channel.Block{
		Title:       title,
		Description: strings.Join(lines, "\n"),
		Color:       accent(view.Department),
		Footer:      footer(view.Department, view.Section),
	}
}

// ChangeLines renders one line (or block) per changed attribute.
func ChangeLines(details []notification.ChangeDetail) []string {
	out := make([]string, 0, len(details))
	for _, d := range details {
		label := d.Item
		if label == "" {
			label = FieldLabel(d.Field)
		}
		switch d.Field {
		case "startAt":
			out = append(out, "- "+label+"："+d.Before+"からを"+d.After+"からに変更")
		case "endAt":
			out = append(out, "- "+label+"："+d.Before+"までを"+d.After+"までに変更")
		case "detail", "description":
			out = append(out, "- "+label+"：\n  変更前:\n"+indent(d.Before, "  ")+"\n  変更後:\n"+indent(d.After, "  "))
		default:
			out = append(out, "- "+label+"："+d.Before+"→"+d.After)
		}
	}
	return out
}

func indent(value, prefix string) string {
	lines := strings.Split(strings.ReplaceAll(value, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
