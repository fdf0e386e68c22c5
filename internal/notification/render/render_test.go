package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yagapon/oshirase/internal/department"
	"github.com/yagapon/oshirase/internal/notification"
	"github.com/yagapon/oshirase/internal/timefmt"
)

// fixedRand always returns the same index.
type fixedRand int

func (r fixedRand) IntN(n int) int { return int(r) % n }

func TestDailyMessage(t *testing.T) {
	t.Parallel()

	s := notification.Schedule{
		Title:       "全体会議",
		Description: "議題は後日共有",
		StartTime:   timefmt.ParseTimestamp("2025-05-01T10:00:00+09:00"),
		EndTime:     timefmt.ParseTimestamp("2025-05-01T12:00:00+09:00"),
		Department:  "IT局",
		Section:     "開発部",
	}
	msg := Daily(s, "999", fixedRand(0))

	assert.Equal(t, "<@&999>\n# 明日は全体会議だぽん！"+Face, msg.Text)
	require.Len(t, msg.Blocks, 1)
	block := msg.Blocks[0]
	assert.Equal(t, "議題は後日共有\n\n📍  未定\n🗓️  5/1（木） 10:00～12:00\n\n### <:front_sq:1439180903007125514>楽しみだぽん！！", block.Description)
	assert.Equal(t, 0x008736, block.Color)
	assert.Equal(t, "IT局（開発部）", block.Footer)
}

func TestDailyWithoutOptionalFields(t *testing.T) {
	t.Parallel()

	msg := Daily(notification.Schedule{Title: "x", Location: "部室"}, "", fixedRand(1))
	assert.Equal(t, "# 明日はxだぽん！"+Face, msg.Text)
	block := msg.Blocks[0]
	assert.Equal(t, "📍  部室\n🗓️  未定\n\n### <:front_face:1439180911685013625>みんな集まるぽん！", block.Description)
	assert.Equal(t, department.DefaultColor, block.Color)
	assert.Empty(t, block.Footer)
}

func TestDailyAccentFollowsDepartment(t *testing.T) {
	t.Parallel()

	for _, name := range append(department.Names(), "", "未登録局") {
		msg := Daily(notification.Schedule{Title: "x", Department: name}, "", fixedRand(0))
		if got, want := msg.Blocks[0].Color, department.Color(name); got != want {
			t.Fatalf("department %q colour = %#06x, want %#06x", name, got, want)
		}
	}
}

func TestAnnouncement(t *testing.T) {
	t.Parallel()

	msg := Announcement(notification.Schedule{Title: "合宿"}, "7", fixedRand(0))
	assert.Equal(t, "<@&7>", msg.Text)
	assert.True(t, strings.HasPrefix(msg.Blocks[0].Description, "## 明日は合宿だぽん！"+Face+"\n\n\n\n📍  未定"))
}

func TestMonthlyGroupsByDate(t *testing.T) {
	t.Parallel()

	m := notification.MonthlyData{
		Department: "広報局",
		Month:      "5月",
		Schedules: []notification.Schedule{
			{Title: "未定A"},
			{Title: "二日目", StartTime: timefmt.ParseTimestamp("2025-05-02T09:00:00+09:00")},
			{Title: "初日午後", StartTime: timefmt.ParseTimestamp("2025-05-01T15:00:00+09:00"), Section: "SNS"},
			{Title: "未定B"},
			{Title: "初日午前", StartTime: timefmt.ParseTimestamp("2025-05-01T09:00:00+09:00")},
		},
	}
	msg := Monthly(m, "")

	assert.Equal(t, "# 広報局 5月のスケジュールだぽん！"+Face, msg.Text)
	block := msg.Blocks[0]
	assert.Equal(t, "📅 5月の予定", block.Title)
	assert.Equal(t, "広報局", block.Footer)
	assert.Equal(t, 0xf90faa, block.Color)

	want := "広報局の5月のスケジュールをお知らせするぽん！\n\n全5件の予定があるぽん！\n\n" +
		"5/1(木)  　**初日午前**\n" +
		sameDateIndent + "**初日午後**（SNS）\n" +
		"\n5/2(金)  　**二日目**\n" +
		"\n未定 　**未定A**\n" +
		sameDateIndent + "**未定B**"
	assert.Equal(t, want, block.Description)
}

func TestSortByStartIsStableWithMissingLast(t *testing.T) {
	t.Parallel()

	in := []notification.Schedule{
		{Title: "none-1"},
		{Title: "late", StartTime: timefmt.ParseTimestamp("2025-05-20T00:00:00Z")},
		{Title: "tie-1", StartTime: timefmt.ParseTimestamp("2025-05-10T00:00:00Z")},
		{Title: "none-2", StartTime: timefmt.ParseTimestamp("garbage")},
		{Title: "tie-2", StartTime: timefmt.ParseTimestamp("2025-05-10T09:00:00+09:00")},
	}
	got := SortByStart(in)
	titles := make([]string, len(got))
	for i, s := range got {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{"tie-1", "tie-2", "late", "none-1", "none-2"}, titles)
	assert.Equal(t, "none-1", in[0].Title, "input must not be reordered")
}

func baseChange(action notification.Action) notification.ScheduleChange {
	return notification.ScheduleChange{
		Action: action,
		Snapshot: notification.Snapshot{
			Title:      "定例会",
			StartAt:    "2025-05-01T10:00:00+09:00",
			EndAt:      "2025-05-01T11:30:00+09:00",
			Location:   "会議室A",
			Department: "IT局",
			UpdatedBy:  "山田",
		},
	}
}

func TestScheduleAdd(t *testing.T) {
	t.Parallel()

	c := baseChange(notification.ActionAdd)
	c.Detail = "持ち物なし"
	c.URL = "https://example.com/e/1"
	msg := ScheduleChange(c, "5")

	assert.Equal(t, "<@&5>\n# 05/01に定例会が追加されたぽん！"+Face, msg.Text)
	require.Len(t, msg.Blocks, 1)
	assert.Equal(t, "定例会(追加)", msg.Blocks[0].Title)
	assert.Equal(t, "持ち物なし\n\n🗓️ 05/01 10:00 ～ 11:30\n📍 会議室A\n🔗 https://example.com/e/1\n👤 追加者: 山田", msg.Blocks[0].Description)
	assert.Equal(t, "IT局", msg.Blocks[0].Footer)
}

func TestScheduleUpdateLocationLine(t *testing.T) {
	t.Parallel()

	c := baseChange(notification.ActionUpdate)
	c.After = &notification.Snapshot{Title: "定例会", StartAt: "2025-05-03T10:00:00+09:00", EndAt: "2025-05-03T11:00:00+09:00", Location: "B"}
	c.ChangedDetails = []notification.ChangeDetail{notification.NewChangeDetail("location", "A", "B")}
	msg := ScheduleChange(c, "")

	lines := strings.Split(msg.Text, "\n")
	assert.Equal(t, "# 05/03の定例会が変更されたぽん！"+Face, lines[0])
	assert.Equal(t, "**変更箇所**", lines[1])
	assert.Equal(t, "- 場所：A→B", lines[2])
	require.Len(t, msg.Blocks, 1)
	assert.Equal(t, "定例会(変更後)", msg.Blocks[0].Title)
	assert.Contains(t, msg.Blocks[0].Description, "📍 B")
	assert.Contains(t, msg.Blocks[0].Description, "👤 変更者: 山田")
	assert.Equal(t, 0x008736, msg.Blocks[0].Color, "department falls back to the base fields")
}

func TestChangeLines(t *testing.T) {
	t.Parallel()

	details := []notification.ChangeDetail{
		notification.NewChangeDetail("startAt", "10:00", "11:00"),
		notification.NewChangeDetail("endAt", "12:00", "13:00"),
		notification.NewChangeDetail("detail", "一行目\r\n二行目", "新しい"),
		notification.NewChangeDetail("capacity", "10", "20"),
		{Field: "title", Item: "名称", Before: "a", After: "b"},
	}
	got := ChangeLines(details)
	assert.Equal(t, []string{
		"- 開始時刻：10:00からを11:00からに変更",
		"- 終了時刻：12:00までを13:00までに変更",
		"- 詳細：\n  変更前:\n  一行目\n  二行目\n  変更後:\n  新しい",
		"- capacity：10→20",
		"- 名称：a→b",
	}, got)
}

func TestScheduleDelete(t *testing.T) {
	t.Parallel()

	c := baseChange(notification.ActionDelete)
	c.After = &notification.Snapshot{Title: "定例会(臨時)", Description: " 会場都合\nのため中止 ", UpdatedBy: " 佐藤 "}
	msg := ScheduleChange(c, "")

	assert.Empty(t, msg.Blocks)
	assert.Equal(t, "# 05/01の定例会(臨時)が削除されたぽん！"+Face+"\n削除者：佐藤\n削除理由：\n会場都合\nのため中止", msg.Text)
}

func TestScheduleDeleteWithoutAfter(t *testing.T) {
	t.Parallel()

	c := baseChange(notification.ActionDelete)
	c.UpdatedBy = ""
	c.StartAt = "not-a-date"
	msg := ScheduleChange(c, "1")
	assert.Equal(t, "<@&1>\n# not-a-dateの定例会が削除されたぽん！"+Face, msg.Text)
}

func TestForSelectsByType(t *testing.T) {
	t.Parallel()

	_, ok := For(notification.Payload{Type: "weekly"}, nil)
	assert.False(t, ok)
	_, ok = For(notification.Payload{Type: notification.TypeDaily}, nil)
	assert.False(t, ok, "daily without data")

	strategy, ok := For(notification.Payload{
		Type:    notification.TypeMonthly,
		Monthly: &notification.MonthlyData{Department: "IT局", Month: "6月", Schedules: []notification.Schedule{}},
	}, fixedRand(0))
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(strategy("3").Text, "<@&3>\n# IT局 6月"))
}

func TestFlavorDrawsIndependently(t *testing.T) {
	t.Parallel()

	seq := &sequenceRand{values: []int{1, 8}}
	assert.Equal(t, "<:front_face:1439180911685013625>ここが頑張り時だぽん！", Flavor(seq))
}

type sequenceRand struct {
	values []int
	i      int
}

func (s *sequenceRand) IntN(n int) int {
	v := s.values[s.i%len(s.values)] % n
	s.i++
	return v
}
