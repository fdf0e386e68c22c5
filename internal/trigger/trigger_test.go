package trigger

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yagapon/oshirase/internal/channel"
	"github.com/yagapon/oshirase/internal/logger"
)

func boolPtr(v bool) *bool { return &v }

func TestMatcherPriority(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]Definition{
		{ID: "low", Pattern: "hello", Mode: ModeIncludes, Priority: intPtr(20)},
		{ID: "none", Pattern: "hello", Mode: ModeIncludes},
		{ID: "high", Pattern: "hello", Mode: ModeIncludes, Priority: intPtr(10)},
	})
	d, ok := m.FirstMatch("hello world", Context{})
	require.True(t, ok)
	assert.Equal(t, "high", d.ID)

	ids := []string{}
	for _, def := range m.Definitions() {
		ids = append(ids, def.ID)
	}
	assert.Equal(t, []string{"high", "low", "none"}, ids)
}

func TestMatcherExtremePriorities(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]Definition{
		{ID: "five", Pattern: "hello", Mode: ModeIncludes, Priority: intPtr(5)},
		{ID: "min", Pattern: "hello", Mode: ModeIncludes, Priority: intPtr(math.MinInt)},
		{ID: "max", Pattern: "hello", Mode: ModeIncludes, Priority: intPtr(math.MaxInt)},
	})
	ids := []string{}
	for _, def := range m.Definitions() {
		ids = append(ids, def.ID)
	}
	assert.Equal(t, []string{"min", "five", "max"}, ids)
}

func TestMatcherStableForEqualPriority(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]Definition{
		{ID: "a", Pattern: "x", Priority: intPtr(5)},
		{ID: "b", Pattern: "x", Priority: intPtr(5)},
		{ID: "c", Pattern: "x"},
		{ID: "d", Pattern: "x"},
	})
	d, _ := m.FirstMatch("x", Context{})
	assert.Equal(t, "a", d.ID)

	defs := m.Definitions()
	assert.Equal(t, "c", defs[2].ID)
	assert.Equal(t, "d", defs[3].ID)
}

func TestMatcherModesAndFilters(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]Definition{
		{ID: "disabled", Pattern: "hi", Enabled: boolPtr(false), Priority: intPtr(1)},
		{ID: "elsewhere", Pattern: "hi", Channels: []string{"other"}, Priority: intPtr(2)},
		{ID: "mention", Pattern: "hi", Mode: ModeMention, Priority: intPtr(3)},
		{ID: "weird", Pattern: "hi", Mode: "regex", Priority: intPtr(4)},
		{ID: "exact", Pattern: "hi", Priority: intPtr(5)},
		{ID: "includes", Pattern: "hi", Mode: ModeIncludes, Priority: intPtr(6)},
	})

	d, ok := m.FirstMatch("hi", Context{ChannelID: "here"})
	require.True(t, ok)
	assert.Equal(t, "exact", d.ID)

	d, ok = m.FirstMatch("oh hi there", Context{ChannelID: "here"})
	require.True(t, ok)
	assert.Equal(t, "includes", d.ID)

	d, ok = m.FirstMatch("hi", Context{ChannelID: "other"})
	require.True(t, ok)
	assert.Equal(t, "elsewhere", d.ID)

	d, ok = m.FirstMatch("hi", Context{})
	require.True(t, ok)
	assert.Equal(t, "exact", d.ID, "a channel-restricted trigger never fires without a channel")

	_, ok = m.FirstMatch("bye", Context{})
	assert.False(t, ok)
}

func TestExtractBetween(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text, start, end string
		want             string
		ok               bool
	}{
		{"このチャンネルは企画のチャンネルです", "このチャンネルは", "のチャンネル", "企画", true},
		{"このチャンネルは企画です", "このチャンネルは", "のチャンネル", "", false},
		{"開始: 値 ", "開始:", "", "値", true},
		{"nothing", "開始:", "", "", false},
		{"このチャンネルは のチャンネル", "このチャンネルは", "のチャンネル", "", false},
	}
	for _, tc := range cases {
		got, ok := ExtractBetween(tc.text, tc.start, tc.end)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ExtractBetween(%q) = %q, %v; want %q, %v", tc.text, got, ok, tc.want, tc.ok)
		}
	}
}

func TestExtractRenderTemplate(t *testing.T) {
	t.Parallel()

	e := Extract{Start: "名前:", Template: "{value}さん、{value}"}
	got, ok := e.Render("名前: 太郎", "fail")
	assert.True(t, ok)
	assert.Equal(t, "太郎さん、{value}", got, "only the first placeholder is replaced")

	got, ok = Extract{Start: "名前:"}.Render("名前: 花子", "fail")
	assert.True(t, ok)
	assert.Equal(t, "花子", got)

	got, ok = Extract{Start: "x"}.Render("y", "fail")
	assert.False(t, ok)
	assert.Equal(t, "fail", got)
}

func newTestResponder(defs []Definition) *Responder {
	return NewResponder(logger.Discard(), NewMatcher(defs), 600)
}

func mentionMsg(text string) channel.InboundMessage {
	return channel.InboundMessage{
		ChannelID: "c1",
		Text:      text,
		BotID:     "100",
		Mentions:  []string{"100"},
	}
}

func TestResponderMentionExtraction(t *testing.T) {
	t.Parallel()

	r := newTestResponder(Defaults())

	reply, ok := r.Match(mentionMsg("<@100> このチャンネルは企画のチャンネルです"))
	require.True(t, ok)
	assert.Equal(t, "register-channel", reply.TriggerID)
	assert.Equal(t, "ここは企画のチャンネル！わかったぽん！", reply.Text)
	assert.True(t, reply.Extracted)

	reply, ok = r.Match(mentionMsg("<@100> このチャンネルは企画です"))
	require.True(t, ok)
	assert.Equal(t, "なにを言いたいのかよくわからないぽん...", reply.Text)
	assert.False(t, reply.Extracted)
}

func TestResponderMentionDefaults(t *testing.T) {
	t.Parallel()

	r := newTestResponder([]Definition{{ID: "m", Mode: ModeMention, Extract: &Extract{Start: "X"}}})

	reply, ok := r.Match(mentionMsg(" <@!100> <@&55> "))
	require.True(t, ok)
	assert.Equal(t, BareMentionReply, reply.Text)

	reply, ok = r.Match(mentionMsg("<@100> hello"))
	require.True(t, ok)
	assert.Equal(t, MentionFailReply, reply.Text)
}

func TestResponderPlainMessages(t *testing.T) {
	t.Parallel()

	r := newTestResponder(append(Defaults(), Definition{
		ID: "echo", Pattern: "echo", Mode: ModeIncludes, Extract: &Extract{Start: "echo:"}, Priority: intPtr(15),
	}))

	reply, ok := r.Match(channel.InboundMessage{ChannelID: "c", Text: "anyone ping me"})
	require.True(t, ok)
	assert.Equal(t, "自動返信: pong", reply.Text)

	reply, ok = r.Match(channel.InboundMessage{ChannelID: "c", Text: "!ping"})
	require.True(t, ok)
	assert.Equal(t, PingReply, reply.Text)

	reply, ok = r.Match(channel.InboundMessage{ChannelID: "c", Text: "echo something"})
	require.True(t, ok)
	assert.Equal(t, IncludesFailReply, reply.Text)

	reply, ok = r.Match(channel.InboundMessage{ChannelID: "c", Text: "echo: hi"})
	require.True(t, ok)
	assert.Equal(t, "hi", reply.Text)

	_, ok = r.Match(channel.InboundMessage{ChannelID: "c", Text: "ping", Sender: channel.Identity{Bot: true}})
	assert.False(t, ok, "bots are ignored")

	_, ok = r.Match(channel.InboundMessage{ChannelID: "c", Text: "   "})
	assert.False(t, ok)
}

func TestRespondRateLimitsPerChannel(t *testing.T) {
	t.Parallel()

	r := NewResponder(logger.Discard(), NewMatcher(Defaults()), 10)
	msg := channel.InboundMessage{ChannelID: "busy", Text: "ping"}

	_, ok := r.Respond(context.Background(), msg)
	require.True(t, ok)
	_, ok = r.Respond(context.Background(), msg)
	assert.False(t, ok, "burst of one per channel")

	msg.ChannelID = "quiet"
	_, ok = r.Respond(context.Background(), msg)
	assert.True(t, ok, "other channels have their own bucket")

	assert.Equal(t, 2, r.limiter.size())
	assert.Equal(t, 2, r.EvictIdle(-time.Second))
	assert.Equal(t, 0, r.limiter.size())
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "triggers.yaml")
	body := `triggers:
  - id: hello
    pattern: こんにちは
    mode: includes
    reply: こんにちはだぽん！
    priority: 5
  - id: off
    pattern: x
    enabled: false
    channels: ["1", "2"]
    extract:
      start: "a"
      onFail: "no"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	defs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, 5, *defs[0].Priority)
	assert.True(t, defs[0].IsEnabled())
	assert.False(t, defs[1].IsEnabled())
	assert.Equal(t, ModeExact, defs[1].EffectiveMode())
	assert.Equal(t, "no", defs[1].Extract.OnFail)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("triggers:\n  - id: a\n    mode: regex\n"), 0o600))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}
