package timefmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/yagapon/oshirase/internal/logger"
)

type fakeFirestoreTimestamp struct{ t time.Time }

func (f fakeFirestoreTimestamp) ToTime() time.Time { return f.t }

func TestInstantShapes(t *testing.T) {
	t.Parallel()

	want := time.Date(2025, 5, 1, 1, 30, 0, 0, time.UTC)
	cases := []struct {
		name  string
		value any
		ok    bool
	}{
		{"iso string", "2025-05-01T10:30:00+09:00", true},
		{"utc string", "2025-05-01T01:30:00Z", true},
		{"native time", want, true},
		{"time pointer", &want, true},
		{"converter", fakeFirestoreTimestamp{t: want}, true},
		{"epoch object", map[string]any{"_seconds": float64(want.Unix()), "_nanoseconds": float64(0)}, true},
		{"timestamp", At(want), true},
		{"timestamp pointer", func() *Timestamp { ts := At(want); return &ts }(), true},
		{"nil timestamp pointer", (*Timestamp)(nil), false},
		{"nil converter pointer", (*fakeFirestoreTimestamp)(nil), false},
		{"nil", nil, false},
		{"empty string", "", false},
		{"garbage string", "not a date", false},
		{"number", 42, false},
		{"object without seconds", map[string]any{"foo": "bar"}, false},
	}
	for _, tc := range cases {
		got, ok := Instant(tc.value)
		if ok != tc.ok {
			t.Fatalf("%s: Instant ok = %v, want %v", tc.name, ok, tc.ok)
		}
		if ok && !got.Equal(want) {
			t.Fatalf("%s: Instant = %v, want %v", tc.name, got, want)
		}
	}
}

func TestTimeAndDateUseTokyo(t *testing.T) {
	t.Parallel()

	// 2025-04-30T23:15Z is already May 1st in Tokyo.
	value := "2025-04-30T23:15:00Z"
	if got, _ := Time(value); got != "08:15" {
		t.Fatalf("Time = %q, want 08:15", got)
	}
	if got, _ := Date(value); got != "5/1（木）" {
		t.Fatalf("Date = %q, want 5/1（木）", got)
	}
	if got, _ := ShortDate(value); got != "5/1(木)" {
		t.Fatalf("ShortDate = %q, want 5/1(木)", got)
	}
	if _, ok := Time(struct{}{}); ok {
		t.Fatal("Time of an unknown shape should report false")
	}
}

func TestDateTime(t *testing.T) {
	t.Parallel()

	start := "2025-05-01T10:00:00+09:00"
	end := "2025-05-01T12:30:00+09:00"
	cases := []struct {
		name       string
		start, end any
		want       string
	}{
		{"both", start, end, "5/1（木） 10:00～12:30"},
		{"start only", start, nil, "5/1（木） 10:00"},
		{"end only", nil, end, "5/1（木） 12:30"},
		{"neither", nil, nil, Undecided},
	}
	for _, tc := range cases {
		if got := DateTime(tc.start, tc.end); got != tc.want {
			t.Fatalf("%s: DateTime = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestRawFormattersFallBack(t *testing.T) {
	t.Parallel()

	value := "2025-01-05T00:05:00Z"
	if got := MonthDay(value); got != "01/05" {
		t.Fatalf("MonthDay = %q", got)
	}
	if got := MonthDayTime(value); got != "01/05 09:05" {
		t.Fatalf("MonthDayTime = %q", got)
	}
	if got := Clock(value); got != "09:05" {
		t.Fatalf("Clock = %q", got)
	}
	for _, bad := range []string{"someday", ""} {
		if MonthDay(bad) != bad || MonthDayTime(bad) != bad || Clock(bad) != bad {
			t.Fatalf("formatters should return %q unchanged", bad)
		}
	}
}

func TestDateRoundTripIsIdempotent(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 365*2; i += 7 {
		instant := base.Add(time.Duration(i)*24*time.Hour + 15*time.Hour + 30*time.Minute)
		formatted, ok := Date(instant)
		if !ok {
			t.Fatalf("Date(%v) failed", instant)
		}
		var month, day int
		if _, err := fmt.Sscanf(strings.SplitN(formatted, "（", 2)[0], "%d/%d", &month, &day); err != nil {
			t.Fatalf("re-parse %q: %v", formatted, err)
		}
		local := instant.In(Location)
		if month != int(local.Month()) || day != local.Day() {
			t.Fatalf("round trip of %v gave %d/%d, want %d/%d", instant, month, day, local.Month(), local.Day())
		}
		reparsed := time.Date(local.Year(), time.Month(month), day, 12, 0, 0, 0, Location)
		again, _ := Date(reparsed)
		if again != formatted {
			t.Fatalf("formatting twice changed %q to %q", formatted, again)
		}
	}
}

func TestTimestampJSON(t *testing.T) {
	t.Parallel()

	var doc struct {
		Start Timestamp `json:"start"`
		End   Timestamp `json:"end"`
		Epoch Timestamp `json:"epoch"`
		Null  Timestamp `json:"null"`
	}
	body := `{"start":"2025-05-01T10:00:00+09:00","end":"tomorrow-ish","epoch":{"seconds":1746061200,"nanoseconds":0},"null":null}`
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got, _ := Time(doc.Start); got != "10:00" {
		t.Fatalf("start Time = %q", got)
	}
	if doc.End.IsZero() {
		t.Fatal("an unparseable string still counts as present")
	}
	if _, ok := Instant(doc.End); ok {
		t.Fatal("an unparseable string must not resolve to an instant")
	}
	if got, _ := Time(doc.Epoch); got != "10:00" {
		t.Fatalf("epoch Time = %q", got)
	}
	if !doc.Null.IsZero() {
		t.Fatal("null should decode to the zero timestamp")
	}

	out, err := json.Marshal(doc.Start)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2025-05-01T10:00:00+09:00"` {
		t.Fatalf("marshal = %s", out)
	}
}

// Swaps the global logger, so it does not run in parallel.
func TestParseTimestampWarnsOnGarbage(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.L
	logger.L = logger.New(&buf, "warn", "text")
	t.Cleanup(func() { logger.L = prev })

	ts := ParseTimestamp("tomorrow-ish")
	if ts.String() != "tomorrow-ish" {
		t.Fatalf("raw = %q, want it kept", ts.String())
	}
	if !strings.Contains(buf.String(), "unparseable timestamp") {
		t.Fatalf("expected a warning, got %q", buf.String())
	}

	buf.Reset()
	ParseTimestamp("2025-05-01T10:00:00+09:00")
	ParseTimestamp("")
	if buf.Len() != 0 {
		t.Fatalf("unexpected warning: %q", buf.String())
	}
}
