// Package timefmt renders timestamps for notifications. Every display string is
// produced in Asia/Tokyo with a 24-hour clock, whatever the process locale is.
package timefmt

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/yagapon/oshirase/internal/logger"
)

// Undecided is shown when neither start nor end time is known.
const Undecided = "未定"

// Location is the fixed display timezone.
var Location = loadLocation()

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

var weekdays = [...]string{"日", "月", "火", "水", "木", "金", "土"}

func loadLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		// Asia/Tokyo has no DST, so a fixed offset is exact.
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// Converter is implemented by timestamp objects that know how to turn
// themselves into a time.Time.
type Converter interface {
	ToTime() time.Time
}

// Instant collapses the accepted timestamp shapes into a single time.Time.
// It accepts ISO-8601 strings, time.Time values, Converter implementations
// and epoch-like objects ({"seconds": n, "nanoseconds": n}). Anything else
// reports false and logs a diagnostic.
func Instant(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	case *Timestamp:
		if v == nil {
			return time.Time{}, false
		}
		t := v.ToTime()
		return t, !t.IsZero()
	case Converter:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return time.Time{}, false
		}
		t := v.ToTime()
		return t, !t.IsZero()
	case string:
		if strings.TrimSpace(v) == "" {
			return time.Time{}, false
		}
		t, ok := Parse(v)
		if !ok {
			logger.Warn("unparseable timestamp", slog.String("value", v))
		}
		return t, ok
	case map[string]any:
		t, ok := fromEpochObject(v)
		if !ok {
			logger.Warn("unknown timestamp object", slog.Any("value", v))
		}
		return t, ok
	default:
		logger.Warn("unknown timestamp format", slog.String("type", fmt.Sprintf("%T", value)))
		return time.Time{}, false
	}
}

// Parse reads an ISO-8601 string. Strings without an offset are read as
// Tokyo local time.
func Parse(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	t, err := dateparse.ParseIn(value, Location)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Time formats value as HH:MM.
func Time(value any) (string, bool) {
	t, ok := Instant(value)
	if !ok {
		return "", false
	}
	return t.In(Location).Format("15:04"), true
}

// Date formats value as M/D（曜）.
func Date(value any) (string, bool) {
	t, ok := Instant(value)
	if !ok {
		return "", false
	}
	local := t.In(Location)
	return fmt.Sprintf("%d/%d（%s）", int(local.Month()), local.Day(), weekdays[local.Weekday()]), true
}

// ShortDate formats value as M/D(曜) with half-width parentheses.
func ShortDate(value any) (string, bool) {
	t, ok := Instant(value)
	if !ok {
		return "", false
	}
	local := t.In(Location)
	return fmt.Sprintf("%d/%d(%s)", int(local.Month()), local.Day(), weekdays[local.Weekday()]), true
}

// DateTime renders a date plus a start～end time range. Missing halves are
// dropped; with neither time known the range reads 未定. The date is taken
// from start, or from end when start is unknown.
func DateTime(start, end any) string {
	from, hasFrom := Time(start)
	to, hasTo := Time(end)

	var clock string
	switch {
	case hasFrom && hasTo:
		clock = from + "～" + to
	case hasFrom:
		clock = from
	case hasTo:
		clock = to
	default:
		clock = Undecided
	}

	date, ok := Date(start)
	if !ok {
		date, ok = Date(end)
	}
	if !ok {
		return clock
	}
	return date + " " + clock
}

// MonthDay formats an ISO string as MM/DD, returning raw unchanged when it
// does not parse.
func MonthDay(raw string) string {
	t, ok := Parse(raw)
	if !ok {
		return raw
	}
	return t.In(Location).Format("01/02")
}

// MonthDayTime formats an ISO string as MM/DD HH:MM, returning raw unchanged
// when it does not parse.
func MonthDayTime(raw string) string {
	t, ok := Parse(raw)
	if !ok {
		return raw
	}
	return t.In(Location).Format("01/02 15:04")
}

// Clock formats an ISO string as HH:MM, returning raw unchanged when it does
// not parse.
func Clock(raw string) string {
	t, ok := Parse(raw)
	if !ok {
		return raw
	}
	return t.In(Location).Format("15:04")
}

func fromEpochObject(obj map[string]any) (time.Time, bool) {
	seconds, ok := number(obj, "_seconds", "seconds")
	if !ok {
		return time.Time{}, false
	}
	nanos, _ := number(obj, "_nanoseconds", "nanoseconds")
	return time.Unix(int64(seconds), int64(nanos)), true
}

func number(obj map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := obj[key].(type) {
		case float64:
			return v, true
		case int64:
			return float64(v), true
		case int:
			return float64(v), true
		case interface{ Float64() (float64, error) }:
			f, err := v.Float64()
			if err == nil {
				return f, true
			}
		}
	}
	return 0, false
}
