package timefmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yagapon/oshirase/internal/logger"
)

// Timestamp is a JSON timestamp field that accepts an ISO-8601 string or an
// epoch-like object and keeps the instant it resolved to.
type Timestamp struct {
	t   time.Time
	raw string
}

// At wraps t as a Timestamp.
func At(t time.Time) Timestamp {
	return Timestamp{t: t}
}

// ParseTimestamp wraps an ISO string. An unparseable string is kept verbatim
// but resolves to no instant.
func ParseTimestamp(raw string) Timestamp {
	t, ok := Parse(raw)
	if !ok && strings.TrimSpace(raw) != "" {
		logger.Warn("unparseable timestamp", slog.String("value", raw))
	}
	return Timestamp{t: t, raw: raw}
}

// ToTime implements Converter.
func (ts Timestamp) ToTime() time.Time {
	return ts.t
}

// IsZero reports whether the field was absent.
func (ts Timestamp) IsZero() bool {
	return ts.t.IsZero() && ts.raw == ""
}

// String returns the original text when there was one.
func (ts Timestamp) String() string {
	if ts.raw != "" {
		return ts.raw
	}
	if ts.t.IsZero() {
		return ""
	}
	return ts.t.Format(time.RFC3339)
}

// UnmarshalJSON accepts null, a string, or an object carrying seconds and
// nanoseconds.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	*ts = Timestamp{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	switch trimmed[0] {
	case '"':
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		*ts = ParseTimestamp(raw)
		return nil
	case '{':
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return err
		}
		t, ok := fromEpochObject(obj)
		if !ok {
			logger.Warn("unknown timestamp object", slog.String("value", string(trimmed)))
			return nil
		}
		ts.t = t
		return nil
	default:
		logger.Warn("unknown timestamp format", slog.String("value", string(trimmed)))
		return nil
	}
}

// MarshalJSON writes the original string, or RFC 3339 for constructed values.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	out, err := json.Marshal(ts.String())
	if err != nil {
		return nil, fmt.Errorf("marshal timestamp: %w", err)
	}
	return out, nil
}
