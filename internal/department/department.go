// Package department holds the static department tables: accent colours,
// destination channel overrides and mention roles.
package department

import "strings"

// DefaultColor is the neutral accent used when the department is absent or unknown.
const DefaultColor = 0x808080

var names = []string{
	"全局",
	"役員",
	"執行部",
	"総務局",
	"室内局",
	"屋外局",
	"装飾局",
	"ステージ局",
	"広報局",
	"渉外局",
	"IT局",
}

var colors = map[string]int{
	"全局":    0x000000,
	"役員":    0x000000,
	"執行部":   0x30a4d2,
	"総務局":   0x535151,
	"室内局":   0x082ac9,
	"屋外局":   0xe28100,
	"装飾局":   0xd0a100,
	"ステージ局": 0xc70000,
	"広報局":   0xf90faa,
	"渉外局":   0x6b49ab,
	"IT局":   0x008736,
}

// Color returns the accent colour for name, or DefaultColor.
func Color(name string) int {
	if c, ok := colors[name]; ok {
		return c
	}
	return DefaultColor
}

// Names returns the known departments in display order.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Known reports whether name is one of the fixed departments.
func Known(name string) bool {
	_, ok := colors[name]
	return ok
}

// Directory maps departments to their configured channel and mention role.
// It is built once at startup and only read afterwards.
type Directory struct {
	channels map[string]string
	roles    map[string]string
}

// NewDirectory copies the given maps, dropping blank keys and values.
func NewDirectory(channels, roles map[string]string) *Directory {
	return &Directory{
		channels: cleanMap(channels),
		roles:    cleanMap(roles),
	}
}

// Channel returns the channel configured for name.
func (d *Directory) Channel(name string) (string, bool) {
	if d == nil || name == "" {
		return "", false
	}
	id, ok := d.channels[name]
	return id, ok
}

// Role returns the mention role configured for name.
func (d *Directory) Role(name string) (string, bool) {
	if d == nil || name == "" {
		return "", false
	}
	id, ok := d.roles[name]
	return id, ok
}

// Entry is everything known about one department.
type Entry struct {
	Name      string
	Color     int
	ChannelID string
	RoleID    string
}

// Lookup gathers the colour, channel and role for name.
func (d *Directory) Lookup(name string) Entry {
	e := Entry{Name: name, Color: Color(name)}
	e.ChannelID, _ = d.Channel(name)
	e.RoleID, _ = d.Role(name)
	return e
}

func cleanMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
