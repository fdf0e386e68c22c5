// Package trigger matches inbound chat messages against keyword rules and
// produces replies.
package trigger

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeExact    Mode = "exact"
	ModeIncludes Mode = "includes"
	ModeMention  Mode = "mention"
)

// Extract pulls the text between Start and End (or the rest of the message
// when End is empty) and renders it into Template at {value}.
type Extract struct {
	Start    string `yaml:"start" json:"start"`
	End      string `yaml:"end,omitempty" json:"end,omitempty"`
	Template string `yaml:"template,omitempty" json:"template,omitempty"`
	OnFail   string `yaml:"onFail,omitempty" json:"onFail,omitempty"`
}

// Definition is one trigger rule. Enabled defaults to true and Mode to exact.
// A nil Priority sorts after every explicit priority.
type Definition struct {
	ID       string   `yaml:"id" json:"id"`
	Pattern  string   `yaml:"pattern" json:"pattern"`
	Mode     Mode     `yaml:"mode,omitempty" json:"mode,omitempty"`
	Reply    string   `yaml:"reply,omitempty" json:"reply,omitempty"`
	Enabled  *bool    `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Channels []string `yaml:"channels,omitempty" json:"channels,omitempty"`
	Extract  *Extract `yaml:"extract,omitempty" json:"extract,omitempty"`
	Priority *int     `yaml:"priority,omitempty" json:"priority,omitempty"`
}

func (d Definition) IsEnabled() bool {
	return d.Enabled == nil || *d.Enabled
}

func (d Definition) EffectiveMode() Mode {
	if d.Mode == "" {
		return ModeExact
	}
	return d.Mode
}

// AllowsChannel reports whether the trigger may fire in channelID. An empty
// channel list allows every channel; a non-empty list never matches an
// unknown channel.
func (d Definition) AllowsChannel(channelID string) bool {
	if len(d.Channels) == 0 {
		return true
	}
	if channelID == "" {
		return false
	}
	for _, id := range d.Channels {
		if id == channelID {
			return true
		}
	}
	return false
}

func intPtr(v int) *int { return &v }

// Defaults returns the built-in trigger set.
func Defaults() []Definition {
	return []Definition{
		{
			ID:   "register-channel",
			Mode: ModeMention,
			Extract: &Extract{
				Start:    "このチャンネルは",
				End:      "のチャンネル",
				Template: "ここは{value}のチャンネル！わかったぽん！",
				OnFail:   "なにを言いたいのかよくわからないぽん...",
			},
			Priority: intPtr(10),
		},
		{
			ID:       "simple-ping",
			Pattern:  "ping",
			Mode:     ModeIncludes,
			Reply:    "自動返信: pong",
			Priority: intPtr(20),
		},
	}
}

type file struct {
	Triggers []Definition `yaml:"triggers"`
}

// LoadFile reads trigger definitions from a YAML file with a top-level
// "triggers" list.
func LoadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read triggers: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse triggers %s: %w", path, err)
	}
	seen := make(map[string]struct{}, len(f.Triggers))
	for i, d := range f.Triggers {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			return nil, fmt.Errorf("trigger %d: id is required", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("trigger %s: duplicate id", id)
		}
		seen[id] = struct{}{}
		switch d.EffectiveMode() {
		case ModeExact, ModeIncludes, ModeMention:
		default:
			return nil, fmt.Errorf("trigger %s: unknown mode %q", id, d.Mode)
		}
		if d.Extract != nil && d.Extract.Start == "" {
			return nil, fmt.Errorf("trigger %s: extract.start is required", id)
		}
	}
	return f.Triggers, nil
}
