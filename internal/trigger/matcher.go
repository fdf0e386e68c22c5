package trigger

import (
	"cmp"
	"slices"
	"strings"
)

// Context carries where a message was posted.
type Context struct {
	ChannelID string
}

// Matcher holds trigger definitions in priority order. It is immutable after
// construction and safe for concurrent use.
type Matcher struct {
	defs []Definition
}

// NewMatcher sorts defs ascending by priority; equal priorities keep their
// order and a missing priority sorts last.
func NewMatcher(defs []Definition) *Matcher {
	sorted := slices.Clone(defs)
	slices.SortStableFunc(sorted, func(a, b Definition) int {
		switch {
		case a.Priority == nil && b.Priority == nil:
			return 0
		case a.Priority == nil:
			return 1
		case b.Priority == nil:
			return -1
		default:
			return cmp.Compare(*a.Priority, *b.Priority)
		}
	})
	return &Matcher{defs: sorted}
}

// Definitions returns the triggers in match order.
func (m *Matcher) Definitions() []Definition {
	return slices.Clone(m.defs)
}

// FirstMatch returns the first exact or includes trigger matching text.
// Mention triggers are never returned here.
func (m *Matcher) FirstMatch(text string, ctx Context) (Definition, bool) {
	for _, d := range m.defs {
		if !d.IsEnabled() || !d.AllowsChannel(ctx.ChannelID) {
			continue
		}
		if matches(text, d) {
			return d, true
		}
	}
	return Definition{}, false
}

// FirstMention returns the first enabled mention trigger allowed in the channel.
func (m *Matcher) FirstMention(ctx Context) (Definition, bool) {
	for _, d := range m.defs {
		if !d.IsEnabled() || d.EffectiveMode() != ModeMention || !d.AllowsChannel(ctx.ChannelID) {
			continue
		}
		return d, true
	}
	return Definition{}, false
}

func matches(text string, d Definition) bool {
	switch d.EffectiveMode() {
	case ModeExact:
		return text == d.Pattern
	case ModeIncludes:
		return strings.Contains(text, d.Pattern)
	default:
		return false
	}
}
