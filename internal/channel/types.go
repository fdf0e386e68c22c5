package channel

import (
	"strings"
	"time"
)

type ChannelType string

const (
	ChannelTypeDiscord ChannelType = "discord"
	ChannelTypeSlack   ChannelType = "slack"
)

// ParseChannelType normalizes a platform name; empty means discord.
func ParseChannelType(raw string) (ChannelType, bool) {
	switch ChannelType(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ChannelTypeDiscord:
		return ChannelTypeDiscord, true
	case ChannelTypeSlack:
		return ChannelTypeSlack, true
	default:
		return "", false
	}
}

type Kind string

const (
	KindText         Kind = "text"
	KindAnnouncement Kind = "announcement"
	KindThread       Kind = "thread"
	KindDirect       Kind = "direct"
	KindVoice        Kind = "voice"
	KindCategory     Kind = "category"
	KindForum        Kind = "forum"
	KindUnknown      Kind = "unknown"
)

// Channel is a destination as reported by the chat platform.
type Channel struct {
	ID       string
	Name     string
	Kind     Kind
	Archived bool
}

// Block is a structured panel rendered under the heading text.
type Block struct {
	Title       string
	Description string
	Color       int
	Footer      string
}

// Message is a rendered notification: a plain heading plus optional blocks.
type Message struct {
	Text   string
	Blocks []Block
}

func (m Message) IsEmpty() bool {
	if strings.TrimSpace(m.Text) != "" {
		return false
	}
	for _, b := range m.Blocks {
		if strings.TrimSpace(b.Title) != "" || strings.TrimSpace(b.Description) != "" {
			return false
		}
	}
	return true
}

// PlainText flattens the message for logs and text-only sinks.
func (m Message) PlainText() string {
	lines := make([]string, 0, 1+len(m.Blocks)*2)
	if value := strings.TrimSpace(m.Text); value != "" {
		lines = append(lines, value)
	}
	for _, b := range m.Blocks {
		if value := strings.TrimSpace(b.Title); value != "" {
			lines = append(lines, value)
		}
		if value := strings.TrimSpace(b.Description); value != "" {
			lines = append(lines, value)
		}
		if value := strings.TrimSpace(b.Footer); value != "" {
			lines = append(lines, value)
		}
	}
	return strings.Join(lines, "\n")
}

type Identity struct {
	ID          string
	DisplayName string
	Bot         bool
}

// InboundMessage is a chat message delivered to the trigger responder.
type InboundMessage struct {
	ID         string
	Channel    ChannelType
	ChannelID  string
	GuildID    string
	Text       string
	Sender     Identity
	BotID      string
	Mentions   []string
	ReceivedAt time.Time
}

// MentionsBot reports whether the receiving bot was mentioned.
func (m InboundMessage) MentionsBot() bool {
	if m.BotID == "" {
		return false
	}
	for _, id := range m.Mentions {
		if id == m.BotID {
			return true
		}
	}
	return false
}

// Truncate cuts text to at most limit runes, ending with "..." when cut.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
