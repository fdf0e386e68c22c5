package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/yagapon/oshirase/internal/channel"
)

// Discord limits.
const (
	maxContentLength     = 2000
	maxEmbedTitle        = 256
	maxEmbedDescription  = 4096
	maxEmbedFooterLength = 2048
	maxEmbeds            = 10
)

func toChannel(ch *discordgo.Channel) channel.Channel {
	if ch == nil {
		return channel.Channel{Kind: channel.KindUnknown}
	}
	out := channel.Channel{ID: ch.ID, Name: ch.Name, Kind: kindOf(ch.Type)}
	if ch.ThreadMetadata != nil {
		out.Archived = ch.ThreadMetadata.Archived
	}
	return out
}

func kindOf(t discordgo.ChannelType) channel.Kind {
	switch t {
	case discordgo.ChannelTypeGuildText:
		return channel.KindText
	case discordgo.ChannelTypeGuildNews:
		return channel.KindAnnouncement
	case discordgo.ChannelTypeGuildNewsThread, discordgo.ChannelTypeGuildPublicThread, discordgo.ChannelTypeGuildPrivateThread:
		return channel.KindThread
	case discordgo.ChannelTypeDM, discordgo.ChannelTypeGroupDM:
		return channel.KindDirect
	case discordgo.ChannelTypeGuildVoice, discordgo.ChannelTypeGuildStageVoice:
		return channel.KindVoice
	case discordgo.ChannelTypeGuildCategory:
		return channel.KindCategory
	case discordgo.ChannelTypeGuildForum:
		return channel.KindForum
	default:
		return channel.KindUnknown
	}
}

func isTextKind(ch channel.Channel) bool {
	switch ch.Kind {
	case channel.KindText, channel.KindAnnouncement, channel.KindDirect:
		return true
	case channel.KindThread:
		return !ch.Archived
	default:
		return false
	}
}

func toMessageSend(msg channel.Message) *discordgo.MessageSend {
	out := &discordgo.MessageSend{
		Content: channel.Truncate(msg.Text, maxContentLength),
	}
	for i, b := range msg.Blocks {
		if i == maxEmbeds {
			break
		}
		out.Embeds = append(out.Embeds, toEmbed(b))
	}
	return out
}

func toEmbed(b channel.Block) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       channel.Truncate(b.Title, maxEmbedTitle),
		Description: channel.Truncate(b.Description, maxEmbedDescription),
		Color:       b.Color,
	}
	if b.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: channel.Truncate(b.Footer, maxEmbedFooterLength)}
	}
	return embed
}

func toInbound(botID string, m *discordgo.MessageCreate) (channel.InboundMessage, bool) {
	if m == nil || m.Message == nil || m.Author == nil {
		return channel.InboundMessage{}, false
	}
	if m.Author.Bot || (botID != "" && m.Author.ID == botID) {
		return channel.InboundMessage{}, false
	}
	mentions := make([]string, 0, len(m.Mentions))
	for _, u := range m.Mentions {
		if u != nil {
			mentions = append(mentions, u.ID)
		}
	}
	return channel.InboundMessage{
		ID:        m.ID,
		Channel:   channel.ChannelTypeDiscord,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Text:      m.Content,
		Sender: channel.Identity{
			ID:          m.Author.ID,
			DisplayName: m.Author.Username,
			Bot:         m.Author.Bot,
		},
		BotID:      botID,
		Mentions:   mentions,
		ReceivedAt: m.Timestamp,
	}, true
}
