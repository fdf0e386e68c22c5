package discord

import (
	"fmt"
	"strings"
)

type Config struct {
	BotToken      string
	ApplicationID string
	GuildID       string
}

func parseConfig(cfg Config) (Config, error) {
	token := strings.TrimSpace(cfg.BotToken)
	if token == "" {
		return Config{}, fmt.Errorf("discord bot token is required")
	}
	token = strings.TrimPrefix(token, "Bot ")
	return Config{
		BotToken:      token,
		ApplicationID: strings.TrimSpace(cfg.ApplicationID),
		GuildID:       strings.TrimSpace(cfg.GuildID),
	}, nil
}
