// Package config loads and exposes application configuration (TOML file,
// then .env, then the process environment).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Default configuration values used when a field is missing.
const (
	DefaultConfigPath       = "config.toml"
	DefaultDotEnvPath       = ".env"
	DefaultPort             = 3000
	DefaultPlatform         = "discord"
	DefaultRepliesPerMinute = 30
)

// Config is the root application configuration.
type Config struct {
	Platform    string            `toml:"platform" env:"CHAT_PLATFORM"`
	Log         LogConfig         `toml:"log"`
	Server      ServerConfig      `toml:"server"`
	Discord     DiscordConfig     `toml:"discord"`
	Slack       SlackConfig       `toml:"slack"`
	Notify      NotifyConfig      `toml:"notify"`
	Departments DepartmentsConfig `toml:"departments"`
	Triggers    TriggersConfig    `toml:"triggers"`
	Monthly     MonthlyConfig     `toml:"monthly"`

	// Warnings collects non-fatal problems found while loading.
	Warnings []string `toml:"-"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level" env:"LOG_LEVEL"`
	Format string `toml:"format" env:"LOG_FORMAT"`
}

// ServerConfig holds the HTTP listen port.
type ServerConfig struct {
	Port int `toml:"port" env:"PORT"`
}

// Addr returns the listen address for Port.
func (c ServerConfig) Addr() string {
	port := c.Port
	if port <= 0 {
		port = DefaultPort
	}
	return ":" + strconv.Itoa(port)
}

// DiscordConfig holds the bot token and the application command scope.
type DiscordConfig struct {
	Token    string `toml:"token" env:"DISCORD_TOKEN"`
	ClientID string `toml:"client_id" env:"DISCORD_CLIENT_ID"`
	GuildID  string `toml:"guild_id" env:"DISCORD_GUILD_ID"`
}

// SlackConfig holds the Web API token used when platform = "slack".
type SlackConfig struct {
	BotToken string `toml:"bot_token" env:"SLACK_BOT_TOKEN"`
}

// NotifyConfig holds the shared secret and the fallback destination.
type NotifyConfig struct {
	Secret           string `toml:"secret" env:"BOT_NOTIFY_SECRET"`
	DefaultChannelID string `toml:"default_channel_id" env:"NOTIFICATION_CHANNEL_ID"`
}

// DepartmentsConfig maps departments to channel and role ids. The
// environment carries them as JSON objects which replace the file tables.
type DepartmentsConfig struct {
	Channels map[string]string `toml:"channels"`
	Roles    map[string]string `toml:"roles"`

	ChannelsJSON string `toml:"-" env:"DEPARTMENT_CHANNELS"`
	RolesJSON    string `toml:"-" env:"DEPARTMENT_ROLES"`
}

// TriggersConfig points at an optional YAML trigger file.
type TriggersConfig struct {
	File             string `toml:"file" env:"TRIGGERS_FILE"`
	RepliesPerMinute int    `toml:"replies_per_minute" env:"TRIGGER_REPLIES_PER_MINUTE"`
}

// MonthlyConfig holds the endpoint the monthly command posts to.
type MonthlyConfig struct {
	URL string `toml:"url" env:"MONTHLY_URL"`
}

// Options controls where Load reads from. Zero values use the defaults and
// the process environment.
type Options struct {
	DotEnvPath string
	// Environment replaces the process environment when non-nil.
	Environment map[string]string
}

// Load reads path (missing file is fine), then .env, then the environment.
func Load(path string) (Config, error) {
	return LoadWithOptions(path, Options{})
}

// LoadWithOptions is Load with explicit sources.
func LoadWithOptions(path string, opts Options) (Config, error) {
	cfg := defaults()

	if path == "" {
		path = DefaultConfigPath
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("decode %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	if opts.Environment == nil {
		dotenv := opts.DotEnvPath
		if dotenv == "" {
			dotenv = DefaultDotEnvPath
		}
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("cannot load %s: %v", dotenv, err))
		}
	}

	if err := env.Parse(&cfg, env.Options{Environment: opts.Environment}); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	cfg.Departments.Channels = cfg.overlayJSON("DEPARTMENT_CHANNELS", cfg.Departments.ChannelsJSON, cfg.Departments.Channels)
	cfg.Departments.Roles = cfg.overlayJSON("DEPARTMENT_ROLES", cfg.Departments.RolesJSON, cfg.Departments.Roles)
	cfg.normalize()
	return cfg, nil
}

func defaults() Config {
	return Config{
		Platform: DefaultPlatform,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Port: DefaultPort,
		},
		Departments: DepartmentsConfig{
			Channels: map[string]string{},
			Roles:    map[string]string{},
		},
		Triggers: TriggersConfig{
			RepliesPerMinute: DefaultRepliesPerMinute,
		},
	}
}

// overlayJSON decodes raw as a string map. Malformed JSON is a warning and
// yields an empty map; an empty raw keeps current.
func (c *Config) overlayJSON(key, raw string, current map[string]string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if current == nil {
			return map[string]string{}
		}
		return current
	}
	out := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		c.Warnings = append(c.Warnings, fmt.Sprintf("%s is not a JSON object of strings: %v", key, err))
		return map[string]string{}
	}
	return out
}

func (c *Config) normalize() {
	c.Platform = strings.ToLower(strings.TrimSpace(c.Platform))
	if c.Platform == "" {
		c.Platform = DefaultPlatform
	}
	c.Discord.Token = strings.TrimSpace(c.Discord.Token)
	c.Discord.ClientID = strings.TrimSpace(c.Discord.ClientID)
	c.Discord.GuildID = strings.TrimSpace(c.Discord.GuildID)
	c.Notify.DefaultChannelID = strings.TrimSpace(c.Notify.DefaultChannelID)
	if c.Triggers.RepliesPerMinute <= 0 {
		c.Triggers.RepliesPerMinute = DefaultRepliesPerMinute
	}
}

// Validate checks what the serve command needs.
func (c Config) Validate() error {
	var errs []error
	switch c.Platform {
	case "discord":
		if c.Discord.Token == "" {
			errs = append(errs, errors.New("DISCORD_TOKEN is required"))
		}
	case "slack":
		if strings.TrimSpace(c.Slack.BotToken) == "" {
			errs = append(errs, errors.New("SLACK_BOT_TOKEN is required when CHAT_PLATFORM=slack"))
		}
	default:
		errs = append(errs, fmt.Errorf("CHAT_PLATFORM must be discord or slack (got %q)", c.Platform))
	}
	if strings.TrimSpace(c.Notify.Secret) == "" {
		errs = append(errs, errors.New("BOT_NOTIFY_SECRET is required"))
	}
	if c.Notify.DefaultChannelID == "" {
		errs = append(errs, errors.New("NOTIFICATION_CHANNEL_ID is required"))
	}
	return errors.Join(errs...)
}

// ValidateCommands checks what slash command registration needs.
func (c Config) ValidateCommands() error {
	var errs []error
	if c.Discord.Token == "" {
		errs = append(errs, errors.New("DISCORD_TOKEN is required"))
	}
	if c.Discord.ClientID == "" {
		errs = append(errs, errors.New("DISCORD_CLIENT_ID is required"))
	}
	return errors.Join(errs...)
}
