package main

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"

	"github.com/yagapon/oshirase/internal/commands"
	"github.com/yagapon/oshirase/internal/config"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Manage Discord slash commands",
}

var commandsRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register slash commands (guild scoped when DISCORD_GUILD_ID is set)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, session, err := commandSession()
		if err != nil {
			return err
		}
		created, err := commands.Deploy(session, cfg.Discord.ClientID, cfg.Discord.GuildID)
		if err != nil {
			return fmt.Errorf("register commands: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "registered %d commands (%s)\n", len(created), scope(cfg))
		return nil
	},
}

var commandsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete every registered slash command in the configured scope",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, session, err := commandSession()
		if err != nil {
			return err
		}
		if err := commands.Clear(session, cfg.Discord.ClientID, cfg.Discord.GuildID); err != nil {
			return fmt.Errorf("delete commands: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted commands (%s)\n", scope(cfg))
		return nil
	},
}

func init() {
	commandsCmd.AddCommand(commandsRegisterCmd, commandsDeleteCmd)
}

// commandSession returns a REST-only session; the gateway is not opened.
func commandSession() (config.Config, *discordgo.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, nil, err
	}
	if err := cfg.ValidateCommands(); err != nil {
		return cfg, nil, err
	}
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return cfg, nil, fmt.Errorf("create discord session: %w", err)
	}
	return cfg, session, nil
}

func scope(cfg config.Config) string {
	if cfg.Discord.GuildID != "" {
		return "guild " + cfg.Discord.GuildID
	}
	return "global"
}
