// Command yagapon runs the notification relay and manages its slash commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yagapon/oshirase/internal/config"
	"github.com/yagapon/oshirase/internal/version"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "yagapon",
	Short: "Discord notification relay for the festival committee",
	Long: `yagapon accepts notification payloads over HTTP, renders them per
department and posts them to Discord (or Slack). It also answers chat
triggers and slash commands on Discord.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP relay and the Discord bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		fmt.Fprintf(cmd.OutOrStdout(), "yagapon %s\n", info)
		if info.BuildTime != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "built %s with %s\n", info.BuildTime, info.GoVersion)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default $CONFIG_PATH or config.toml)")
	rootCmd.AddCommand(serveCmd, versionCmd, commandsCmd)
}

func loadConfig() (config.Config, error) {
	path := cfgFile
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
