// Package commands implements the Discord slash commands: their definitions,
// registration and the interaction router.
package commands

import (
	"github.com/bwmarrin/discordgo"

	"github.com/yagapon/oshirase/internal/department"
)

const (
	NamePing    = "ping"
	NameHelp    = "help"
	NameIntro   = "intro"
	NameNotify  = "notify"
	NameMonthly = "monthly"
)

// Option names. The monthly command uses the Japanese option name users see.
const (
	optTitle             = "title"
	optDepartment        = "department"
	optDescription       = "description"
	optLocation          = "location"
	optSection           = "section"
	optMonthlyDepartment = "局"
)

func departmentChoices() []*discordgo.ApplicationCommandOptionChoice {
	names := department.Names()
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(names))
	for _, n := range names {
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: n, Value: n})
	}
	return out
}

// Definitions returns the application commands in registration order.
func Definitions() []*discordgo.ApplicationCommand {
	admin := int64(discordgo.PermissionAdministrator)
	return []*discordgo.ApplicationCommand{
		{
			Name:        NamePing,
			Description: "ボットの応答速度を確認します",
		},
		{
			Name:        NameHelp,
			Description: "やがぽんの使い方を表示します",
		},
		{
			Name:        NameIntro,
			Description: "おしらせやがぽんを紹介します",
		},
		{
			Name:                     NameNotify,
			Description:              "通知を送信します（管理者用）",
			DefaultMemberPermissions: &admin,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: optTitle, Description: "イベントのタイトル", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: optDepartment, Description: "局名", Required: true, Choices: departmentChoices()},
				{Type: discordgo.ApplicationCommandOptionString, Name: optDescription, Description: "イベントの説明"},
				{Type: discordgo.ApplicationCommandOptionString, Name: optLocation, Description: "場所"},
				{Type: discordgo.ApplicationCommandOptionString, Name: optSection, Description: "部署名"},
			},
		},
		{
			Name:        NameMonthly,
			Description: "月次処理を実行します",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: optMonthlyDepartment, Description: "月間予定を取得する局", Required: true, Choices: departmentChoices()},
			},
		},
	}
}

// Overwriter is the subset of *discordgo.Session used to manage commands.
type Overwriter interface {
	ApplicationCommandBulkOverwrite(appID, guildID string, cmds []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Deploy replaces the registered commands with Definitions. An empty
// guildID registers them globally.
func Deploy(api Overwriter, appID, guildID string) ([]*discordgo.ApplicationCommand, error) {
	return api.ApplicationCommandBulkOverwrite(appID, guildID, Definitions())
}

// Clear removes every registered command in the same scope Deploy uses.
func Clear(api Overwriter, appID, guildID string) error {
	_, err := api.ApplicationCommandBulkOverwrite(appID, guildID, []*discordgo.ApplicationCommand{})
	return err
}
