package commands

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	embedColor  = 0x5865f2
	embedFooter = "おしらせやがぽん - 矢上祭実行委員会通知ボット"
)

const introDescription = "やっほー！やがぽんだぽん！<:front_face:1439180911685013625>\n" +
	"\n" +
	"僕は**矢上祭実行委員会のお知らせ専門ボット**だぽん！\n" +
	"各局のイベントやミーティングの通知を、かわいく分かりやすくお届けするのが僕のお仕事だぽん！\n" +
	"\n" +
	"**できること**\n" +
	"✨ 各局ごとに色分けされた通知を送信\n" +
	"📢 一か月の予定を見やすく整理\n" +
	"🎨 やがぽんからの応援メッセージ付き\n" +
	"\n" +
	"みんなの実行委員会活動を全力でサポートするぽん！\n" +
	"困ったことがあったら `/help` で使い方を確認してね！"

func helpEmbed(now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color:       embedColor,
		Title:       "🤖 やがぽん - コマンド一覧",
		Description: "やがぽんボットの使い方だぽん！",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📍 /ping", Value: "ボットの応答速度を確認します"},
			{Name: "📢 /notify", Value: "通知を送信します（管理者専用）\n各種オプションでタイトル、説明、場所、局などを指定できます"},
			{Name: "📅 /monthly", Value: "局の月間予定をこのチャンネルにお届けします"},
			{Name: "❓ /help", Value: "このヘルプメッセージを表示します"},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: embedFooter},
		Timestamp: now.Format(time.RFC3339),
	}
}

func introEmbed(now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color:       embedColor,
		Title:       "<:face:1439173874368381011> おしらせやがぽん",
		Description: introDescription,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📅 /monthly", Value: "今月の矢上祭実行委員会の予定をお届けするよ！"},
			{Name: "❓ /help", Value: "このヘルプメッセージを表示します"},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: embedFooter},
		Timestamp: now.Format(time.RFC3339),
	}
}
