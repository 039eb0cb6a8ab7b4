package handlers

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"mod-helper/bot"
	"mod-helper/utils/database/sanctions"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

func SystemInfoHandler(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	// Get CPU info
	cpuCount, _ := cpu.Counts(true)
	cpuPercent, _ := cpu.Percent(0, false)
	cpuUsage := 0.0
	if len(cpuPercent) > 0 {
		cpuUsage = cpuPercent[0]
	}

	// Get memory info
	vm, _ := mem.VirtualMemory()

	// Get host info
	hostInfo, _ := host.Info()

	// Moderation database stats
	bans, mutes, err := sanctions.CountActiveSanctions(b.DB)
	if err != nil {
		log.Printf("Error counting active sanctions: %v", err)
	}
	actions, err := sanctions.CountModerationActions(b.DB)
	if err != nil {
		log.Printf("Error counting moderation actions: %v", err)
	}
	snapshots, err := sanctions.CountRoleSnapshots(b.DB)
	if err != nil {
		log.Printf("Error counting role snapshots: %v", err)
	}

	guilds := len(s.State.Guilds)

	embed := &discordgo.MessageEmbed{
		Title: "System Info",
		Color: 0x5865F2, // Discord Blurple
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💻 OS", Value: fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion), Inline: true},
			{Name: "🐹 Go Version", Value: runtime.Version(), Inline: true},
			{Name: "🔼 CPU Count", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
			{Name: "🔥 CPU Usage", Value: fmt.Sprintf("%.1f%%", cpuUsage), Inline: true},
			{Name: "🧠 Memory", Value: fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024), Inline: true},
			{Name: "⏱️ WebSocket Latency", Value: s.HeartbeatLatency().String(), Inline: true},
			{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "🌍 Guilds", Value: fmt.Sprintf("%d", guilds), Inline: true},
			{Name: "🔨 Active Bans", Value: fmt.Sprintf("%d", bans), Inline: true},
			{Name: "🔇 Active Mutes", Value: fmt.Sprintf("%d", mutes), Inline: true},
			{Name: "📜 Logged Actions", Value: fmt.Sprintf("%d", actions), Inline: true},
			{Name: "💾 Saved Roles", Value: fmt.Sprintf("%d", snapshots), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("System monitor · %s", time.Now().Format("15:04")),
		},
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	}); err != nil {
		log.Printf("Error sending system info response: %v", err)
	}
}
