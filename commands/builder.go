package commands

import (
	"mod-helper/commands/defs"

	"github.com/bwmarrin/discordgo"
)

// GenerateCommands returns the application command set to register.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Ban,
		defs.Unban,
		defs.Mute,
		defs.Unmute,
		defs.Approve,
		defs.Disapprove,
		defs.SystemInfo,
		defs.ReloadConfig,
	}
}
