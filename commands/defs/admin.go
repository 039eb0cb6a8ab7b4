package defs

import "github.com/bwmarrin/discordgo"

var ReloadConfig = &discordgo.ApplicationCommand{
	Name:        "reload-config",
	Description: "Reload configuration from the environment",
}
