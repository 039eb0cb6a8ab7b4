package defs

import "github.com/bwmarrin/discordgo"

var Ban = &discordgo.ApplicationCommand{
	Name:        "ban",
	Description: "Ban a player from the discord",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "The user to ban.",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duration",
			Description: "How long the ban lasts, e.g. 3mo 1d 2h. Leave empty for permanent.",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "The reason for the ban.",
			Required:    false,
		},
	},
}

var Unban = &discordgo.ApplicationCommand{
	Name:        "unban",
	Description: "Unban a player from the discord",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "The user to unban.",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "The reason for the unban.",
			Required:    false,
		},
	},
}

var Mute = &discordgo.ApplicationCommand{
	Name:        "mute",
	Description: "Mute a player in the discord",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "The user to mute.",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duration",
			Description: "How long the mute lasts, e.g. 1w 2d. Leave empty for permanent.",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "The reason for the mute.",
			Required:    false,
		},
	},
}

var Unmute = &discordgo.ApplicationCommand{
	Name:        "unmute",
	Description: "Unmute a player in the discord",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "The user to unmute.",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "The reason for the unmute.",
			Required:    false,
		},
	},
}
