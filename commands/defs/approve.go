package defs

import "github.com/bwmarrin/discordgo"

var approveCategories = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "Nation/Town Leader", Value: "leader"},
	{Name: "Mapper", Value: "mapper"},
	{Name: "Character", Value: "character"},
}

var Approve = &discordgo.ApplicationCommand{
	Name:        "approve",
	Description: "Give a user an approved role.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "type",
			Description: "What role are you handling?",
			Required:    true,
			Choices:     approveCategories,
		},
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "The user to approve.",
			Required:    true,
		},
	},
}

var Disapprove = &discordgo.ApplicationCommand{
	Name:        "disapprove",
	Description: "Remove a user's approved role.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "type",
			Description: "What role are you handling?",
			Required:    true,
			Choices:     approveCategories,
		},
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "The user to disapprove.",
			Required:    true,
		},
	},
}

var SystemInfo = &discordgo.ApplicationCommand{
	Name:        "system-info",
	Description: "Show bot host and moderation database statistics",
}
