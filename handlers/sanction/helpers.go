package sanction

import (
	"github.com/bwmarrin/discordgo"
)

type commandOptions struct {
	TargetUser *discordgo.User
	Duration   string
	Reason     string
	Category   string
}

func parseOptions(s *discordgo.Session, i *discordgo.InteractionCreate) commandOptions {
	var opts commandOptions
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			opts.TargetUser = opt.UserValue(s)
		case "duration":
			opts.Duration = opt.StringValue()
		case "reason":
			opts.Reason = opt.StringValue()
		case "type":
			opts.Category = opt.StringValue()
		}
	}
	return opts
}
