package handlers

import (
	"mod-helper/bot"
	"mod-helper/handlers/admin"
	"mod-helper/handlers/sanction"
	"mod-helper/model"
	"mod-helper/tasks/patreonguard"

	"github.com/bwmarrin/discordgo"
)

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"ban": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			sanction.HandleApply(s, i, b, model.SanctionBan)
		},
		"unban": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			sanction.HandleLift(s, i, b, model.SanctionBan)
		},
		"mute": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			sanction.HandleApply(s, i, b, model.SanctionMute)
		},
		"unmute": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			sanction.HandleLift(s, i, b, model.SanctionMute)
		},
		"approve": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			sanction.HandleApproval(s, i, b, true)
		},
		"disapprove": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			sanction.HandleApproval(s, i, b, false)
		},
		"system-info": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			SystemInfoHandler(s, i, b)
		},
		"reload-config": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			admin.HandleReloadConfig(s, i, b)
		},
	}
}

func addHandlers(b *bot.Bot) {
	s := b.Session
	cache := newMemberRoleCache()

	s.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		handleInteractionCreate(s, i, b)
	})
	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildCreate) {
		for _, member := range e.Members {
			cache.update(e.ID, member.User.ID, member.Roles)
		}
	})
	s.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		handleGuildMemberAdd(b, cache, s, m)
	})
	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildMemberUpdate) {
		cache.update(e.GuildID, e.User.ID, e.Roles)
	})
	s.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
		handleGuildMemberRemove(b, cache, m)
	})
	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildRoleDelete) {
		handleGuildRoleDelete(b, e)
	})
	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildDelete) {
		handleGuildDelete(b, cache, e)
	})

	guard := patreonguard.New(b.GetConfig().Guard, b.Applier, patreonguard.SessionMembers{Session: s})
	guard.Register(s)
}

func handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
		h(s, i)
	}
}
