package admin

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"mod-helper/bot"
	"mod-helper/config"
	"mod-helper/utils"
)

func HandleReloadConfig(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if i.Member == nil || !isAdmin(i.Member.User.ID) {
		utils.SendErrorResponse(s, i, "You do not have permission to use this command.")
		return
	}

	if err := utils.DeferResponse(s, i, true); err != nil {
		return
	}

	if err := b.ReloadConfig(); err != nil {
		utils.SendFollowUpError(s, i.Interaction, fmt.Sprintf("Failed to reload configuration: %v", err))
		return
	}
	utils.SendFollowUpSuccess(s, i.Interaction, "Configuration reloaded.")
}

func isAdmin(userID string) bool {
	for _, id := range config.AdminUserIDs() {
		if id == userID {
			return true
		}
	}
	return false
}
