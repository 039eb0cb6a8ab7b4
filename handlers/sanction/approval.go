package sanction

import (
	"fmt"
	"log"

	"mod-helper/bot"
	"mod-helper/config"
	"mod-helper/moderation"
	"mod-helper/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleApproval handles the /approve and /disapprove commands: granting or
// revoking the configured approved roles for a category, gated by the
// category's approver role set.
func HandleApproval(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, grant bool) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	opts := parseOptions(s, i)
	if i.Member == nil || opts.TargetUser == nil || opts.Category == "" {
		utils.SendFollowUpError(s, i.Interaction, "This command needs a guild context, a category, and a target user.")
		return
	}

	approvalRoles, approvedRoles := config.CategoryRoles(opts.Category)
	if !moderation.HasAnyRole(i.Member, approvalRoles) {
		utils.SendFollowUpError(s, i.Interaction, "You do not have the required permissions to execute this command.")
		return
	}

	targetMember := resolveTargetMember(s, i.GuildID, opts.TargetUser.ID)
	if targetMember == nil {
		utils.SendFollowUpError(s, i.Interaction, "The specified user could not be found.")
		return
	}

	if grant {
		b.Applier.GrantMissingRoles(i.GuildID, targetMember, approvedRoles, "Approved: "+opts.Category)
		utils.SendFollowUpSuccess(s, i.Interaction, fmt.Sprintf("Granted <@%s> the approved role.", opts.TargetUser.ID))
	} else {
		b.Applier.RevokeHeldRoles(i.GuildID, targetMember, approvedRoles, "Disapproved: "+opts.Category)
		utils.SendFollowUpSuccess(s, i.Interaction, fmt.Sprintf("Removed <@%s>'s approved role.", opts.TargetUser.ID))
	}
}
