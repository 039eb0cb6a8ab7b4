package sanction

import (
	"fmt"
	"log"
	"strings"

	"mod-helper/bot"
	"mod-helper/config"
	"mod-helper/model"
	"mod-helper/moderation"
	"mod-helper/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleApply handles the /ban and /mute commands.
func HandleApply(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, kind model.SanctionKind) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	opts := parseOptions(s, i)
	if i.Member == nil || opts.TargetUser == nil {
		utils.SendFollowUpError(s, i.Interaction, "This command needs a guild context and a target user.")
		return
	}

	targetMember := resolveTargetMember(s, i.GuildID, opts.TargetUser.ID)
	if res := authorize(s, i, targetMember, kind); !res.OK {
		utils.SendFollowUpError(s, i.Interaction, res.Message)
		return
	}

	if !utils.CheckAndSetModerationLock(opts.TargetUser.ID) {
		utils.SendFollowUpError(s, i.Interaction, "This user is already being processed by another moderation action.")
		return
	}
	defer utils.ReleaseModerationLock(opts.TargetUser.ID)

	window := moderation.ParseDuration(opts.Duration)
	err := b.Service.ApplySanction(kind, opts.TargetUser.ID, window, i.Member.User.ID, i.GuildID, opts.Reason)
	if err != nil {
		log.Printf("Error applying %s to user %s: %v", kind, opts.TargetUser.ID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to save the sanction record.")
		reportError(b, kind, err)
		return
	}

	// The target may not be in this guild at all; the record alone is enough,
	// role effects catch up when they show up somewhere.
	if targetMember != nil {
		b.Applier.ApplySanctionRoles(kind, i.GuildID, targetMember, opts.Reason)
	}

	utils.SendFollowUpSuccess(s, i.Interaction, fmt.Sprintf("%s <@%s> %s.", applyVerb(kind), opts.TargetUser.ID, describeWindow(window)))
	logAction(b, i, applyVerb(kind), opts.TargetUser.ID, opts.Reason)
}

// HandleLift handles the /unban and /unmute commands.
func HandleLift(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, kind model.SanctionKind) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	opts := parseOptions(s, i)
	if i.Member == nil || opts.TargetUser == nil {
		utils.SendFollowUpError(s, i.Interaction, "This command needs a guild context and a target user.")
		return
	}

	targetMember := resolveTargetMember(s, i.GuildID, opts.TargetUser.ID)
	if res := authorize(s, i, targetMember, kind); !res.OK {
		utils.SendFollowUpError(s, i.Interaction, res.Message)
		return
	}

	if !utils.CheckAndSetModerationLock(opts.TargetUser.ID) {
		utils.SendFollowUpError(s, i.Interaction, "This user is already being processed by another moderation action.")
		return
	}
	defer utils.ReleaseModerationLock(opts.TargetUser.ID)

	err := b.Service.LiftSanction(kind, opts.TargetUser.ID, i.Member.User.ID, i.GuildID, opts.Reason)
	if err != nil {
		log.Printf("Error lifting %s for user %s: %v", kind, opts.TargetUser.ID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to update the sanction record.")
		reportError(b, kind, err)
		return
	}

	// Cleanup in this guild only; the reconciliation loop keeps the rest of
	// the guilds consistent with the record.
	if targetMember != nil {
		b.Applier.RemoveSanctionRoles(kind, i.GuildID, targetMember, opts.Reason)
	}

	utils.SendFollowUpSuccess(s, i.Interaction, fmt.Sprintf("%s <@%s>.", liftVerb(kind), opts.TargetUser.ID))
	logAction(b, i, liftVerb(kind), opts.TargetUser.ID, opts.Reason)
}

func authorize(s *discordgo.Session, i *discordgo.InteractionCreate, targetMember *discordgo.Member, kind model.SanctionKind) moderation.Result {
	guildRoles, err := utils.GuildRoles(s, i.GuildID)
	if err != nil {
		log.Printf("Error fetching roles for guild %s: %v", i.GuildID, err)
		return moderation.Result{Message: "The guild's roles could not be loaded."}
	}
	return moderation.CheckAuthorization(i.Member, targetMember, guildRoles, config.ApprovalRoles(kind))
}

// resolveTargetMember returns nil when the user is not a member of the guild.
func resolveTargetMember(s *discordgo.Session, guildID, userID string) *discordgo.Member {
	if member, err := s.State.Member(guildID, userID); err == nil {
		return member
	}
	member, err := s.GuildMember(guildID, userID)
	if err != nil {
		return nil
	}
	return member
}

func describeWindow(window model.SanctionWindow) string {
	if window.Permanent() {
		return "permanently"
	}
	return "for " + moderation.FormatDuration(window.DurationSeconds)
}

func applyVerb(kind model.SanctionKind) string {
	if kind == model.SanctionMute {
		return "Muted"
	}
	return "Banned"
}

func liftVerb(kind model.SanctionKind) string {
	if kind == model.SanctionMute {
		return "Unmuted"
	}
	return "Unbanned"
}

func logAction(b *bot.Bot, i *discordgo.InteractionCreate, verb, targetID, reason string) {
	if reason == "" {
		reason = "Unknown reason"
	}
	detail := fmt.Sprintf("%s user %s (moderator %s): %s", verb, targetID, i.Member.User.ID, reason)
	if err := utils.LogInfo(b.GetConfig().LogWebhookURL, "Moderation", strings.ToUpper(verb), detail); err != nil {
		log.Printf("Failed to send moderation log: %v", err)
	}
}

func reportError(b *bot.Bot, kind model.SanctionKind, err error) {
	if logErr := utils.LogError(b.GetConfig().LogWebhookURL, "Moderation", string(kind), err.Error()); logErr != nil {
		log.Printf("Failed to send error log: %v", logErr)
	}
}
