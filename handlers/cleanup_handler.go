package handlers

import (
	"log"

	"mod-helper/bot"
	"mod-helper/utils/database/sanctions"

	"github.com/bwmarrin/discordgo"
)

// handleGuildRoleDelete drops snapshot rows referencing a role that no longer
// exists, so it can never be restored.
func handleGuildRoleDelete(b *bot.Bot, e *discordgo.GuildRoleDelete) {
	if err := sanctions.DeleteRoleSnapshotsByRole(b.DB, e.RoleID); err != nil {
		log.Printf("[Cleanup] Error deleting snapshots for role %s: %v", e.RoleID, err)
		return
	}
	log.Printf("[Cleanup] Deleted role %s from snapshots", e.RoleID)
}

// handleGuildDelete cleans up a guild the bot was removed from. An
// unavailable guild is a Discord outage, not a removal; its data has to
// survive the event.
func handleGuildDelete(b *bot.Bot, cache *memberRoleCache, e *discordgo.GuildDelete) {
	if e.Guild.Unavailable {
		return
	}

	cache.forgetGuild(e.Guild.ID)
	if err := sanctions.DeleteGuild(b.DB, e.Guild.ID); err != nil {
		log.Printf("[Cleanup] Error deleting guild %s: %v", e.Guild.ID, err)
		return
	}
	log.Printf("[Cleanup] Left guild %s, removed its snapshots", e.Guild.ID)
}
