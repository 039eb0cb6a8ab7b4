package handlers

import (
	"log"

	"mod-helper/bot"
	"mod-helper/model"
	"mod-helper/moderation"
	"mod-helper/utils"
	"mod-helper/utils/database/sanctions"

	"github.com/bwmarrin/discordgo"
)

// handleGuildMemberAdd restores a returning member's state: sanction roles
// first if the record says they are still banned or muted, then the roles
// snapshotted when they last left this guild.
func handleGuildMemberAdd(b *bot.Bot, cache *memberRoleCache, s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	cache.update(m.GuildID, m.User.ID, m.Roles)

	record, err := b.Service.Record(m.User.ID)
	if err != nil {
		log.Printf("[Continuity] Error loading sanction record for user %s: %v", m.User.ID, err)
	}
	if record != nil {
		if record.Banned {
			b.Applier.ApplySanctionRoles(model.SanctionBan, m.GuildID, m.Member, "Reapplying ban on rejoin")
		}
		if record.Muted {
			b.Applier.ApplySanctionRoles(model.SanctionMute, m.GuildID, m.Member, "Reapplying mute on rejoin")
		}
	}

	restoreSnapshotRoles(b, s, m)
}

func restoreSnapshotRoles(b *bot.Bot, s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	snapshots, err := sanctions.GetRoleSnapshots(b.DB, m.GuildID, m.User.ID)
	if err != nil {
		log.Printf("[Continuity] Error loading role snapshots for user %s: %v", m.User.ID, err)
		return
	}
	if len(snapshots) == 0 {
		return
	}

	guildRoles, err := utils.GuildRoles(s, m.GuildID)
	if err != nil {
		log.Printf("[Continuity] Error fetching roles for guild %s: %v", m.GuildID, err)
		return
	}
	botMember, err := utils.BotMember(s, m.GuildID)
	if err != nil {
		log.Printf("[Continuity] Error fetching own membership in guild %s: %v", m.GuildID, err)
		return
	}

	restore := restorableRoles(snapshots, guildRoles, botMember, m.GuildID)
	if len(restore) == 0 {
		return
	}

	b.Applier.GrantMissingRoles(m.GuildID, m.Member, restore, "Restoring saved roles after rejoin")
	log.Printf("[Continuity] Restored %d roles for user %s in guild %s", len(restore), m.User.ID, m.GuildID)
}

// restorableRoles filters snapshot roles down to what the bot can actually
// grant: the bot cannot grant roles it does not itself outrank, the everyone
// role (id == guild id) is implicit, and deleted roles no longer exist.
func restorableRoles(snapshots []model.RoleSnapshot, guildRoles []*discordgo.Role, botMember *discordgo.Member, guildID string) []string {
	ceiling := moderation.HighestRolePosition(botMember, guildRoles)
	positions := make(map[string]int, len(guildRoles))
	for _, role := range guildRoles {
		positions[role.ID] = role.Position
	}

	var restore []string
	for _, snapshot := range snapshots {
		if snapshot.RoleID == guildID {
			continue
		}
		pos, exists := positions[snapshot.RoleID]
		if !exists || pos >= ceiling {
			continue
		}
		restore = append(restore, snapshot.RoleID)
	}
	return restore
}

// handleGuildMemberRemove records sanction flags and snapshots the member's
// roles so they survive a leave/rejoin cycle. The removal event itself
// carries only the user, so the roles come from the cache; a member that was
// never observed keeps whatever snapshot already exists rather than having it
// wiped. An explicit sanction record always wins; flags derived from held
// sanction roles only seed a record that does not exist yet.
func handleGuildMemberRemove(b *bot.Bot, cache *memberRoleCache, m *discordgo.GuildMemberRemove) {
	if err := sanctions.UpsertGuild(b.DB, m.GuildID); err != nil {
		log.Printf("[Continuity] Error recording guild %s: %v", m.GuildID, err)
	}

	roleIDs, ok := cache.take(m.GuildID, m.User.ID)
	if !ok {
		log.Printf("[Continuity] No cached roles for departing user %s in guild %s, keeping previous snapshot", m.User.ID, m.GuildID)
		return
	}

	banned := moderation.HoldsSanctionRole(model.SanctionBan, roleIDs)
	muted := moderation.HoldsSanctionRole(model.SanctionMute, roleIDs)
	if err := sanctions.MarkSanctionFlags(b.DB, m.User.ID, banned, muted); err != nil {
		log.Printf("[Continuity] Error marking sanction flags for user %s: %v", m.User.ID, err)
	}

	// Clearing old rows first keeps at most one snapshot set per user,
	// reflecting the most recent departure.
	if err := sanctions.ReplaceRoleSnapshots(b.DB, m.GuildID, m.User.ID, roleIDs); err != nil {
		log.Printf("[Continuity] Error saving role snapshots for user %s: %v", m.User.ID, err)
		return
	}
	log.Printf("[Continuity] Saved %d roles for departing user %s in guild %s", len(roleIDs), m.User.ID, m.GuildID)
}
