package moderation

import (
	"log"

	"mod-helper/config"
	"mod-helper/model"

	"github.com/bwmarrin/discordgo"
)

// RoleSession is the slice of the discord session the applier needs.
type RoleSession interface {
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

// RoleApplier is the single component that mutates live role membership.
// Every operation is a set difference against the member's current roles, so
// repeated calls are idempotent and safe to retry. Individual role failures
// are logged and skipped, never fatal.
type RoleApplier struct {
	session RoleSession
}

func NewRoleApplier(session RoleSession) *RoleApplier {
	return &RoleApplier{session: session}
}

// ApplySanctionRoles grants every configured sanction role for the kind that
// the member does not already hold.
func (a *RoleApplier) ApplySanctionRoles(kind model.SanctionKind, guildID string, member *discordgo.Member, reason string) {
	a.GrantMissingRoles(guildID, member, config.SanctionRoles(kind), reason)
}

// RemoveSanctionRoles revokes every configured sanction role for the kind
// that the member holds.
func (a *RoleApplier) RemoveSanctionRoles(kind model.SanctionKind, guildID string, member *discordgo.Member, reason string) {
	a.RevokeHeldRoles(guildID, member, config.SanctionRoles(kind), reason)
}

// GrantMissingRoles adds each of the given roles the member lacks.
func (a *RoleApplier) GrantMissingRoles(guildID string, member *discordgo.Member, roleIDs []string, reason string) {
	held := heldRoleSet(member)
	for _, roleID := range roleIDs {
		if held[roleID] {
			continue
		}
		err := a.session.GuildMemberRoleAdd(guildID, member.User.ID, roleID, discordgo.WithAuditLogReason(reason))
		if err != nil {
			log.Printf("[RoleApplier] Failed to add role %s to user %s in guild %s: %v", roleID, member.User.ID, guildID, err)
		}
	}
}

// RevokeHeldRoles removes each of the given roles the member holds.
func (a *RoleApplier) RevokeHeldRoles(guildID string, member *discordgo.Member, roleIDs []string, reason string) {
	held := heldRoleSet(member)
	for _, roleID := range roleIDs {
		if !held[roleID] {
			continue
		}
		err := a.session.GuildMemberRoleRemove(guildID, member.User.ID, roleID, discordgo.WithAuditLogReason(reason))
		if err != nil {
			log.Printf("[RoleApplier] Failed to remove role %s from user %s in guild %s: %v", roleID, member.User.ID, guildID, err)
		}
	}
}

// HoldsSanctionRole reports whether the role list contains any configured
// sanction role of the given kind. Used as a fallback signal on departure
// when no explicit sanction record exists.
func HoldsSanctionRole(kind model.SanctionKind, roleIDs []string) bool {
	held := make(map[string]bool, len(roleIDs))
	for _, roleID := range roleIDs {
		held[roleID] = true
	}
	for _, roleID := range config.SanctionRoles(kind) {
		if held[roleID] {
			return true
		}
	}
	return false
}

func heldRoleSet(member *discordgo.Member) map[string]bool {
	held := make(map[string]bool, len(member.Roles))
	for _, roleID := range member.Roles {
		held[roleID] = true
	}
	return held
}
