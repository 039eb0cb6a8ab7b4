package config

import (
	"os"
	"strings"

	"mod-helper/model"
)

// Role-id lists come straight from the environment and are re-read on every
// call, so an operator can edit them without restarting the bot. Call
// frequency is low enough that the re-parse cost does not matter.

// SanctionRoles returns the role ids that constitute being banned or muted.
func SanctionRoles(kind model.SanctionKind) []string {
	switch kind {
	case model.SanctionBan:
		return splitRoleList(os.Getenv("BANNED_ROLES"))
	case model.SanctionMute:
		return splitRoleList(os.Getenv("MUTED_ROLES"))
	}
	return nil
}

// ApprovalRoles returns the role ids allowed to apply or lift a sanction kind.
func ApprovalRoles(kind model.SanctionKind) []string {
	switch kind {
	case model.SanctionBan:
		return splitRoleList(os.Getenv("ALLOW_BAN_ROLES"))
	case model.SanctionMute:
		return splitRoleList(os.Getenv("ALLOW_MUTE_ROLES"))
	}
	return nil
}

// CategoryRoles returns the approver role ids and the granted role ids for an
// approval category (e.g. "LEADER", "MAPPER", "CHARACTER").
func CategoryRoles(category string) (approval []string, approved []string) {
	key := strings.ToUpper(category)
	return splitRoleList(os.Getenv("APPROVAL_" + key + "_ROLES")),
		splitRoleList(os.Getenv("APPROVED_" + key + "_ROLES"))
}

// AdminUserIDs returns the user ids allowed to run administrative commands
// such as reload.
func AdminUserIDs() []string {
	return splitRoleList(os.Getenv("ADMIN_USER_IDS"))
}

func splitRoleList(raw string) []string {
	if raw == "" {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
