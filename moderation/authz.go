package moderation

import "github.com/bwmarrin/discordgo"

// Result is the outcome of a gated operation: either allowed, or rejected
// with a human-readable reason.
type Result struct {
	OK      bool
	Message string
}

func allow() Result {
	return Result{OK: true}
}

func deny(message string) Result {
	return Result{Message: message}
}

// CheckAuthorization decides whether the caller may act on the target. The
// caller must hold at least one role from the approval set, and the target's
// highest role must sit strictly below the caller's (equal or higher is
// rejected). A nil target means the user is not in the guild, which skips the
// hierarchy comparison. This check is pure and runs before any mutation.
func CheckAuthorization(caller, target *discordgo.Member, guildRoles []*discordgo.Role, approvalRoles []string) Result {
	if caller == nil {
		return deny("This command can only be used from inside a guild.")
	}

	if !HasAnyRole(caller, approvalRoles) {
		return deny("You do not have the required permissions to execute this command.")
	}

	if target != nil {
		if HighestRolePosition(target, guildRoles) >= HighestRolePosition(caller, guildRoles) {
			return deny("The target user has greater or equal permissions to you.")
		}
	}

	return allow()
}

// HasAnyRole reports whether the member holds at least one of the required roles.
func HasAnyRole(member *discordgo.Member, requiredRoles []string) bool {
	required := make(map[string]bool, len(requiredRoles))
	for _, roleID := range requiredRoles {
		required[roleID] = true
	}
	for _, roleID := range member.Roles {
		if required[roleID] {
			return true
		}
	}
	return false
}

// HighestRolePosition returns the position of the member's highest role.
// A member with no roles sits at the everyone role's position, 0.
func HighestRolePosition(member *discordgo.Member, guildRoles []*discordgo.Role) int {
	positions := make(map[string]int, len(guildRoles))
	for _, role := range guildRoles {
		positions[role.ID] = role.Position
	}

	highest := 0
	for _, roleID := range member.Roles {
		if pos, ok := positions[roleID]; ok && pos > highest {
			highest = pos
		}
	}
	return highest
}
