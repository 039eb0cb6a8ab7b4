package sanctions

import (
	"fmt"

	"mod-helper/model"

	"github.com/jmoiron/sqlx"
)

// ReplaceRoleSnapshots deletes every snapshot row for the user (across all
// guilds) and inserts one row per currently-held role. Clearing first keeps
// the stale-snapshot invariant: at most one snapshot set per user, always
// from the most recent departure.
func ReplaceRoleSnapshots(db *sqlx.DB, guildID, userID string, roleIDs []string) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM user_roles WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear old role snapshots for user %s: %w", userID, err)
	}

	for _, roleID := range roleIDs {
		_, err := tx.Exec(`INSERT INTO user_roles (guild_id, user_id, role_id) VALUES (?, ?, ?)
		                   ON CONFLICT(guild_id, user_id, role_id) DO NOTHING`, guildID, userID, roleID)
		if err != nil {
			return fmt.Errorf("failed to save role snapshot (%s, %s, %s): %w", guildID, userID, roleID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit role snapshots for user %s: %w", userID, err)
	}
	return nil
}

// GetRoleSnapshots retrieves the roles saved for a user in one guild.
func GetRoleSnapshots(db *sqlx.DB, guildID, userID string) ([]model.RoleSnapshot, error) {
	var snapshots []model.RoleSnapshot
	query := "SELECT * FROM user_roles WHERE guild_id = ? AND user_id = ?"
	if err := db.Select(&snapshots, query, guildID, userID); err != nil {
		return nil, fmt.Errorf("failed to get role snapshots for user %s in guild %s: %w", userID, guildID, err)
	}
	return snapshots, nil
}

// DeleteRoleSnapshotsByRole removes every snapshot row referencing a role.
// Called when the role itself is deleted from a guild.
func DeleteRoleSnapshotsByRole(db *sqlx.DB, roleID string) error {
	if _, err := db.Exec("DELETE FROM user_roles WHERE role_id = ?", roleID); err != nil {
		return fmt.Errorf("failed to delete role snapshots for role %s: %w", roleID, err)
	}
	return nil
}
