package sanctions

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CountActiveSanctions returns how many users are currently banned and muted.
func CountActiveSanctions(db *sqlx.DB) (bans int, mutes int, err error) {
	if err = db.Get(&bans, "SELECT COUNT(*) FROM users WHERE banned = 1"); err != nil {
		return 0, 0, fmt.Errorf("failed to count active bans: %w", err)
	}
	if err = db.Get(&mutes, "SELECT COUNT(*) FROM users WHERE muted = 1"); err != nil {
		return 0, 0, fmt.Errorf("failed to count active mutes: %w", err)
	}
	return bans, mutes, nil
}

// CountModerationActions returns the size of the audit log.
func CountModerationActions(db *sqlx.DB) (int, error) {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM moderation_actions"); err != nil {
		return 0, fmt.Errorf("failed to count moderation actions: %w", err)
	}
	return count, nil
}

// CountRoleSnapshots returns how many snapshot rows are stored.
func CountRoleSnapshots(db *sqlx.DB) (int, error) {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM user_roles"); err != nil {
		return 0, fmt.Errorf("failed to count role snapshots: %w", err)
	}
	return count, nil
}
