package sanctions

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mod-helper/model"

	"github.com/jmoiron/sqlx"
)

// GetSanctionRecord retrieves the sanction record for a user, or nil if none exists.
func GetSanctionRecord(db *sqlx.DB, userID string) (*model.SanctionRecord, error) {
	var record model.SanctionRecord
	err := db.Get(&record, "SELECT * FROM users WHERE user_id = ?", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sanction record for user %s: %w", userID, err)
	}
	return &record, nil
}

// SetSanction upserts the sanction state for one kind on a user's record,
// leaving the other kind untouched.
func SetSanction(db *sqlx.DB, kind model.SanctionKind, userID string, window model.SanctionWindow, reason string) error {
	start := window.StartTime.Unix()
	var end *int64
	if window.EndTime != nil {
		e := window.EndTime.Unix()
		end = &e
	}

	var query string
	switch kind {
	case model.SanctionBan:
		query = `INSERT INTO users (user_id, banned, ban_start_time, ban_end_time, ban_reason)
		         VALUES (?, 1, ?, ?, ?)
		         ON CONFLICT(user_id) DO UPDATE SET banned = 1, ban_start_time = excluded.ban_start_time,
		             ban_end_time = excluded.ban_end_time, ban_reason = excluded.ban_reason`
	case model.SanctionMute:
		query = `INSERT INTO users (user_id, muted, mute_start_time, mute_end_time, mute_reason)
		         VALUES (?, 1, ?, ?, ?)
		         ON CONFLICT(user_id) DO UPDATE SET muted = 1, mute_start_time = excluded.mute_start_time,
		             mute_end_time = excluded.mute_end_time, mute_reason = excluded.mute_reason`
	default:
		return fmt.Errorf("unknown sanction kind: %s", kind)
	}

	if _, err := db.Exec(query, userID, start, end, reason); err != nil {
		return fmt.Errorf("failed to set %s for user %s: %w", kind, userID, err)
	}
	return nil
}

// ClearSanction upserts the record with the given kind's flag cleared and its
// window and reason set back to NULL.
func ClearSanction(db *sqlx.DB, kind model.SanctionKind, userID string) error {
	var query string
	switch kind {
	case model.SanctionBan:
		query = `INSERT INTO users (user_id) VALUES (?)
		         ON CONFLICT(user_id) DO UPDATE SET banned = 0, ban_start_time = NULL,
		             ban_end_time = NULL, ban_reason = NULL`
	case model.SanctionMute:
		query = `INSERT INTO users (user_id) VALUES (?)
		         ON CONFLICT(user_id) DO UPDATE SET muted = 0, mute_start_time = NULL,
		             mute_end_time = NULL, mute_reason = NULL`
	default:
		return fmt.Errorf("unknown sanction kind: %s", kind)
	}

	if _, err := db.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to clear %s for user %s: %w", kind, userID, err)
	}
	return nil
}

// MarkSanctionFlags upserts a record with the given flags without touching
// windows or reasons. Used by the departure handler as a fallback signal when
// no explicit record exists; an existing record is left as-is.
func MarkSanctionFlags(db *sqlx.DB, userID string, banned, muted bool) error {
	query := `INSERT INTO users (user_id, banned, muted) VALUES (?, ?, ?)
	          ON CONFLICT(user_id) DO NOTHING`
	if _, err := db.Exec(query, userID, banned, muted); err != nil {
		return fmt.Errorf("failed to mark sanction flags for user %s: %w", userID, err)
	}
	return nil
}

// GetExpiredSanctions retrieves all records whose sanction of the given kind
// has a non-permanent window that ended before now.
func GetExpiredSanctions(db *sqlx.DB, kind model.SanctionKind, now time.Time) ([]model.SanctionRecord, error) {
	var query string
	switch kind {
	case model.SanctionBan:
		query = `SELECT * FROM users WHERE banned = 1 AND ban_end_time IS NOT NULL AND ban_end_time < ?`
	case model.SanctionMute:
		query = `SELECT * FROM users WHERE muted = 1 AND mute_end_time IS NOT NULL AND mute_end_time < ?`
	default:
		return nil, fmt.Errorf("unknown sanction kind: %s", kind)
	}

	var records []model.SanctionRecord
	if err := db.Select(&records, query, now.Unix()); err != nil {
		return nil, fmt.Errorf("failed to get expired %ss: %w", kind, err)
	}
	return records, nil
}

// AddModerationAction appends a row to the moderation action log and returns its ID.
func AddModerationAction(db *sqlx.DB, action model.ModerationAction) (int64, error) {
	query := `INSERT INTO moderation_actions (action_type, target_user_id, moderator_id, guild_id, reason, duration, created_at, expires_at)
	          VALUES (:action_type, :target_user_id, :moderator_id, :guild_id, :reason, :duration, :created_at, :expires_at)`

	result, err := db.NamedExec(query, action)
	if err != nil {
		return 0, fmt.Errorf("failed to insert moderation action: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

// GetModerationActionsByUserID retrieves the audit log entries for a user,
// newest first.
func GetModerationActionsByUserID(db *sqlx.DB, userID string) ([]model.ModerationAction, error) {
	var actions []model.ModerationAction
	query := "SELECT * FROM moderation_actions WHERE target_user_id = ? ORDER BY created_at DESC"
	if err := db.Select(&actions, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get moderation actions for user %s: %w", userID, err)
	}
	return actions, nil
}

// UpsertGuild records that the bot has seen a guild.
func UpsertGuild(db *sqlx.DB, guildID string) error {
	query := `INSERT INTO guilds (guild_id) VALUES (?) ON CONFLICT(guild_id) DO NOTHING`
	if _, err := db.Exec(query, guildID); err != nil {
		return fmt.Errorf("failed to upsert guild %s: %w", guildID, err)
	}
	return nil
}

// DeleteGuild removes a guild and all role snapshots taken in it.
func DeleteGuild(db *sqlx.DB, guildID string) error {
	if _, err := db.Exec("DELETE FROM user_roles WHERE guild_id = ?", guildID); err != nil {
		return fmt.Errorf("failed to delete role snapshots for guild %s: %w", guildID, err)
	}
	if _, err := db.Exec("DELETE FROM guilds WHERE guild_id = ?", guildID); err != nil {
		return fmt.Errorf("failed to delete guild %s: %w", guildID, err)
	}
	return nil
}
