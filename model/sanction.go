package model

import "time"

// SanctionKind identifies which sanction a record field or role set refers to.
type SanctionKind string

const (
	SanctionBan  SanctionKind = "ban"
	SanctionMute SanctionKind = "mute"
)

// Action types written to the moderation_actions log.
const (
	ActionBan    = "BAN"
	ActionUnban  = "UNBAN"
	ActionMute   = "MUTE"
	ActionUnmute = "UNMUTE"
)

// SanctionWindow is the time range a sanction is active for.
// A nil EndTime means the sanction is permanent.
type SanctionWindow struct {
	DurationSeconds int64
	StartTime       time.Time
	EndTime         *time.Time
}

// Permanent reports whether the window never expires.
func (w SanctionWindow) Permanent() bool {
	return w.EndTime == nil
}

// SanctionRecord represents a single row in the 'users' table: the
// authoritative sanction state for one user, global across all guilds.
type SanctionRecord struct {
	UserID        string  `db:"user_id"` // Primary Key
	Banned        bool    `db:"banned"`
	BanStartTime  *int64  `db:"ban_start_time"` // unix seconds, NULL when not banned
	BanEndTime    *int64  `db:"ban_end_time"`   // NULL means permanent
	BanReason     *string `db:"ban_reason"`
	Muted         bool    `db:"muted"`
	MuteStartTime *int64  `db:"mute_start_time"`
	MuteEndTime   *int64  `db:"mute_end_time"` // NULL means permanent
	MuteReason    *string `db:"mute_reason"`
}

// ModerationAction is one append-only row in the 'moderation_actions' audit
// log. Rows are never updated or deleted.
type ModerationAction struct {
	ID           int64  `db:"id"` // Primary Key, Auto-increment
	ActionType   string `db:"action_type"`
	TargetUserID string `db:"target_user_id"`
	ModeratorID  string `db:"moderator_id"`
	GuildID      string `db:"guild_id"`
	Reason       string `db:"reason"`
	Duration     *int64 `db:"duration"` // seconds, NULL for lifts
	CreatedAt    int64  `db:"created_at"`
	ExpiresAt    *int64 `db:"expires_at"`
}

// RoleSnapshot is one role a member held at the moment they left a guild,
// stored so the role can be restored if they come back.
type RoleSnapshot struct {
	GuildID string `db:"guild_id"`
	UserID  string `db:"user_id"`
	RoleID  string `db:"role_id"`
}
