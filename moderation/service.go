package moderation

import (
	"fmt"
	"time"

	"mod-helper/model"
	"mod-helper/utils/database/sanctions"

	"github.com/jmoiron/sqlx"
)

// Service owns sanction state transitions and the audit trail. It never
// touches live role membership; that is the RoleApplier's job. Keeping state
// and effect apart lets the reconciliation loop retry effect application
// without re-deriving state.
type Service struct {
	db *sqlx.DB
}

func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// ApplySanction marks the user as sanctioned for the window and appends a
// BAN or MUTE entry to the action log.
func (s *Service) ApplySanction(kind model.SanctionKind, targetUserID string, window model.SanctionWindow, moderatorID, guildID, reason string) error {
	if reason == "" {
		reason = "Unknown reason"
	}

	if err := sanctions.SetSanction(s.db, kind, targetUserID, window, reason); err != nil {
		return err
	}

	duration := window.DurationSeconds
	action := model.ModerationAction{
		ActionType:   applyActionType(kind),
		TargetUserID: targetUserID,
		ModeratorID:  moderatorID,
		GuildID:      guildID,
		Reason:       reason,
		Duration:     &duration,
		CreatedAt:    window.StartTime.Unix(),
	}
	if window.EndTime != nil {
		expires := window.EndTime.Unix()
		action.ExpiresAt = &expires
	}

	if _, err := sanctions.AddModerationAction(s.db, action); err != nil {
		return fmt.Errorf("sanction applied but audit log failed: %w", err)
	}
	return nil
}

// LiftSanction clears the user's sanction state for the kind and appends an
// UNBAN or UNMUTE entry. Lifting an already-lifted sanction is a state no-op
// but is still logged: every lift attempt is audited.
func (s *Service) LiftSanction(kind model.SanctionKind, targetUserID, moderatorID, guildID, reason string) error {
	if reason == "" {
		reason = "Unknown reason"
	}

	if err := sanctions.ClearSanction(s.db, kind, targetUserID); err != nil {
		return err
	}

	action := model.ModerationAction{
		ActionType:   liftActionType(kind),
		TargetUserID: targetUserID,
		ModeratorID:  moderatorID,
		GuildID:      guildID,
		Reason:       reason,
		CreatedAt:    time.Now().Unix(),
	}

	if _, err := sanctions.AddModerationAction(s.db, action); err != nil {
		return fmt.Errorf("sanction lifted but audit log failed: %w", err)
	}
	return nil
}

// Record returns the user's sanction record, or nil if none exists.
func (s *Service) Record(userID string) (*model.SanctionRecord, error) {
	return sanctions.GetSanctionRecord(s.db, userID)
}

func applyActionType(kind model.SanctionKind) string {
	if kind == model.SanctionMute {
		return model.ActionMute
	}
	return model.ActionBan
}

func liftActionType(kind model.SanctionKind) string {
	if kind == model.SanctionMute {
		return model.ActionUnmute
	}
	return model.ActionUnban
}
