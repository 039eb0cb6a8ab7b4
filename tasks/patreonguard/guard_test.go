package patreonguard

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mod-helper/model"
	"mod-helper/moderation"
)

type fakeRoleSession struct {
	added []string
}

func (f *fakeRoleSession) GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	f.added = append(f.added, roleID)
	return nil
}

func (f *fakeRoleSession) GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	return nil
}

type fakeMembers struct {
	member *discordgo.Member
}

func (f *fakeMembers) Member(guildID, userID string) (*discordgo.Member, error) {
	if f.member == nil {
		return nil, errors.New("member not found")
	}
	return f.member, nil
}

func testGuard(cfg model.GuardConfig, session *fakeRoleSession, members *fakeMembers) *Guard {
	return New(cfg, moderation.NewRoleApplier(session), members)
}

func roleRemoveEntry(actorID, targetID string, roleIDs ...string) *discordgo.GuildAuditLogEntryCreate {
	action := discordgo.AuditLogActionMemberRoleUpdate
	key := discordgo.AuditLogChangeKeyRoleRemove

	removed := make([]interface{}, 0, len(roleIDs))
	for _, id := range roleIDs {
		removed = append(removed, map[string]interface{}{"id": id, "name": "Role " + id})
	}

	return &discordgo.GuildAuditLogEntryCreate{
		AuditLogEntry: &discordgo.AuditLogEntry{
			UserID:     actorID,
			TargetID:   targetID,
			ActionType: &action,
			Changes:    []*discordgo.AuditLogChange{{Key: &key, NewValue: removed}},
		},
		GuildID: "g1",
	}
}

func TestRemovedRoleID(t *testing.T) {
	entry := roleRemoveEntry("bot", "u1", "r1")
	assert.Equal(t, "r1", removedRoleID(entry.AuditLogEntry))

	multi := roleRemoveEntry("bot", "u1", "r1", "r2")
	assert.Empty(t, removedRoleID(multi.AuditLogEntry))

	key := discordgo.AuditLogChangeKeyRoleAdd
	added := &discordgo.AuditLogEntry{
		Changes: []*discordgo.AuditLogChange{{Key: &key, NewValue: []interface{}{map[string]interface{}{"id": "r1"}}}},
	}
	assert.Empty(t, removedRoleID(added))
}

func TestScheduleCoalescesRemovals(t *testing.T) {
	cfg := model.GuardConfig{Mode: model.GuardModeFixer, PatreonBotID: "patreon", FixDelay: 3600}
	guard := testGuard(cfg, &fakeRoleSession{}, &fakeMembers{})

	guard.handleAuditLogEntry(roleRemoveEntry("patreon", "u1", "r1"))
	guard.handleAuditLogEntry(roleRemoveEntry("patreon", "u1", "r2"))

	guard.mu.Lock()
	defer guard.mu.Unlock()
	require.Len(t, guard.pending, 1)
	entry := guard.pending["u1"]
	require.NotNil(t, entry)
	entry.timer.Stop()
	assert.Equal(t, []string{"r1", "r2"}, entry.roleIDs)
}

func TestHandleAuditLogEntryIgnoresOtherActors(t *testing.T) {
	cfg := model.GuardConfig{Mode: model.GuardModeFixer, PatreonBotID: "patreon", FixDelay: 3600}
	guard := testGuard(cfg, &fakeRoleSession{}, &fakeMembers{})

	guard.handleAuditLogEntry(roleRemoveEntry("human-mod", "u1", "r1"))

	guard.mu.Lock()
	defer guard.mu.Unlock()
	assert.Empty(t, guard.pending)
}

func TestCorrectRegrantsBatch(t *testing.T) {
	cfg := model.GuardConfig{Mode: model.GuardModeFixer, PatreonBotID: "patreon", FixDelay: 3600}
	session := &fakeRoleSession{}
	members := &fakeMembers{member: &discordgo.Member{User: &discordgo.User{ID: "u1"}, Roles: []string{"r1"}}}
	guard := testGuard(cfg, session, members)

	guard.handleAuditLogEntry(roleRemoveEntry("patreon", "u1", "r1"))
	guard.handleAuditLogEntry(roleRemoveEntry("patreon", "u1", "r2"))
	guard.mu.Lock()
	guard.pending["u1"].timer.Stop()
	guard.mu.Unlock()

	guard.correct("u1")

	// r1 came back on its own, only r2 needs re-granting.
	assert.Equal(t, []string{"r2"}, session.added)

	guard.mu.Lock()
	defer guard.mu.Unlock()
	assert.Empty(t, guard.pending)
}

func TestCorrectMemberLookupFailure(t *testing.T) {
	cfg := model.GuardConfig{Mode: model.GuardModeFixer, PatreonBotID: "patreon", FixDelay: 3600}
	session := &fakeRoleSession{}
	guard := testGuard(cfg, session, &fakeMembers{})

	guard.handleAuditLogEntry(roleRemoveEntry("patreon", "u1", "r1"))
	guard.mu.Lock()
	guard.pending["u1"].timer.Stop()
	guard.mu.Unlock()

	guard.correct("u1")

	assert.Empty(t, session.added)
	guard.mu.Lock()
	defer guard.mu.Unlock()
	assert.Empty(t, guard.pending, "a failed correction is dropped, not retried")
}

func TestSyncTriggersGrantsOnGain(t *testing.T) {
	cfg := model.GuardConfig{
		Mode:      model.GuardModeMirror,
		SyncRoles: map[string][]string{"trigger": {"s1", "s2"}},
	}
	session := &fakeRoleSession{}
	guard := testGuard(cfg, session, &fakeMembers{})

	member := &discordgo.Member{User: &discordgo.User{ID: "u1"}, Roles: []string{"trigger", "s1"}}
	guard.syncTriggers("g1", member, nil)

	assert.Equal(t, []string{"s2"}, session.added)
}

func TestSyncTriggersIgnoresAlreadyHeld(t *testing.T) {
	cfg := model.GuardConfig{
		Mode:      model.GuardModeMirror,
		SyncRoles: map[string][]string{"trigger": {"s1"}},
	}
	session := &fakeRoleSession{}
	guard := testGuard(cfg, session, &fakeMembers{})

	member := &discordgo.Member{User: &discordgo.User{ID: "u1"}, Roles: []string{"trigger"}}
	guard.syncTriggers("g1", member, []string{"trigger"})

	assert.Empty(t, session.added)
}
