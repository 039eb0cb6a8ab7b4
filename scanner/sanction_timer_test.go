package scanner

import (
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mod-helper/model"
	"mod-helper/moderation"
	"mod-helper/utils/database/sanctions"
)

type fakeRoleSession struct {
	removed []string // "guildID/roleID"
}

func (f *fakeRoleSession) GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	return nil
}

func (f *fakeRoleSession) GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	f.removed = append(f.removed, guildID+"/"+roleID)
	return nil
}

type fakeBrowser struct {
	guilds  []*discordgo.Guild
	members map[string]*discordgo.Member // key: guildID/userID
}

func (f *fakeBrowser) Guilds() []*discordgo.Guild { return f.guilds }

func (f *fakeBrowser) Member(guildID, userID string) (*discordgo.Member, error) {
	member, ok := f.members[guildID+"/"+userID]
	if !ok {
		return nil, errors.New("member not found")
	}
	return member, nil
}

func TestTickLiftsExpiredSanctions(t *testing.T) {
	t.Setenv("BANNED_ROLES", "rb")

	db, err := sanctions.Init(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	start := time.Now().Add(-2 * time.Hour)
	end := time.Now().Add(-time.Hour)
	window := model.SanctionWindow{DurationSeconds: 3600, StartTime: start, EndTime: &end}
	require.NoError(t, sanctions.SetSanction(db, model.SanctionBan, "u1", window, "expired ban"))

	// u1 is unreachable in g1 and holds the ban role in g2; the g1 failure
	// must not stop the g2 cleanup.
	session := &fakeRoleSession{}
	browser := &fakeBrowser{
		guilds: []*discordgo.Guild{{ID: "g1"}, {ID: "g2"}},
		members: map[string]*discordgo.Member{
			"g2/u1": {User: &discordgo.User{ID: "u1"}, Roles: []string{"rb"}},
		},
	}

	service := moderation.NewService(db)
	reconciler := NewSanctionReconciler(db, service, moderation.NewRoleApplier(session), browser)
	reconciler.Tick()

	record, err := sanctions.GetSanctionRecord(db, "u1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.False(t, record.Banned)

	assert.Equal(t, []string{"g2/rb"}, session.removed)

	actions, err := sanctions.GetModerationActionsByUserID(db, "u1")
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, model.ActionUnban, actions[0].ActionType)
	assert.Equal(t, "Expired", actions[0].Reason)
}

func TestTickIgnoresActiveAndPermanent(t *testing.T) {
	t.Setenv("BANNED_ROLES", "rb")

	db, err := sanctions.Init(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	future := time.Now().Add(time.Hour)
	active := model.SanctionWindow{DurationSeconds: 3600, StartTime: time.Now(), EndTime: &future}
	require.NoError(t, sanctions.SetSanction(db, model.SanctionBan, "active", active, "a"))
	require.NoError(t, sanctions.SetSanction(db, model.SanctionBan, "permanent", model.SanctionWindow{StartTime: time.Now()}, "b"))

	session := &fakeRoleSession{}
	service := moderation.NewService(db)
	reconciler := NewSanctionReconciler(db, service, moderation.NewRoleApplier(session), &fakeBrowser{})
	reconciler.Tick()

	for _, userID := range []string{"active", "permanent"} {
		record, err := sanctions.GetSanctionRecord(db, userID)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.True(t, record.Banned)
	}
	assert.Empty(t, session.removed)
}

func TestTickSkipsWhenAlreadyRunning(t *testing.T) {
	db, err := sanctions.Init(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	end := time.Now().Add(-time.Hour)
	window := model.SanctionWindow{DurationSeconds: 3600, StartTime: end.Add(-time.Hour), EndTime: &end}
	require.NoError(t, sanctions.SetSanction(db, model.SanctionBan, "u1", window, "a"))

	service := moderation.NewService(db)
	reconciler := NewSanctionReconciler(db, service, moderation.NewRoleApplier(&fakeRoleSession{}), &fakeBrowser{})

	reconciler.running.Store(true)
	reconciler.Tick()

	record, err := sanctions.GetSanctionRecord(db, "u1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.Banned, "a skipped tick must not touch state")
}
