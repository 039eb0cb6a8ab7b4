package handlers

import (
	"encoding/json"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mod-helper/bot"
	"mod-helper/model"
	"mod-helper/moderation"
	"mod-helper/utils/database/sanctions"
)

type fakeRoleSession struct {
	added   []string
	removed []string
}

func (f *fakeRoleSession) GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	f.added = append(f.added, roleID)
	return nil
}

func (f *fakeRoleSession) GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	f.removed = append(f.removed, roleID)
	return nil
}

// stateSession builds a session whose state cache holds guild g1 with the bot
// outranking r1 and r2, so restore paths never reach for the REST API.
func stateSession(t *testing.T) *discordgo.Session {
	t.Helper()
	state := discordgo.NewState()
	state.User = &discordgo.User{ID: "bot"}
	require.NoError(t, state.GuildAdd(&discordgo.Guild{
		ID: "g1",
		Roles: []*discordgo.Role{
			{ID: "bot-role", Position: 10},
			{ID: "r1", Position: 1},
			{ID: "r2", Position: 2},
		},
	}))
	require.NoError(t, state.MemberAdd(&discordgo.Member{
		GuildID: "g1",
		User:    &discordgo.User{ID: "bot"},
		Roles:   []string{"bot-role"},
	}))
	return &discordgo.Session{State: state}
}

func testBot(t *testing.T, session *fakeRoleSession) (*bot.Bot, *sqlx.DB) {
	t.Helper()
	db, err := sanctions.Init(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &bot.Bot{
		Session: stateSession(t),
		DB:      db,
		Service: moderation.NewService(db),
		Applier: moderation.NewRoleApplier(session),
	}, db
}

// removeEvent builds a GUILD_MEMBER_REMOVE the way the gateway delivers it:
// guild id and user only, no roles.
func removeEvent(t *testing.T, guildID, userID string) *discordgo.GuildMemberRemove {
	t.Helper()
	payload := `{"guild_id":"` + guildID + `","user":{"id":"` + userID + `"}}`
	var e discordgo.GuildMemberRemove
	require.NoError(t, json.Unmarshal([]byte(payload), &e))
	return &e
}

func joinEvent(guildID, userID string, roleIDs ...string) *discordgo.GuildMemberAdd {
	return &discordgo.GuildMemberAdd{Member: &discordgo.Member{
		GuildID: guildID,
		User:    &discordgo.User{ID: userID},
		Roles:   roleIDs,
	}}
}

func TestDepartureThenReturnRestoresRoles(t *testing.T) {
	t.Setenv("BANNED_ROLES", "")
	t.Setenv("MUTED_ROLES", "")

	session := &fakeRoleSession{}
	b, db := testBot(t, session)
	cache := newMemberRoleCache()

	handleGuildMemberAdd(b, cache, b.Session, joinEvent("g1", "u1", "r1", "r2"))
	handleGuildMemberRemove(b, cache, removeEvent(t, "g1", "u1"))

	snapshots, err := sanctions.GetRoleSnapshots(db, "g1", "u1")
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	handleGuildMemberAdd(b, cache, b.Session, joinEvent("g1", "u1"))
	assert.ElementsMatch(t, []string{"r1", "r2"}, session.added)
}

func TestDepartureWithoutCachedRolesKeepsSnapshot(t *testing.T) {
	b, db := testBot(t, &fakeRoleSession{})
	require.NoError(t, sanctions.ReplaceRoleSnapshots(db, "g1", "u1", []string{"r1", "r2"}))

	// The removal event alone says nothing about roles; a member never seen
	// by this process must not wipe the snapshot from their last departure.
	handleGuildMemberRemove(b, newMemberRoleCache(), removeEvent(t, "g1", "u1"))

	snapshots, err := sanctions.GetRoleSnapshots(db, "g1", "u1")
	require.NoError(t, err)
	assert.Len(t, snapshots, 2)

	record, err := sanctions.GetSanctionRecord(db, "u1")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestDepartureDerivesSanctionFlags(t *testing.T) {
	t.Setenv("BANNED_ROLES", "rb")
	t.Setenv("MUTED_ROLES", "rm")

	b, db := testBot(t, &fakeRoleSession{})
	cache := newMemberRoleCache()
	cache.update("g1", "u1", []string{"rb", "other"})

	handleGuildMemberRemove(b, cache, removeEvent(t, "g1", "u1"))

	record, err := sanctions.GetSanctionRecord(db, "u1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.Banned)
	assert.False(t, record.Muted)

	snapshots, err := sanctions.GetRoleSnapshots(db, "g1", "u1")
	require.NoError(t, err)
	assert.Len(t, snapshots, 2)
}

func TestReturnReappliesSanctionRoles(t *testing.T) {
	t.Setenv("BANNED_ROLES", "rb")
	t.Setenv("MUTED_ROLES", "")

	session := &fakeRoleSession{}
	b, _ := testBot(t, session)

	window := moderation.ParseDuration("1d")
	require.NoError(t, b.Service.ApplySanction(model.SanctionBan, "u1", window, "mod1", "g1", "spam"))

	handleGuildMemberAdd(b, newMemberRoleCache(), b.Session, joinEvent("g1", "u1"))
	assert.Equal(t, []string{"rb"}, session.added)
}

func TestMemberRoleCacheTake(t *testing.T) {
	cache := newMemberRoleCache()
	cache.update("g1", "u1", []string{"r1"})
	cache.update("g1", "u1", []string{"r1", "r2"})

	roles, ok := cache.take("g1", "u1")
	require.True(t, ok)
	assert.Equal(t, []string{"r1", "r2"}, roles)

	_, ok = cache.take("g1", "u1")
	assert.False(t, ok)
}

func snapshotsFor(roleIDs ...string) []model.RoleSnapshot {
	snapshots := make([]model.RoleSnapshot, 0, len(roleIDs))
	for _, id := range roleIDs {
		snapshots = append(snapshots, model.RoleSnapshot{GuildID: "g1", UserID: "u1", RoleID: id})
	}
	return snapshots
}

func TestRestorableRoles(t *testing.T) {
	guildRoles := []*discordgo.Role{
		{ID: "bot-role", Position: 10},
		{ID: "admin", Position: 15},
		{ID: "equal", Position: 10},
		{ID: "member", Position: 1},
		{ID: "vip", Position: 5},
	}
	botMember := &discordgo.Member{User: &discordgo.User{ID: "bot"}, Roles: []string{"bot-role"}}

	restore := restorableRoles(
		snapshotsFor("admin", "equal", "member", "vip", "deleted", "g1"),
		guildRoles, botMember, "g1",
	)

	// Above the bot, at the bot's own level, deleted, and the everyone role
	// are all dropped.
	assert.Equal(t, []string{"member", "vip"}, restore)
}

func TestRestorableRolesPowerlessBot(t *testing.T) {
	guildRoles := []*discordgo.Role{{ID: "member", Position: 1}}
	botMember := &discordgo.Member{User: &discordgo.User{ID: "bot"}}

	restore := restorableRoles(snapshotsFor("member"), guildRoles, botMember, "g1")
	assert.Empty(t, restore, "a bot with no roles cannot restore anything")
}
