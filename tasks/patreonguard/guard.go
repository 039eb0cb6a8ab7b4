package patreonguard

import (
	"log"
	"sync"
	"time"

	"mod-helper/model"
	"mod-helper/moderation"

	"github.com/bwmarrin/discordgo"
)

const defaultFixDelay = 10 * time.Second

// MemberSource resolves a member for role re-application.
type MemberSource interface {
	Member(guildID, userID string) (*discordgo.Member, error)
}

// SessionMembers adapts a live session to MemberSource, preferring the state
// cache over the REST API.
type SessionMembers struct {
	Session *discordgo.Session
}

func (m SessionMembers) Member(guildID, userID string) (*discordgo.Member, error) {
	if member, err := m.Session.State.Member(guildID, userID); err == nil {
		return member, nil
	}
	return m.Session.GuildMember(guildID, userID)
}

// correction is one user's batch of roles waiting to be re-granted.
type correction struct {
	guildID string
	roleIDs []string
	timer   *time.Timer
}

// Guard counters the Patreon Discord integration intermittently removing
// member roles. In fixer mode it watches the audit log for role removals by
// the Patreon bot and re-grants them after a short delay; removals arriving
// inside the delay are merged into the same batch so each batch is corrected
// exactly once. In mirror mode it instead syncs membership in a trigger role
// into a fixed set of roles whenever a member gains the trigger.
type Guard struct {
	cfg     model.GuardConfig
	applier *moderation.RoleApplier
	members MemberSource

	mu      sync.Mutex
	pending map[string]*correction // key: user ID
}

func New(cfg model.GuardConfig, applier *moderation.RoleApplier, members MemberSource) *Guard {
	return &Guard{
		cfg:     cfg,
		applier: applier,
		members: members,
		pending: make(map[string]*correction),
	}
}

// Register attaches the guard's event handlers for the configured mode.
func (g *Guard) Register(s *discordgo.Session) {
	switch g.cfg.Mode {
	case model.GuardModeFixer:
		s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildAuditLogEntryCreate) {
			g.handleAuditLogEntry(e)
		})
		log.Printf("[PatreonGuard] Fixer mode active, watching for removals by bot %s", g.cfg.PatreonBotID)
	case model.GuardModeMirror:
		s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildMemberUpdate) {
			g.handleMemberUpdate(e)
		})
		log.Printf("[PatreonGuard] Mirror mode active, syncing %d trigger roles", len(g.cfg.SyncRoles))
	default:
		log.Println("[PatreonGuard] No mode configured, guard disabled")
	}
}

func (g *Guard) handleAuditLogEntry(e *discordgo.GuildAuditLogEntryCreate) {
	if e.UserID != g.cfg.PatreonBotID {
		return
	}
	if e.ActionType == nil || *e.ActionType != discordgo.AuditLogActionMemberRoleUpdate {
		return
	}

	roleID := removedRoleID(e.AuditLogEntry)
	if roleID == "" {
		return
	}

	g.schedule(e.GuildID, e.TargetID, roleID)
}

// removedRoleID extracts the role from an audit entry whose single change set
// removed exactly one role. Anything else (additions, multi-role changes) is
// not a qualifying removal.
func removedRoleID(entry *discordgo.AuditLogEntry) string {
	if len(entry.Changes) != 1 {
		return ""
	}
	change := entry.Changes[0]
	if change.Key == nil || *change.Key != discordgo.AuditLogChangeKeyRoleRemove {
		return ""
	}

	removed, ok := change.NewValue.([]interface{})
	if !ok || len(removed) != 1 {
		return ""
	}
	role, ok := removed[0].(map[string]interface{})
	if !ok {
		return ""
	}
	id, _ := role["id"].(string)
	return id
}

// schedule merges the role into the user's pending batch. Only the first
// entry for a user starts the delay timer; later removals inside the window
// join the batch instead of scheduling a second correction.
func (g *Guard) schedule(guildID, userID, roleID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if entry, ok := g.pending[userID]; ok {
		entry.roleIDs = append(entry.roleIDs, roleID)
		log.Printf("[PatreonGuard] Merged role %s into pending fix for user %s", roleID, userID)
		return
	}

	entry := &correction{guildID: guildID, roleIDs: []string{roleID}}
	entry.timer = time.AfterFunc(g.fixDelay(), func() {
		g.correct(userID)
	})
	g.pending[userID] = entry
	log.Printf("[PatreonGuard] Scheduled Patreon fix for user %s in guild %s", userID, guildID)
}

// correct re-grants the user's pending batch and clears it.
func (g *Guard) correct(userID string) {
	g.mu.Lock()
	entry, ok := g.pending[userID]
	delete(g.pending, userID)
	g.mu.Unlock()

	if !ok {
		return
	}

	member, err := g.members.Member(entry.guildID, userID)
	if err != nil {
		log.Printf("[PatreonGuard] Cannot fix roles for user %s, member lookup failed: %v", userID, err)
		return
	}

	g.applier.GrantMissingRoles(entry.guildID, member, entry.roleIDs, "Overriding Patreon bot removing roles.")
	log.Printf("[PatreonGuard] Completed scheduled Patreon fix for user %s in guild %s", userID, entry.guildID)
}

func (g *Guard) handleMemberUpdate(e *discordgo.GuildMemberUpdate) {
	var before []string
	if e.BeforeUpdate != nil {
		before = e.BeforeUpdate.Roles
	}
	g.syncTriggers(e.GuildID, e.Member, before)
}

// syncTriggers grants the synced roles for every trigger role the member
// gained in this update.
func (g *Guard) syncTriggers(guildID string, member *discordgo.Member, beforeRoles []string) {
	had := make(map[string]bool, len(beforeRoles))
	for _, roleID := range beforeRoles {
		had[roleID] = true
	}
	has := make(map[string]bool, len(member.Roles))
	for _, roleID := range member.Roles {
		has[roleID] = true
	}

	for trigger, synced := range g.cfg.SyncRoles {
		if had[trigger] || !has[trigger] {
			continue
		}
		g.applier.GrantMissingRoles(guildID, member, synced, "Custom Patreon Role Synchronization")
		log.Printf("[PatreonGuard] Synced %d roles for user %s (trigger %s)", len(synced), member.User.ID, trigger)
	}
}

func (g *Guard) fixDelay() time.Duration {
	if g.cfg.FixDelay <= 0 {
		return defaultFixDelay
	}
	return time.Duration(g.cfg.FixDelay) * time.Second
}
