package scanner

import (
	"log"
	"sync/atomic"
	"time"

	"mod-helper/model"
	"mod-helper/moderation"
	"mod-helper/utils/database/sanctions"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// GuildBrowser is the slice of the discord session the reconciliation loop
// needs to enumerate live membership.
type GuildBrowser interface {
	Guilds() []*discordgo.Guild
	Member(guildID, userID string) (*discordgo.Member, error)
}

// SessionBrowser adapts a live session to GuildBrowser, preferring the state
// cache and falling back to the REST API for uncached members.
type SessionBrowser struct {
	Session *discordgo.Session
}

func (b SessionBrowser) Guilds() []*discordgo.Guild {
	return b.Session.State.Guilds
}

func (b SessionBrowser) Member(guildID, userID string) (*discordgo.Member, error) {
	if member, err := b.Session.State.Member(guildID, userID); err == nil {
		return member, nil
	}
	return b.Session.GuildMember(guildID, userID)
}

// SanctionReconciler periodically compares persisted sanction state against
// live role membership. Each tick lifts every expired ban and mute and then
// fans the role cleanup out across all visible guilds. Lifts and removals are
// both idempotent, so a tick that partially failed is simply finished by the
// next one.
type SanctionReconciler struct {
	db      *sqlx.DB
	service *moderation.Service
	applier *moderation.RoleApplier
	browser GuildBrowser
	running atomic.Bool
}

func NewSanctionReconciler(db *sqlx.DB, service *moderation.Service, applier *moderation.RoleApplier, browser GuildBrowser) *SanctionReconciler {
	return &SanctionReconciler{
		db:      db,
		service: service,
		applier: applier,
		browser: browser,
	}
}

// Tick runs one reconciliation pass. Ticks are serialized: if the previous
// pass is still in flight, this one is skipped instead of overlapping it.
func (r *SanctionReconciler) Tick() {
	if !r.running.CompareAndSwap(false, true) {
		log.Println("[SanctionTimer] Previous tick still running, skipping")
		return
	}
	defer r.running.Store(false)

	now := time.Now()
	r.sweep(model.SanctionBan, now)
	r.sweep(model.SanctionMute, now)
}

func (r *SanctionReconciler) sweep(kind model.SanctionKind, now time.Time) {
	records, err := sanctions.GetExpiredSanctions(r.db, kind, now)
	if err != nil {
		log.Printf("[SanctionTimer] Error getting expired %ss: %v", kind, err)
		return
	}

	for _, record := range records {
		if err := r.service.LiftSanction(kind, record.UserID, "", "", "Expired"); err != nil {
			log.Printf("[SanctionTimer] Failed to lift expired %s for user %s: %v", kind, record.UserID, err)
			continue
		}

		// The user may hold sanction roles in any guild, or in none at all.
		// A failed lookup just means they are not a member there.
		for _, guild := range r.browser.Guilds() {
			member, err := r.browser.Member(guild.ID, record.UserID)
			if err != nil || member == nil {
				continue
			}
			r.applier.RemoveSanctionRoles(kind, guild.ID, member, "Expired")
		}

		log.Printf("[SanctionTimer] Lifted expired %s for user %s", kind, record.UserID)
	}
}
