package handlers

import "sync"

// memberRoleCache tracks the roles each member held as of the last gateway
// event that carried them. GUILD_MEMBER_REMOVE carries no role data and the
// session state evicts the member before user handlers run, so the departure
// snapshot has to come from here. Seeded from GUILD_CREATE member lists and
// kept current by member add/update events.
type memberRoleCache struct {
	mu     sync.Mutex
	guilds map[string]map[string][]string // guild ID -> user ID -> role IDs
}

func newMemberRoleCache() *memberRoleCache {
	return &memberRoleCache{guilds: make(map[string]map[string][]string)}
}

func (c *memberRoleCache) update(guildID, userID string, roleIDs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	members, ok := c.guilds[guildID]
	if !ok {
		members = make(map[string][]string)
		c.guilds[guildID] = members
	}
	members[userID] = append([]string(nil), roleIDs...)
}

// take returns the member's last known roles and forgets them. ok is false
// when the member was never observed in the guild.
func (c *memberRoleCache) take(guildID, userID string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	members, ok := c.guilds[guildID]
	if !ok {
		return nil, false
	}
	roleIDs, ok := members[userID]
	delete(members, userID)
	return roleIDs, ok
}

func (c *memberRoleCache) forgetGuild(guildID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.guilds, guildID)
}
