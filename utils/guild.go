package utils

import "github.com/bwmarrin/discordgo"

// GuildRoles returns a guild's roles from the state cache, falling back to
// the REST API when the guild is not cached.
func GuildRoles(s *discordgo.Session, guildID string) ([]*discordgo.Role, error) {
	if guild, err := s.State.Guild(guildID); err == nil && len(guild.Roles) > 0 {
		return guild.Roles, nil
	}
	return s.GuildRoles(guildID)
}

// BotMember returns the bot's own membership in a guild.
func BotMember(s *discordgo.Session, guildID string) (*discordgo.Member, error) {
	if member, err := s.State.Member(guildID, s.State.User.ID); err == nil {
		return member, nil
	}
	return s.GuildMember(guildID, s.State.User.ID)
}
