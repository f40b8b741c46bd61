package api

import (
	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/commandbot/logger"
)

// GetGuild reads a guild from the session state, falling back to REST and
// caching the result in state.
func GetGuild(ds *discordgo.Session, guildId string) (*discordgo.Guild, error) {
	g, err := ds.State.Guild(guildId)
	if err == nil {
		return g, nil
	}

	// Try fetching via REST API
	g, err = ds.Guild(guildId)
	if err != nil {
		return nil, err
	}

	// Attempt to add this guild into our State
	if err = ds.State.GuildAdd(g); err != nil {
		logger.Err().Err(err).Str("guild", guildId).Msg("error updating State with Guild")
	}

	return g, nil
}
