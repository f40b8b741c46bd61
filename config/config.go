package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lordralex/commandbot/api/env"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

var ErrMissingCredential = errors.New("DISCORD_TOKEN must be set in the environment to run this process")

// DefaultCommands is the command set used when nothing is configured.
var DefaultCommands = []string{"ping", "pong", "stats"}

type Guild struct {
	ID       string
	Commands []string
}

// Config is read once at startup and passed down explicitly.
type Config struct {
	Token          string
	OwnerID        string
	ApplicationID  string
	GlobalCommands []string
	Guilds         []Guild
	Prune          bool
	LogLevel       string
}

// Load checks for the bot token before anything else, then reads the
// static command configuration.
func Load(file string) (*Config, error) {
	loadDotEnv()

	source := env.New(viper.New())
	token, err := source.Get("discord.token")
	if err != nil {
		return nil, fmt.Errorf("reading discord token: %w", err)
	}
	if token == "" {
		return nil, ErrMissingCredential
	}

	cfg, err := load(source, file)
	if err != nil {
		return nil, err
	}
	cfg.Token = token
	return cfg, nil
}

// LoadStatic reads the configuration without requiring a token.
func LoadStatic(file string) (*Config, error) {
	loadDotEnv()
	return load(env.New(viper.New()), file)
}

func loadDotEnv() {
	// a missing .env is normal, the real environment is used instead
	_ = godotenv.Load()
}

func load(source *env.Source, file string) (*Config, error) {
	v := source.Viper()
	v.SetDefault("commands", DefaultCommands)
	v.SetDefault("log.level", "info")

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	guilds, err := parseGuilds(v.Get("guilds"))
	if err != nil {
		return nil, err
	}

	return &Config{
		OwnerID:        source.GetOr("owner.id", ""),
		ApplicationID:  source.GetOr("app.id", ""),
		GlobalCommands: toList(v.Get("commands")),
		Guilds:         guilds,
		Prune:          source.GetBoolOr("sync.prune", false),
		LogLevel:       source.GetOr("log.level", "info"),
	}, nil
}

// parseGuilds accepts either the map form from a config file
//
//	guilds:
//	  "1234":
//	    commands: [ping, stats]
//
// or the env form GUILDS="1234:ping,stats;5678:pong".
func parseGuilds(raw interface{}) ([]Guild, error) {
	if raw == nil {
		return nil, nil
	}

	if s, ok := raw.(string); ok {
		return parseGuildString(s)
	}

	entries, err := cast.ToStringMapE(raw)
	if err != nil {
		return nil, fmt.Errorf("guilds: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for k := range entries {
		ids = append(ids, k)
	}
	sort.Strings(ids)

	guilds := make([]Guild, 0, len(ids))
	for _, id := range ids {
		settings, err := cast.ToStringMapE(entries[id])
		if err != nil {
			return nil, fmt.Errorf("guild %s: %w", id, err)
		}
		guilds = append(guilds, Guild{ID: id, Commands: toList(settings["commands"])})
	}
	return guilds, nil
}

func parseGuildString(s string) ([]Guild, error) {
	var guilds []Guild

	for _, v := range strings.Split(s, ";") {
		if strings.TrimSpace(v) == "" {
			continue
		}
		parts := strings.SplitN(v, ":", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid guild entry %q, expected id:command,command", v)
		}
		guilds = append(guilds, Guild{ID: strings.TrimSpace(parts[0]), Commands: toList(parts[1])})
	}

	return guilds, nil
}

func toList(raw interface{}) []string {
	var items []string
	if s, ok := raw.(string); ok {
		items = strings.Split(s, ",")
	} else {
		items = cast.ToStringSlice(raw)
	}

	result := make([]string, 0, len(items))
	for _, v := range items {
		v = strings.TrimSpace(v)
		if v != "" {
			result = append(result, v)
		}
	}
	return result
}
