package modules

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lordralex/commandbot/api"
	"github.com/lordralex/commandbot/config"
	"github.com/lordralex/commandbot/logger"
	"github.com/lordralex/commandbot/modules/misc"
	"github.com/lordralex/commandbot/modules/stats"
)

var ErrUnknownCommand = errors.New("no command with that name")

// Factory builds a fresh descriptor, so each scope gets its own copy.
type Factory func(cfg *config.Config) *api.Command

// Catalog holds every command the bot knows how to run; the configuration
// picks which of them are declared in which scope.
type Catalog struct {
	available map[string]Factory
}

func NewCatalog() *Catalog {
	c := &Catalog{available: make(map[string]Factory)}
	c.Add("ping", func(*config.Config) *api.Command { return misc.Ping() })
	c.Add("pong", func(*config.Config) *api.Command { return misc.Pong() })
	c.Add("about", misc.About)
	c.Add("stats", func(*config.Config) *api.Command { return stats.Command() })
	return c
}

func (c *Catalog) Add(name string, factory Factory) {
	c.available[name] = factory
}

func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.available))
	for k := range c.available {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Build turns the configured command names into a registry.
func (c *Catalog) Build(cfg *config.Config) (*api.Registry, error) {
	registry := api.NewRegistry()

	if err := c.load(registry, api.Global, cfg, cfg.GlobalCommands); err != nil {
		return nil, err
	}

	for _, g := range cfg.Guilds {
		if err := c.load(registry, api.Guild(g.ID), cfg, g.Commands); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

func (c *Catalog) load(registry *api.Registry, scope api.Scope, cfg *config.Config, names []string) error {
	for _, v := range names {
		factory := c.available[v]
		if factory == nil {
			return fmt.Errorf("%s %q: %w", scope, v, ErrUnknownCommand)
		}

		if err := registry.Register(scope, factory(cfg)); err != nil {
			return err
		}
		logger.Debug().Str("scope", scope.String()).Str("command", v).Msg("Loaded command")
	}
	return nil
}
