package misc

import (
	"context"
	"fmt"
	"strings"

	"github.com/lordralex/commandbot/api"
	"github.com/lordralex/commandbot/config"
)

func Ping() *api.Command {
	return &api.Command{
		Name:        "ping",
		Description: "Pong!",
		Handler:     reply("Pong!"),
	}
}

func Pong() *api.Command {
	return &api.Command{
		Name:        "pong",
		Description: "Ping!",
		Handler:     reply("Ping!"),
	}
}

// About reports who runs the bot, taken from the static configuration.
func About(cfg *config.Config) *api.Command {
	lines := make([]string, 0, 2)
	if cfg.OwnerID != "" {
		lines = append(lines, fmt.Sprintf("Owner: <@%s>", cfg.OwnerID))
	}
	if cfg.ApplicationID != "" {
		lines = append(lines, fmt.Sprintf("Application: %s", cfg.ApplicationID))
	}
	if len(lines) == 0 {
		lines = append(lines, "No owner configured")
	}

	return &api.Command{
		Name:        "about",
		Description: "Who runs this bot",
		Handler:     reply(strings.Join(lines, "\n")),
	}
}

func reply(content string) api.Handler {
	return func(ctx context.Context, r api.Responder, i *api.Interaction) error {
		return api.Reply(ctx, r, i, content)
	}
}
