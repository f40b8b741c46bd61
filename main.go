package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/commandbot/api"
	"github.com/lordralex/commandbot/config"
	"github.com/lordralex/commandbot/core"
	"github.com/lordralex/commandbot/gateway"
	"github.com/lordralex/commandbot/logger"
	"github.com/lordralex/commandbot/modules"
	"github.com/spf13/cobra"
)

// client is everything the bot needs from Discord.
type client interface {
	core.Gateway
	api.Remote
}

type app struct {
	configFile string
	logLevel   string
	catalog    *modules.Catalog
	connect    func(cfg *config.Config, intents *api.Intents) (client, error)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCommand(&app{catalog: modules.NewCatalog(), connect: connectDiscord}).ExecuteContext(ctx)
	cancel()

	if closeErr := logger.Close(); closeErr != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error closing logger: %s", closeErr.Error())
	}
	if err != nil {
		os.Exit(1)
	}
}

func connectDiscord(cfg *config.Config, intents *api.Intents) (client, error) {
	return gateway.New(cfg.Token, cfg.ApplicationID, intents)
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "commandbot",
		Short:         "Discord slash command bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context())
		},
	}

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "config file (default ./config.yaml if present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level, overrides log.level from the config")

	var available bool
	commands := &cobra.Command{
		Use:   "commands",
		Short: "Print the commands that would be synchronized",
		RunE: func(cmd *cobra.Command, args []string) error {
			if available {
				return a.listAvailable(cmd.OutOrStdout())
			}
			return a.listCommands(cmd.OutOrStdout())
		},
	}
	commands.Flags().BoolVar(&available, "available", false, "print every command name the config may use instead")
	root.AddCommand(commands)

	return root
}

func (a *app) run(ctx context.Context) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		if errors.Is(err, config.ErrMissingCredential) {
			logger.Err().Str("state", core.Terminated.String()).Msg(err.Error())
		} else {
			logger.Err().Err(err).Msg("Unable to load configuration")
		}
		return err
	}

	if err := a.applyLogLevel(cfg); err != nil {
		return err
	}

	registry, err := a.catalog.Build(cfg)
	if err != nil {
		logger.Err().Err(err).Msg("Unable to register commands")
		return err
	}

	intents := &api.Intents{}
	intents.Need(discordgo.IntentsGuilds, discordgo.IntentsGuildMessages)

	session, err := a.connect(cfg, intents)
	if err != nil {
		logger.Err().Err(err).Msg("Unable to create Discord session")
		return err
	}

	bot := core.NewBot(session, session, registry, cfg.Prune)
	if err := bot.Start(ctx); err != nil {
		logger.Err().Err(err).Msg("Unable to connect")
		return err
	}

	logger.Out().Msg("Now running. Press CTRL-C to exit.")
	<-ctx.Done()
	logger.Out().Msg("Shutting down")

	return bot.Stop()
}

func (a *app) applyLogLevel(cfg *config.Config) error {
	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	if err := logger.SetLevel(level); err != nil {
		logger.Err().Err(err).Str("log_level", level).Msg("Invalid log level")
		return err
	}
	return nil
}

func (a *app) listCommands(out io.Writer) error {
	cfg, err := config.LoadStatic(a.configFile)
	if err != nil {
		return err
	}

	registry, err := a.catalog.Build(cfg)
	if err != nil {
		return err
	}

	scopes := []api.Scope{api.Global}
	for _, v := range registry.Guilds() {
		scopes = append(scopes, api.Guild(v))
	}

	for _, scope := range scopes {
		for _, cmd := range registry.CommandsFor(scope) {
			if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", scope, cmd.Name, cmd.Description); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *app) listAvailable(out io.Writer) error {
	for _, v := range a.catalog.Names() {
		if _, err := fmt.Fprintln(out, v); err != nil {
			return err
		}
	}
	return nil
}
