package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/lordralex/commandbot/api"
	"github.com/lordralex/commandbot/logger"
)

var ErrRemoteSync = errors.New("remote command sync failed")

// SyncError reports which push aborted a synchronization pass.
type SyncError struct {
	Scope   api.Scope
	Command string
	Err     error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s: %s %q: %v", ErrRemoteSync, e.Scope, e.Command, e.Err)
}

func (e *SyncError) Unwrap() []error {
	return []error{ErrRemoteSync, e.Err}
}

// GuildNamer resolves guild display names for log output.
type GuildNamer interface {
	GuildName(guildID string) (string, error)
}

// Synchronizer pushes every registered command to Discord. Pushes are
// sequential and the first failure stops the pass.
type Synchronizer struct {
	remote api.Remote
	names  GuildNamer
	prune  bool
}

// NewSynchronizer builds a Synchronizer. With prune set, and a remote that
// implements api.Pruner, commands that exist remotely but are no longer
// declared are deleted after each scope is pushed.
func NewSynchronizer(remote api.Remote, names GuildNamer, prune bool) *Synchronizer {
	return &Synchronizer{remote: remote, names: names, prune: prune}
}

func (s *Synchronizer) Synchronize(ctx context.Context, registry *api.Registry) error {
	logger.Out().Msg("Synchronizing global commands...")

	if err := s.syncScope(ctx, api.Global, registry.CommandsFor(api.Global)); err != nil {
		return err
	}

	for _, guildID := range registry.Guilds() {
		logger.Out().Str("guild", guildID).Str("name", s.guildName(guildID)).Msg("Synchronizing commands for guild...")

		scope := api.Guild(guildID)
		if err := s.syncScope(ctx, scope, registry.CommandsFor(scope)); err != nil {
			return err
		}
	}

	logger.Out().Msg("Initialization complete!")
	return nil
}

func (s *Synchronizer) syncScope(ctx context.Context, scope api.Scope, cmds []*api.Command) error {
	for _, cmd := range cmds {
		remote, err := s.remote.CreateOrUpdateCommand(ctx, scope, cmd)
		if err != nil {
			return &SyncError{Scope: scope, Command: cmd.Name, Err: err}
		}

		event := logger.Debug().Str("scope", scope.String()).Str("command", cmd.Name)
		if remote != nil {
			event = event.Str("id", remote.ID)
		}
		event.Msg("synced")
	}

	if s.prune {
		return s.pruneScope(ctx, scope, cmds)
	}
	return nil
}

func (s *Synchronizer) pruneScope(ctx context.Context, scope api.Scope, cmds []*api.Command) error {
	pruner, ok := s.remote.(api.Pruner)
	if !ok {
		logger.Warn().Str("scope", scope.String()).Msg("Remote cannot list commands, skipping prune")
		return nil
	}

	desired := make(map[string]bool, len(cmds))
	for _, v := range cmds {
		desired[v.Name] = true
	}

	existing, err := pruner.ListCommands(ctx, scope)
	if err != nil {
		return &SyncError{Scope: scope, Command: "*", Err: err}
	}

	for _, v := range existing {
		if desired[v.Name] {
			continue
		}
		if err := pruner.DeleteCommand(ctx, scope, v.ID); err != nil {
			return &SyncError{Scope: scope, Command: v.Name, Err: err}
		}
		logger.Out().Str("scope", scope.String()).Str("command", v.Name).Msg("Removed stale command")
	}
	return nil
}

// guildName never fails, the name only decorates the log line.
func (s *Synchronizer) guildName(guildID string) string {
	if s.names == nil {
		return ""
	}
	name, err := s.names.GuildName(guildID)
	if err != nil {
		logger.Debug().Err(err).Str("guild", guildID).Msg("unable to resolve guild name")
		return ""
	}
	return name
}
