package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/lordralex/commandbot/api"
	"github.com/lordralex/commandbot/logger"
)

var (
	ErrUnmatchedCommand = errors.New("no command matches interaction")
	ErrHandler          = errors.New("command handler failed")
)

// Dispatcher routes interactions to command handlers. It only reads the
// registry, so concurrent Dispatch calls are safe.
type Dispatcher struct {
	registry  *api.Registry
	responder api.Responder
}

func NewDispatcher(registry *api.Registry, responder api.Responder) *Dispatcher {
	return &Dispatcher{registry: registry, responder: responder}
}

// Resolve finds the command for an interaction: the guild's own commands
// first, then the global ones.
func (d *Dispatcher) Resolve(i *api.Interaction) *api.Command {
	scope := i.Scope()
	if !scope.IsGlobal() {
		if cmd := d.registry.Find(scope, i.Name); cmd != nil {
			return cmd
		}
	}
	return d.registry.Find(api.Global, i.Name)
}

// Dispatch runs the matching handler, if any, and reports whether one ran.
// Unmatched interactions and handler failures are logged, never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, i *api.Interaction) bool {
	logger.Out().Str("command", i.Name).Str("scope", i.Scope().String()).Msg("Received interaction")

	cmd := d.Resolve(i)
	if cmd == nil {
		logger.Warn().Err(fmt.Errorf("%w: %q in %s", ErrUnmatchedCommand, i.Name, i.Scope())).Msg("Dropping interaction")
		return false
	}

	if err := d.invoke(ctx, cmd, i); err != nil {
		logger.Err().Err(err).Str("interaction", i.ID).Msg("Command failed")
	}
	return true
}

func (d *Dispatcher) invoke(ctx context.Context, cmd *api.Command, i *api.Interaction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s panicked: %v", ErrHandler, cmd.Name, r)
		}
	}()

	if err := cmd.Handler(ctx, d.responder, i); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrHandler, cmd.Name, err)
	}
	return nil
}
