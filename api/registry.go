package api

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateName  = errors.New("command already registered in scope")
	ErrInvalidCommand = errors.New("invalid command")
)

// Registry maps each scope to the commands declared for it, in the order
// they were registered. It is filled once at startup and only read after.
type Registry struct {
	global []*Command
	guilds map[string][]*Command
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{guilds: make(map[string][]*Command)}
}

func (r *Registry) Register(scope Scope, cmd *Command) error {
	if cmd == nil || cmd.Name == "" {
		return fmt.Errorf("%s: %w", scope, ErrInvalidCommand)
	}
	if cmd.Handler == nil {
		return fmt.Errorf("%s %q has no handler: %w", scope, cmd.Name, ErrInvalidCommand)
	}

	if r.Find(scope, cmd.Name) != nil {
		return fmt.Errorf("%s %q: %w", scope, cmd.Name, ErrDuplicateName)
	}

	if scope.IsGlobal() {
		r.global = append(r.global, cmd)
		return nil
	}

	if _, exists := r.guilds[scope.GuildID]; !exists {
		r.order = append(r.order, scope.GuildID)
	}
	r.guilds[scope.GuildID] = append(r.guilds[scope.GuildID], cmd)
	return nil
}

// CommandsFor returns a copy of the commands in scope. Unknown scopes give
// an empty slice.
func (r *Registry) CommandsFor(scope Scope) []*Command {
	var source []*Command
	if scope.IsGlobal() {
		source = r.global
	} else {
		source = r.guilds[scope.GuildID]
	}

	result := make([]*Command, len(source))
	copy(result, source)
	return result
}

// Find looks up a command by exact name within one scope only.
func (r *Registry) Find(scope Scope, name string) *Command {
	source := r.global
	if !scope.IsGlobal() {
		source = r.guilds[scope.GuildID]
	}

	for _, v := range source {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Guilds lists guild ids in the order their first command was registered.
func (r *Registry) Guilds() []string {
	result := make([]string, len(r.order))
	copy(result, r.order)
	return result
}
