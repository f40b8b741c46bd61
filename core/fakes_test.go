package core

import (
	"context"
	"errors"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/commandbot/api"
)

type mockRemote struct {
	lock      sync.Mutex
	calls     []string
	failOn    string
	responses []*discordgo.InteractionResponse
	block     chan struct{}
}

func (m *mockRemote) CreateOrUpdateCommand(_ context.Context, scope api.Scope, cmd *api.Command) (*api.RemoteCommand, error) {
	if m.block != nil {
		<-m.block
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	m.calls = append(m.calls, scope.String()+"/"+cmd.Name)
	if cmd.Name == m.failOn {
		return nil, errors.New("discord said no")
	}
	return &api.RemoteCommand{ID: "id-" + cmd.Name, GuildID: scope.GuildID, Name: cmd.Name}, nil
}

func (m *mockRemote) RespondToInteraction(_ context.Context, _ *api.Interaction, resp *discordgo.InteractionResponse) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.responses = append(m.responses, resp)
	return nil
}

func (m *mockRemote) Calls() []string {
	m.lock.Lock()
	defer m.lock.Unlock()
	result := make([]string, len(m.calls))
	copy(result, m.calls)
	return result
}

type mockPruner struct {
	mockRemote
	existing map[api.Scope][]*api.RemoteCommand
	deleted  []string
	listErr  error
}

func (m *mockPruner) ListCommands(_ context.Context, scope api.Scope) ([]*api.RemoteCommand, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.existing[scope], nil
}

func (m *mockPruner) DeleteCommand(_ context.Context, scope api.Scope, commandID string) error {
	m.deleted = append(m.deleted, scope.String()+"/"+commandID)
	return nil
}

type mockGateway struct {
	opened        int
	closed        int
	openErr       error
	names         map[string]string
	onReady       func()
	onInteraction func(*api.Interaction)
	onMessage     func(*api.Message)
	onDisconnect  func()
}

func (m *mockGateway) Open() error {
	m.opened++
	return m.openErr
}

func (m *mockGateway) Close() error {
	m.closed++
	return nil
}

func (m *mockGateway) OnReady(fn func()) { m.onReady = fn }
func (m *mockGateway) OnInteraction(fn func(*api.Interaction)) { m.onInteraction = fn }
func (m *mockGateway) OnMessage(fn func(*api.Message)) { m.onMessage = fn }
func (m *mockGateway) OnDisconnect(fn func()) { m.onDisconnect = fn }

func (m *mockGateway) GuildName(guildID string) (string, error) {
	name, ok := m.names[guildID]
	if !ok {
		return "", errors.New("guild not in state")
	}
	return name, nil
}

// recorder returns a handler that appends tag to hits when it runs.
func recorder(hits *[]string, lock *sync.Mutex, tag string) api.Handler {
	return func(context.Context, api.Responder, *api.Interaction) error {
		lock.Lock()
		defer lock.Unlock()
		*hits = append(*hits, tag)
		return nil
	}
}
