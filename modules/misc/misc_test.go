package misc

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/commandbot/api"
	"github.com/lordralex/commandbot/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockResponder struct {
	responses []*discordgo.InteractionResponse
}

func (m *mockResponder) RespondToInteraction(_ context.Context, _ *api.Interaction, resp *discordgo.InteractionResponse) error {
	m.responses = append(m.responses, resp)
	return nil
}

func run(t *testing.T, cmd *api.Command) string {
	t.Helper()
	r := &mockResponder{}
	require.NoError(t, cmd.Handler(context.Background(), r, &api.Interaction{ID: "1", Token: "t", Name: cmd.Name}))
	require.Len(t, r.responses, 1)
	return r.responses[0].Data.Content
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name    string
		command string
		cmd     *api.Command
		want    string
	}{
		{name: "ping", command: "ping", cmd: Ping(), want: "Pong!"},
		{name: "pong", command: "pong", cmd: Pong(), want: "Ping!"},
		{name: "about with owner", command: "about", cmd: About(&config.Config{OwnerID: "98225142064250880", ApplicationID: "838072375063871559"}),
			want: "Owner: <@98225142064250880>\nApplication: 838072375063871559"},
		{name: "about without owner", command: "about", cmd: About(&config.Config{}), want: "No owner configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.command, tt.cmd.Name)
			assert.NotEmpty(t, tt.cmd.Description)
			assert.Equal(t, tt.want, run(t, tt.cmd))
		})
	}
}
