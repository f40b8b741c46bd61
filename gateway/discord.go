package gateway

import (
	"context"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/commandbot/api"
)

// Discord adapts a discordgo session to the bot's gateway and REST needs.
type Discord struct {
	session *discordgo.Session
	appId   string
	lock    sync.RWMutex
}

// New creates the session without connecting. An empty appId is filled in
// from the bot user on the first Ready event.
func New(token, appId string, intents *api.Intents) (*Discord, error) {
	if !strings.HasPrefix(token, "Bot ") {
		token = "Bot " + token
	}

	session, err := discordgo.New(token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = intents.Value()

	return &Discord{session: session, appId: appId}, nil
}

func (d *Discord) Open() error {
	return d.session.Open()
}

func (d *Discord) Close() error {
	return d.session.Close()
}

func (d *Discord) OnReady(fn func()) {
	d.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		d.lock.Lock()
		if d.appId == "" && r.User != nil {
			d.appId = r.User.ID
		}
		d.lock.Unlock()

		fn()
	})
}

func (d *Discord) OnInteraction(fn func(*api.Interaction)) {
	d.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		fn(toInteraction(i.Interaction))
	})
}

func (d *Discord) OnMessage(fn func(*api.Message)) {
	d.session.AddHandler(func(s *discordgo.Session, mc *discordgo.MessageCreate) {
		if mc.Author == nil || (s.State.User != nil && mc.Author.ID == s.State.User.ID) {
			return
		}
		fn(&api.Message{
			ID:        mc.ID,
			ChannelID: mc.ChannelID,
			GuildID:   mc.GuildID,
			AuthorID:  mc.Author.ID,
			Content:   mc.Content,
		})
	})
}

func (d *Discord) OnDisconnect(fn func()) {
	d.session.AddHandler(func(s *discordgo.Session, _ *discordgo.Disconnect) {
		fn()
	})
}

func (d *Discord) GuildName(guildID string) (string, error) {
	g, err := api.GetGuild(d.session, guildID)
	if err != nil {
		return "", err
	}
	return g.Name, nil
}

// CreateOrUpdateCommand relies on Discord treating a create for an existing
// name as an overwrite.
func (d *Discord) CreateOrUpdateCommand(ctx context.Context, scope api.Scope, cmd *api.Command) (*api.RemoteCommand, error) {
	created, err := d.session.ApplicationCommandCreate(d.applicationId(), scope.GuildID, cmd.ApplicationCommand(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return toRemoteCommand(created), nil
}

func (d *Discord) ListCommands(ctx context.Context, scope api.Scope) ([]*api.RemoteCommand, error) {
	cmds, err := d.session.ApplicationCommands(d.applicationId(), scope.GuildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	result := make([]*api.RemoteCommand, 0, len(cmds))
	for _, v := range cmds {
		result = append(result, toRemoteCommand(v))
	}
	return result, nil
}

func (d *Discord) DeleteCommand(ctx context.Context, scope api.Scope, commandID string) error {
	return d.session.ApplicationCommandDelete(d.applicationId(), scope.GuildID, commandID, discordgo.WithContext(ctx))
}

func (d *Discord) RespondToInteraction(ctx context.Context, i *api.Interaction, resp *discordgo.InteractionResponse) error {
	return d.session.InteractionRespond(&discordgo.Interaction{
		ID:      i.ID,
		AppID:   i.ApplicationID,
		Token:   i.Token,
		GuildID: i.GuildID,
		Type:    discordgo.InteractionApplicationCommand,
	}, resp, discordgo.WithContext(ctx))
}

func (d *Discord) applicationId() string {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.appId
}

func toInteraction(i *discordgo.Interaction) *api.Interaction {
	data := i.ApplicationCommandData()

	result := &api.Interaction{
		ID:            i.ID,
		Token:         i.Token,
		ApplicationID: i.AppID,
		GuildID:       i.GuildID,
		ChannelID:     i.ChannelID,
		Name:          data.Name,
		Options:       data.Options,
	}

	if i.Member != nil && i.Member.User != nil {
		result.UserID = i.Member.User.ID
	} else if i.User != nil {
		result.UserID = i.User.ID
	}

	return result
}

func toRemoteCommand(cmd *discordgo.ApplicationCommand) *api.RemoteCommand {
	return &api.RemoteCommand{
		ID:            cmd.ID,
		ApplicationID: cmd.ApplicationID,
		GuildID:       cmd.GuildID,
		Name:          cmd.Name,
	}
}
