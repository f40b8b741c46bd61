package api

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Scope is where a command is visible: everywhere, or in a single guild.
type Scope struct {
	GuildID string
}

// Global is the platform-wide scope.
var Global = Scope{}

func Guild(guildID string) Scope {
	return Scope{GuildID: guildID}
}

func (s Scope) IsGlobal() bool {
	return s.GuildID == ""
}

func (s Scope) String() string {
	if s.IsGlobal() {
		return "global"
	}
	return "guild:" + s.GuildID
}

// Handler runs a command. Replies go through the Responder.
type Handler func(ctx context.Context, r Responder, i *Interaction) error

// Command is the declared form of a slash command.
type Command struct {
	Name        string
	Description string
	Options     []*discordgo.ApplicationCommandOption
	Handler     Handler
}

// ApplicationCommand is the payload sent to Discord when pushing the command.
func (c *Command) ApplicationCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name,
		Description: c.Description,
		Type:        discordgo.ChatApplicationCommand,
		Options:     c.Options,
	}
}

// Interaction is a single slash command invocation received from the gateway.
type Interaction struct {
	ID            string
	Token         string
	ApplicationID string
	GuildID       string
	ChannelID     string
	UserID        string
	Name          string
	Options       []*discordgo.ApplicationCommandInteractionDataOption
}

func (i *Interaction) Scope() Scope {
	return Guild(i.GuildID)
}

// Message is a plain chat message seen on the gateway.
type Message struct {
	ID        string
	ChannelID string
	GuildID   string
	AuthorID  string
	Content   string
}

// RemoteCommand is Discord's record of a pushed command.
type RemoteCommand struct {
	ID            string
	ApplicationID string
	GuildID       string
	Name          string
}

type Responder interface {
	RespondToInteraction(ctx context.Context, i *Interaction, resp *discordgo.InteractionResponse) error
}

// Remote is the REST side of Discord as seen by the bot.
type Remote interface {
	Responder
	CreateOrUpdateCommand(ctx context.Context, scope Scope, cmd *Command) (*RemoteCommand, error)
}

// Pruner is implemented by remotes that can list and delete commands.
type Pruner interface {
	ListCommands(ctx context.Context, scope Scope) ([]*RemoteCommand, error)
	DeleteCommand(ctx context.Context, scope Scope, commandID string) error
}

// Reply answers the interaction with a plain channel message.
func Reply(ctx context.Context, r Responder, i *Interaction, content string) error {
	return r.RespondToInteraction(ctx, i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}
