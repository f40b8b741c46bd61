package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/lordralex/commandbot/api"
	"github.com/lordralex/commandbot/logger"
)

type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Synchronized
	Terminated
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Synchronized:
		return "synchronized"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Gateway is the event side of Discord. Reconnecting is its own business.
type Gateway interface {
	GuildNamer
	Open() error
	Close() error
	OnReady(func())
	OnInteraction(func(*api.Interaction))
	OnMessage(func(*api.Message))
	OnDisconnect(func())
}

// Bot ties gateway events to the synchronizer and dispatcher.
type Bot struct {
	gateway    Gateway
	registry   *api.Registry
	syncer     *Synchronizer
	dispatcher *Dispatcher

	ctx      context.Context
	lock     sync.Mutex
	state    State
	synced   bool
	syncOnce sync.Once
	syncDone chan struct{}
	syncErr  error
}

func NewBot(gateway Gateway, remote api.Remote, registry *api.Registry, prune bool) *Bot {
	return &Bot{
		gateway:    gateway,
		registry:   registry,
		syncer:     NewSynchronizer(remote, gateway, prune),
		dispatcher: NewDispatcher(registry, remote),
		ctx:        context.Background(),
		syncDone:   make(chan struct{}),
	}
}

// Start hooks the gateway events and opens the connection. ctx is handed
// to every sync call and handler.
func (b *Bot) Start(ctx context.Context) error {
	b.ctx = ctx

	b.gateway.OnReady(b.onReady)
	b.gateway.OnInteraction(b.onInteraction)
	b.gateway.OnMessage(b.onMessage)
	b.gateway.OnDisconnect(b.onDisconnect)

	b.setState(Connecting)
	if err := b.gateway.Open(); err != nil {
		b.setState(Disconnected)
		return fmt.Errorf("opening gateway: %w", err)
	}
	return nil
}

func (b *Bot) Stop() error {
	b.setState(Disconnected)
	return b.gateway.Close()
}

func (b *Bot) State() State {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.state
}

// Synced is closed once the startup sync pass has finished, successfully
// or not.
func (b *Bot) Synced() <-chan struct{} {
	return b.syncDone
}

// SyncErr is the error that aborted the sync pass, if any. Only meaningful
// after Synced is closed.
func (b *Bot) SyncErr() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.syncErr
}

func (b *Bot) setState(s State) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.state = s
}

func (b *Bot) onReady() {
	logger.Out().Msg("Connected to Discord gateway!")

	b.lock.Lock()
	if b.synced {
		b.state = Synchronized
	} else {
		b.state = Connected
	}
	b.lock.Unlock()

	// sync runs beside the event loop so interactions keep dispatching
	b.syncOnce.Do(func() {
		go b.synchronize()
	})
}

func (b *Bot) synchronize() {
	defer close(b.syncDone)

	err := b.syncer.Synchronize(b.ctx, b.registry)

	b.lock.Lock()
	defer b.lock.Unlock()

	if err != nil {
		b.syncErr = err
		logger.Err().Err(err).Msg("Command synchronization aborted")
		return
	}

	b.synced = true
	if b.state == Connected {
		b.state = Synchronized
	}
}

func (b *Bot) onInteraction(i *api.Interaction) {
	b.dispatcher.Dispatch(b.ctx, i)
}

func (b *Bot) onMessage(m *api.Message) {
	logger.Out().Str("channel", m.ChannelID).Str("content", m.Content).Msg("received message")
}

func (b *Bot) onDisconnect() {
	logger.Warn().Msg("Disconnected from Discord gateway")
	b.setState(Disconnected)
}
