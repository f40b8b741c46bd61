package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lordralex/commandbot/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchResolution(t *testing.T) {
	var hits []string
	var lock sync.Mutex

	r := api.NewRegistry()
	require.NoError(t, r.Register(api.Global, &api.Command{Name: "ping", Handler: recorder(&hits, &lock, "global ping")}))
	require.NoError(t, r.Register(api.Global, &api.Command{Name: "about", Handler: recorder(&hits, &lock, "global about")}))
	require.NoError(t, r.Register(api.Guild("G1"), &api.Command{Name: "stats", Handler: recorder(&hits, &lock, "G1 stats")}))
	require.NoError(t, r.Register(api.Guild("G1"), &api.Command{Name: "about", Handler: recorder(&hits, &lock, "G1 about")}))

	tests := []struct {
		name    string
		guild   string
		command string
		matched bool
		want    []string
	}{
		{name: "global interaction", command: "ping", matched: true, want: []string{"global ping"}},
		{name: "guild command", guild: "G1", command: "stats", matched: true, want: []string{"G1 stats"}},
		{name: "guild falls back to global", guild: "G1", command: "ping", matched: true, want: []string{"global ping"}},
		{name: "guild shadows global", guild: "G1", command: "about", matched: true, want: []string{"G1 about"}},
		{name: "unregistered guild", guild: "G2", command: "stats", matched: false},
		{name: "global cannot see guild commands", command: "stats", matched: false},
		{name: "case sensitive", guild: "G1", command: "PING", matched: false},
		{name: "unknown", guild: "G1", command: "nope", matched: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits = nil
			d := NewDispatcher(r, &mockRemote{})

			matched := d.Dispatch(context.Background(), &api.Interaction{ID: "1", GuildID: tt.guild, Name: tt.command})
			assert.Equal(t, tt.matched, matched)
			assert.Equal(t, tt.want, hits)
		})
	}
}

func TestDispatchContainsHandlerFailures(t *testing.T) {
	r := api.NewRegistry()
	require.NoError(t, r.Register(api.Global, &api.Command{Name: "fail", Handler: func(context.Context, api.Responder, *api.Interaction) error {
		return errors.New("rest call failed")
	}}))
	require.NoError(t, r.Register(api.Global, &api.Command{Name: "panic", Handler: func(context.Context, api.Responder, *api.Interaction) error {
		panic("bad handler")
	}}))
	d := NewDispatcher(r, &mockRemote{})

	assert.True(t, d.Dispatch(context.Background(), &api.Interaction{Name: "fail"}))
	assert.NotPanics(t, func() {
		assert.True(t, d.Dispatch(context.Background(), &api.Interaction{Name: "panic"}))
	})

	err := d.invoke(context.Background(), r.Find(api.Global, "fail"), &api.Interaction{})
	assert.ErrorIs(t, err, ErrHandler)
	assert.Contains(t, err.Error(), "rest call failed")

	err = d.invoke(context.Background(), r.Find(api.Global, "panic"), &api.Interaction{})
	assert.ErrorIs(t, err, ErrHandler)
}

func TestDispatchPassesResponder(t *testing.T) {
	remote := &mockRemote{}
	r := api.NewRegistry()
	require.NoError(t, r.Register(api.Global, &api.Command{Name: "ping", Handler: func(ctx context.Context, resp api.Responder, i *api.Interaction) error {
		return api.Reply(ctx, resp, i, "Pong!")
	}}))

	NewDispatcher(r, remote).Dispatch(context.Background(), &api.Interaction{Name: "ping"})

	require.Len(t, remote.responses, 1)
	assert.Equal(t, "Pong!", remote.responses[0].Data.Content)
}

func TestDispatchConcurrent(t *testing.T) {
	var count int64
	release := make(chan struct{})

	r := api.NewRegistry()
	require.NoError(t, r.Register(api.Global, &api.Command{Name: "slow", Handler: func(context.Context, api.Responder, *api.Interaction) error {
		<-release
		atomic.AddInt64(&count, 1)
		return nil
	}}))
	require.NoError(t, r.Register(api.Global, &api.Command{Name: "fast", Handler: func(context.Context, api.Responder, *api.Interaction) error {
		atomic.AddInt64(&count, 1)
		return nil
	}}))
	d := NewDispatcher(r, &mockRemote{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.Dispatch(context.Background(), &api.Interaction{Name: "slow"})
	}()

	for n := 0; n < 50; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispatch(context.Background(), &api.Interaction{GuildID: "G1", Name: "fast"})
		}()
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt64(&count) == 50 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(t, int64(51), atomic.LoadInt64(&count))
}
