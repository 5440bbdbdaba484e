package programws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/P4t4m8n/buff-buddy-api/internal/models"
)

type countingGauge struct {
	connected    chan struct{}
	disconnected chan struct{}
}

func newCountingGauge() *countingGauge {
	return &countingGauge{
		connected:    make(chan struct{}, 8),
		disconnected: make(chan struct{}, 8),
	}
}

func (g *countingGauge) SocketConnected()    { g.connected <- struct{}{} }
func (g *countingGauge) SocketDisconnected() { g.disconnected <- struct{}{} }

func receive(t *testing.T, client *Client) Message {
	t.Helper()
	select {
	case payload, ok := <-client.send:
		require.True(t, ok, "send channel closed")
		var message Message
		require.NoError(t, json.Unmarshal(payload, &message))
		return message
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Message{}
	}
}

func TestHubDeliversEventsToOwnerOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gauge := newCountingGauge()
	hub := NewHub(nil, gauge)
	go hub.Run(ctx)

	owner := NewClient(hub, nil, "user-1")
	ownerSecondTab := NewClient(hub, nil, "user-1")
	other := NewClient(hub, nil, "user-2")
	hub.Register(owner)
	hub.Register(ownerSecondTab)
	hub.Register(other)

	hub.PublishProgramEvent(models.ProgramEvent{
		Type:      models.ProgramUpdated,
		ProgramID: "program-1",
		OwnerID:   "user-1",
		Program:   &models.Program{ID: "program-1", Name: "Push day"},
	})

	for _, client := range []*Client{owner, ownerSecondTab} {
		message := receive(t, client)
		require.Equal(t, models.ProgramUpdated, message.Type)
		require.Equal(t, "program-1", message.ProgramID)
		require.Equal(t, "Push day", message.Program.Name)
	}

	select {
	case <-other.send:
		t.Fatal("event leaked to another user")
	case <-time.After(50 * time.Millisecond):
	}
	require.Len(t, gauge.connected, 3)
}

func TestHubUnregisterClosesClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gauge := newCountingGauge()
	hub := NewHub(nil, gauge)
	go hub.Run(ctx)

	client := NewClient(hub, nil, "user-1")
	hub.Register(client)
	hub.Unregister(client)

	requireDone(t, client)
	<-gauge.disconnected
}

func TestReplyAfterSlowClientIsDroppedDoesNotPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gauge := newCountingGauge()
	hub := NewHub(nil, gauge)
	go hub.Run(ctx)

	client := NewClient(hub, nil, "user-1")
	hub.Register(client)
	for i := 0; i < cap(client.send); i++ {
		client.send <- []byte("{}")
	}

	hub.PublishProgramEvent(models.ProgramEvent{
		Type:      models.ProgramCreated,
		ProgramID: "program-1",
		OwnerID:   "user-1",
	})
	requireDone(t, client)
	<-gauge.disconnected

	require.NotPanics(t, func() {
		client.reply("pong", "")
		client.reply("error", "unsupported message")
	})
	require.Len(t, client.send, cap(client.send))
}

func TestReplyClosesClientThatStopsReading(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gauge := newCountingGauge()
	hub := NewHub(nil, gauge)
	go hub.Run(ctx)

	client := NewClient(hub, nil, "user-1")
	hub.Register(client)
	for i := 0; i < cap(client.send); i++ {
		client.reply("pong", "")
	}

	require.NotPanics(t, func() {
		for i := 0; i < 5; i++ {
			client.reply("pong", "")
		}
	})
	requireDone(t, client)
	<-gauge.disconnected
	require.Len(t, gauge.disconnected, 0)
}

func TestRegisterAndUnregisterReturnAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub(nil, nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	registered := NewClient(hub, nil, "user-1")
	hub.Register(registered)
	cancel()
	<-stopped
	requireDone(t, registered)

	late := NewClient(hub, nil, "user-2")
	finished := make(chan struct{})
	go func() {
		hub.Register(late)
		hub.Unregister(late)
		hub.Unregister(registered)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("register or unregister blocked after the hub stopped")
	}
	requireDone(t, late)
}

func requireDone(t *testing.T, client *Client) {
	t.Helper()
	select {
	case <-client.Done():
	case <-time.After(time.Second):
		t.Fatal("expected client to be closed")
	}
}
