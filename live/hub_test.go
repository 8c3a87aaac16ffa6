package live

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchRoom(t *testing.T) {
	assert.Equal(t, "match_42", MatchRoom(42))
}

func newRegisteredClient(t *testing.T, hub *Hub, room string) *Client {
	t.Helper()
	client := &Client{
		Hub:  hub,
		Send: make(chan []byte, 4),
		Room: room,
	}
	hub.Register <- client
	return client
}

func receiveMessage(t *testing.T, hub *Hub, client *Client, room string, msg Message) []byte {
	t.Helper()
	// Registration is applied by the Run loop, so the first broadcast can
	// race it; keep broadcasting until the client sees something.
	deadline := time.After(2 * time.Second)
	for {
		hub.BroadcastToRoom(room, msg)
		select {
		case raw := <-client.Send:
			return raw
		case <-deadline:
			t.Fatal("client never received the broadcast")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestHubBroadcastReachesRoomClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	room := MatchRoom(1)
	client := newRegisteredClient(t, hub, room)

	raw := receiveMessage(t, hub, client, room, Message{
		Type:    MessageGoalScored,
		Payload: map[string]interface{}{"match_id": 1},
	})

	var got Message
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, MessageGoalScored, got.Type)
}

func TestHubBroadcastIsScopedToRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	roomA := MatchRoom(1)
	roomB := MatchRoom(2)
	clientA := newRegisteredClient(t, hub, roomA)
	clientB := newRegisteredClient(t, hub, roomB)

	receiveMessage(t, hub, clientA, roomA, Message{Type: MessageStatusChanged})

	select {
	case <-clientB.Send:
		t.Fatal("client in another room received the broadcast")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	room := MatchRoom(3)
	client := newRegisteredClient(t, hub, room)
	receiveMessage(t, hub, client, room, Message{Type: MessageStatusChanged})

	hub.Unregister <- client

	require.Eventually(t, func() bool {
		client.Mu.Lock()
		defer client.Mu.Unlock()
		return client.IsClosed
	}, 2*time.Second, 10*time.Millisecond)
}
