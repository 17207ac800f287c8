package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func newTestClient(hub *Hub, userID uuid.UUID, buffer int) *Client {
	return &Client{hub: hub, send: make(chan []byte, buffer), userID: userID, logger: zerolog.Nop()}
}

func receive(t *testing.T, c *Client) Notification {
	t.Helper()
	select {
	case data := <-c.send:
		var n Notification
		require.NoError(t, json.Unmarshal(data, &n))
		return n
	case <-time.After(time.Second):
		t.Fatal("no notification received")
		return Notification{}
	}
}

func TestHub_NotifyReachesOnlyRecipients(t *testing.T) {
	hub := startHub(t)
	alice, bob := uuid.New(), uuid.New()

	aliceTab1 := newTestClient(hub, alice, 4)
	aliceTab2 := newTestClient(hub, alice, 4)
	bobTab := newTestClient(hub, bob, 4)
	hub.register <- aliceTab1
	hub.register <- aliceTab2
	hub.register <- bobTab

	assert.Eventually(t, func() bool { return hub.ClientsCount(alice) == 2 }, time.Second, 5*time.Millisecond)

	hub.Notify([]uuid.UUID{alice}, TypeHourRequestReviewed, map[string]string{"status": "approved"})

	for _, c := range []*Client{aliceTab1, aliceTab2} {
		n := receive(t, c)
		assert.Equal(t, TypeHourRequestReviewed, n.Type)
		assert.False(t, n.Timestamp.IsZero())
	}

	select {
	case <-bobTab.send:
		t.Fatal("bob should not receive alice's notification")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	user := uuid.New()
	c := newTestClient(hub, user, 1)

	hub.register <- c
	hub.unregister <- c

	assert.Eventually(t, func() bool { return hub.ClientsCount(user) == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-c.send
	assert.False(t, open)
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub := startHub(t)
	user := uuid.New()
	c := newTestClient(hub, user, 1)
	hub.register <- c

	hub.Notify([]uuid.UUID{user}, TypeDesignRequestUpdated, nil)
	hub.Notify([]uuid.UUID{user}, TypeDesignRequestUpdated, nil)

	assert.Eventually(t, func() bool { return hub.ClientsCount(user) == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_NotifyWithoutRecipientsIsNoop(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	hub.Notify(nil, TypeHourRequestSubmitted, nil)
	assert.Len(t, hub.deliveries, 0)
}

func TestHub_StopClosesClientsAndReleasesLeave(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	user := uuid.New()
	c := newTestClient(hub, user, 1)
	hub.register <- c
	cancel()

	select {
	case <-hub.done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	_, open := <-c.send
	assert.False(t, open)

	left := make(chan struct{})
	go func() {
		c.leave()
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("leave blocked after the hub stopped")
	}
}
