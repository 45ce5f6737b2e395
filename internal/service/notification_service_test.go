package service

import (
	"context"
	"encoding/json"
	"learning_path_backend/internal/testutil"
	"learning_path_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_CreateListAndRead(t *testing.T) {
	db := testutil.NewDB(t)
	r := newRepos(db)
	events := &recordingDispatcher{}
	svc := NewNotificationService(r.notification, events)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, NotificationRequest{RecipientID: 5, Type: "membership", Message: "hola"})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, NotificationRequest{RecipientID: 6, Type: "membership", Message: "otro"})
	require.NoError(t, err)

	list, total, err := svc.List(ctx, 5, false, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, list, 3)
	assert.NotEmpty(t, list[0].ID)

	require.NoError(t, svc.MarkRead(ctx, 5, list[0].ID))
	assert.ErrorIs(t, svc.MarkRead(ctx, 6, list[1].ID), util.ErrNotificationMissing)
	assert.ErrorIs(t, svc.MarkRead(ctx, 5, "no-existe"), util.ErrNotificationMissing)

	_, unread, err := svc.List(ctx, 5, true, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	n, err := svc.MarkAllRead(ctx, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	assert.Len(t, events.ofType(wsTypeNotification), 4)
}

func TestNotificationHub_DeliversToLocalRooms(t *testing.T) {
	hub := NewNotificationHub(nil, "")
	assert.Equal(t, DefaultNotificationChannel, hub.Channel)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	a := &Client{Hub: hub, Send: make(chan []byte, 4), UserID: 7}
	b := &Client{Hub: hub, Send: make(chan []byte, 4), UserID: 7}
	other := &Client{Hub: hub, Send: make(chan []byte, 4), UserID: 8}
	for _, c := range []*Client{a, b, other} {
		require.True(t, hub.Register(c))
	}
	require.Eventually(t, func() bool { return hub.Online(7) == 2 && hub.Online(8) == 1 }, time.Second, 5*time.Millisecond)

	hub.PushToUsers([]uint{7}, WSMessage{Type: wsTypeProgressUpdated, Data: map[string]int{"learning_path_id": 1}})

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.Send:
			var msg WSMessage
			require.NoError(t, json.Unmarshal(raw, &msg))
			assert.Equal(t, wsTypeProgressUpdated, msg.Type)
		case <-time.After(time.Second):
			t.Fatal("message not delivered")
		}
	}
	assert.Empty(t, other.Send)

	hub.Unregister(a)
	require.Eventually(t, func() bool { return hub.Online(7) == 1 }, time.Second, 5*time.Millisecond)
	_, open := <-a.Send
	assert.False(t, open)

	cancel()
	<-done
	_, open = <-b.Send
	assert.False(t, open)
	assert.Zero(t, hub.Online(8))
}

func TestNotificationHub_RegisterAfterStopDoesNotBlock(t *testing.T) {
	hub := NewNotificationHub(nil, "")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	c := &Client{Hub: hub, Send: make(chan []byte, 1), UserID: 3}
	require.True(t, hub.Register(c))
	cancel()
	<-done

	finished := make(chan bool)
	go func() {
		hub.Unregister(c)
		finished <- hub.Register(&Client{Hub: hub, Send: make(chan []byte, 1), UserID: 4})
	}()
	select {
	case registered := <-finished:
		assert.False(t, registered)
	case <-time.After(time.Second):
		t.Fatal("hub calls blocked after stop")
	}
	assert.Zero(t, hub.Online(4))
}
