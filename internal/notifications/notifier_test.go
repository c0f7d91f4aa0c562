package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"blogapp/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_NilClientIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.NoError(t, n.PublishUser(context.Background(), 1, "test payload"))
	assert.NoError(t, n.PublishNotification(context.Background(), &models.Notification{UserID: 1}))
	assert.NoError(t, n.StartUserSubscriber(context.Background(), func(string, string) {}))
}

func TestUserChannel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		userID   uint
		expected string
	}{
		{1, "notifications:user:1"},
		{100, "notifications:user:100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, UserChannel(tt.userID))
	}
}

func TestNotifier_PublishNotificationReachesSubscriber(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type received struct{ channel, payload string }
	got := make(chan received, 1)
	require.NoError(t, n.StartUserSubscriber(ctx, func(channel, payload string) {
		got <- received{channel, payload}
	}))

	postID := uint(5)
	require.NoError(t, n.PublishNotification(ctx, &models.Notification{
		ID:     9,
		UserID: 3,
		PostID: &postID,
		Type:   models.NotificationLike,
	}))

	select {
	case msg := <-got:
		assert.Equal(t, "notifications:user:3", msg.channel)
		var ev Event
		require.NoError(t, json.Unmarshal([]byte(msg.payload), &ev))
		assert.Equal(t, uint(9), ev.ID)
		assert.Equal(t, models.NotificationLike, ev.Type)
		require.NotNil(t, ev.PostID)
		assert.Equal(t, postID, *ev.PostID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published notification")
	}
}

func TestNotifier_SubscriberSurvivesPanic(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	payloads := make(chan string, 2)
	require.NoError(t, n.StartUserSubscriber(ctx, func(_, payload string) {
		if payload == "boom" {
			panic("handler failure")
		}
		payloads <- payload
	}))

	require.NoError(t, n.PublishUser(ctx, 1, "boom"))
	require.NoError(t, n.PublishUser(ctx, 1, "ok"))

	select {
	case p := <-payloads:
		assert.Equal(t, "ok", p)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber stopped after a panicking handler")
	}
}
