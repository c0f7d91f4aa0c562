// Package notifications hands stored notifications off to Redis pub/sub for
// whatever delivery service subscribes.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"time"

	"blogapp/internal/middleware"
	"blogapp/internal/models"

	"github.com/redis/go-redis/v9"
)

const userChannelPattern = "notifications:user:*"

// Event is the JSON payload published for a stored notification.
type Event struct {
	ID        uint      `json:"id"`
	Type      string    `json:"type"`
	UserID    uint      `json:"user_id"`
	PostID    *uint     `json:"post_id,omitempty"`
	CreatedAt time.Time `json:"date"`
}

// Notifier publishes notification events into per-user Redis channels.
// A nil client makes every publish a no-op.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends a raw payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// PublishNotification publishes the event for a committed notification row.
func (n *Notifier) PublishNotification(ctx context.Context, notification *models.Notification) error {
	if notification == nil {
		return nil
	}
	payload, err := json.Marshal(Event{
		ID:        notification.ID,
		Type:      notification.Type,
		UserID:    notification.UserID,
		PostID:    notification.PostID,
		CreatedAt: notification.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}
	return n.PublishUser(ctx, notification.UserID, string(payload))
}

// StartUserSubscriber subscribes to every user channel and calls onMessage
// per message until ctx ends. A panicking handler is logged and skipped.
func (n *Notifier) StartUserSubscriber(ctx context.Context, onMessage func(channel, payload string)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, userChannelPattern)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", userChannelPattern, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in notification subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())))
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}
