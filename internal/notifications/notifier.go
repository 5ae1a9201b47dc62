// Package notifications provides real-time engagement event delivery.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes engagement events into Redis channels. A nil Redis
// client makes every method a no-op: the API stays writable when the
// event fabric is down, clients just fall back to polling.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishEngagement sends an engagement event to the post's channel.
func (n *Notifier) PublishEngagement(ctx context.Context, event *models.EngagementEvent) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal engagement event: %w", err)
	}
	if err := n.rdb.Publish(ctx, PostChannel(event.PostID), payload).Err(); err != nil {
		observability.RedisErrors.WithLabelValues("publish").Inc()
		return err
	}
	observability.EngagementEventsPublished.WithLabelValues(event.Type).Inc()
	return nil
}

// PublishUser sends a notification payload to a user's channel, e.g. a
// friend request.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n.rdb == nil {
		return nil
	}
	if err := n.rdb.Publish(ctx, UserChannel(userID), payload).Err(); err != nil {
		observability.RedisErrors.WithLabelValues("publish").Inc()
		return err
	}
	return nil
}

// StartEngagementSubscriber subscribes to the engagement and user
// notification patterns and calls onMessage for each incoming message.
func (n *Notifier) StartEngagementSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "engagement:post:*", "notifications:user:*")
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
							log.Printf("PANIC in EngagementSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// PostChannel derives the Redis channel name for a post's engagement feed.
func PostChannel(postID uint) string {
	return "engagement:post:" + strconv.FormatUint(uint64(postID), 10)
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}

// ParsePostChannel extracts the post id from an engagement channel name.
func ParsePostChannel(channel string) (uint, bool) {
	var postID uint
	if _, err := fmt.Sscanf(channel, "engagement:post:%d", &postID); err != nil {
		return 0, false
	}
	return postID, true
}

// ParseUserChannel extracts the user id from a notification channel name.
func ParseUserChannel(channel string) (uint, bool) {
	var userID uint
	if _, err := fmt.Sscanf(channel, "notifications:user:%d", &userID); err != nil {
		return 0, false
	}
	return userID, true
}
