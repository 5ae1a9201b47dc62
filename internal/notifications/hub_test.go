package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subscribePost(t *testing.T, hub *FeedHub, client *Client, postID uint) {
	t.Helper()
	frame, err := json.Marshal(subscribeFrame{Action: "subscribe", PostID: postID})
	require.NoError(t, err)
	hub.handleIncoming(client, frame)
}

func TestFeedHub_SubscribeRouting(t *testing.T) {
	hub := NewFeedHub()

	watcher, err := hub.Register(1, nil)
	require.NoError(t, err)
	bystander, err := hub.Register(2, nil)
	require.NoError(t, err)

	subscribePost(t, hub, watcher, 7)
	assert.Equal(t, 1, hub.SubscriberCount(7))

	hub.BroadcastPost(7, []byte(`{"type":"reaction.added"}`))

	select {
	case msg := <-watcher.Send:
		assert.Contains(t, string(msg), "reaction.added")
	default:
		t.Fatal("subscribed client received nothing")
	}
	select {
	case <-bystander.Send:
		t.Fatal("unsubscribed client received a post event")
	default:
	}
}

func TestFeedHub_UnsubscribeStopsDelivery(t *testing.T) {
	hub := NewFeedHub()
	client, err := hub.Register(1, nil)
	require.NoError(t, err)

	subscribePost(t, hub, client, 7)
	frame, _ := json.Marshal(subscribeFrame{Action: "unsubscribe", PostID: 7})
	hub.handleIncoming(client, frame)

	assert.Equal(t, 0, hub.SubscriberCount(7))
	hub.BroadcastPost(7, []byte("x"))
	select {
	case <-client.Send:
		t.Fatal("unsubscribed client received a post event")
	default:
	}
}

func TestFeedHub_UnregisterDropsSubscriptions(t *testing.T) {
	hub := NewFeedHub()
	client, err := hub.Register(1, nil)
	require.NoError(t, err)

	subscribePost(t, hub, client, 3)
	subscribePost(t, hub, client, 4)
	hub.UnregisterClient(client)

	assert.Equal(t, 0, hub.SubscriberCount(3))
	assert.Equal(t, 0, hub.SubscriberCount(4))

	// A second unregister of the same client is harmless.
	hub.UnregisterClient(client)
}

func TestFeedHub_UserBroadcastReachesAllConnections(t *testing.T) {
	hub := NewFeedHub()
	first, err := hub.Register(9, nil)
	require.NoError(t, err)
	second, err := hub.Register(9, nil)
	require.NoError(t, err)

	hub.BroadcastUser(9, []byte("hello"))

	for _, c := range []*Client{first, second} {
		select {
		case msg := <-c.Send:
			assert.Equal(t, "hello", string(msg))
		default:
			t.Fatal("connection missed a user broadcast")
		}
	}
}

func TestFeedHub_ConnectionLimits(t *testing.T) {
	hub := NewFeedHub()
	clients := make([]*Client, 0, maxConnsPerUser)
	for i := 0; i < maxConnsPerUser; i++ {
		c, err := hub.Register(5, nil)
		require.NoError(t, err)
		clients = append(clients, c)
	}

	_, err := hub.Register(5, nil)
	assert.Error(t, err)

	hub.UnregisterClient(clients[0])
	_, err = hub.Register(5, nil)
	assert.NoError(t, err)
}

func TestFeedHub_WiringDeliversRedisEvents(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	hub := NewFeedHub()
	notifier := NewNotifier(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.StartWiring(ctx, notifier))

	client, err := hub.Register(1, nil)
	require.NoError(t, err)
	subscribePost(t, hub, client, 12)

	require.NoError(t, notifier.PublishEngagement(context.Background(), &models.EngagementEvent{
		Type:   models.EventCommentCreated,
		PostID: 12,
		Seq:    2,
	}))

	assert.Eventually(t, func() bool {
		select {
		case msg := <-client.Send:
			return string(msg) != "" &&
				json.Valid(msg)
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}
