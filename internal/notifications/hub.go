package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	// Max connections per user
	maxConnsPerUser = 12
	// Max total connections
	maxTotalConns = 10000
	// Max posts one connection may watch at once; a feed page is far
	// smaller than this.
	maxPostSubsPerClient = 200
)

// FeedHub fans engagement events out to websocket clients. Each client
// subscribes to the posts currently on its screen; user-addressed
// notifications reach every connection the user holds.
type FeedHub struct {
	mu          sync.RWMutex
	conns       map[uint]map[*Client]struct{}
	postSubs    map[uint]map[*Client]struct{}
	clientPosts map[*Client]map[uint]struct{}
	totalConns  int
	shutdown    chan struct{}
	wsLog       *observability.WSLogger
}

// NewFeedHub creates a hub for live engagement delivery.
func NewFeedHub() *FeedHub {
	return &FeedHub{
		conns:       make(map[uint]map[*Client]struct{}),
		postSubs:    make(map[uint]map[*Client]struct{}),
		clientPosts: make(map[*Client]map[uint]struct{}),
		shutdown:    make(chan struct{}),
		wsLog:       observability.NewWSLogger("feed"),
	}
}

// Name returns a human-readable identifier for this hub.
func (h *FeedHub) Name() string { return "feed hub" }

// subscribeFrame is the control message clients send to follow or drop
// a post's live events.
type subscribeFrame struct {
	Action string `json:"action"` // "subscribe" | "unsubscribe"
	PostID uint   `json:"post_id"`
}

// Register adds a connection for a user. Returns the Client or an error
// if connection limits are exceeded.
func (h *FeedHub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()

	if h.totalConns >= maxTotalConns {
		h.mu.Unlock()
		return nil, errors.New("server connection limit reached")
	}

	m, ok := h.conns[userID]
	if !ok {
		m = make(map[*Client]struct{})
		h.conns[userID] = m
	}
	if len(m) >= maxConnsPerUser {
		h.mu.Unlock()
		return nil, errors.New("user connection limit reached")
	}

	client := NewClient(h, conn, userID)
	client.IncomingHandler = h.handleIncoming

	m[client] = struct{}{}
	h.clientPosts[client] = make(map[uint]struct{})
	h.totalConns++
	h.mu.Unlock()

	observability.ActiveWebSockets.Inc()
	h.wsLog.LogConnect(context.Background(), userID)
	return client, nil
}

// UnregisterClient drops the connection and all its post subscriptions.
func (h *FeedHub) UnregisterClient(client *Client) {
	h.mu.Lock()
	removed := false
	if m, ok := h.conns[client.UserID]; ok {
		if _, exists := m[client]; exists {
			delete(m, client)
			h.totalConns--
			removed = true
		}
		if len(m) == 0 {
			delete(h.conns, client.UserID)
		}
	}
	for postID := range h.clientPosts[client] {
		h.dropPostSubLocked(client, postID)
	}
	delete(h.clientPosts, client)
	h.mu.Unlock()

	if removed {
		observability.ActiveWebSockets.Dec()
		h.wsLog.LogDisconnect(context.Background(), client.UserID, "unregistered")
	}
}

func (h *FeedHub) dropPostSubLocked(client *Client, postID uint) {
	if subs, ok := h.postSubs[postID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.postSubs, postID)
		}
	}
}

func (h *FeedHub) handleIncoming(client *Client, message []byte) {
	var frame subscribeFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		h.wsLog.LogError(context.Background(), client.UserID, err, "bad_frame")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	switch frame.Action {
	case "subscribe":
		if frame.PostID == 0 {
			return
		}
		owned := h.clientPosts[client]
		if owned == nil {
			return
		}
		if len(owned) >= maxPostSubsPerClient {
			return
		}
		subs, ok := h.postSubs[frame.PostID]
		if !ok {
			subs = make(map[*Client]struct{})
			h.postSubs[frame.PostID] = subs
		}
		subs[client] = struct{}{}
		owned[frame.PostID] = struct{}{}

	case "unsubscribe":
		h.dropPostSubLocked(client, frame.PostID)
		delete(h.clientPosts[client], frame.PostID)
	}
}

// BroadcastPost sends the payload to every client watching the post.
func (h *FeedHub) BroadcastPost(postID uint, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.postSubs[postID] {
		c.TrySend(payload)
	}
}

// BroadcastUser sends the payload to all of one user's connections.
func (h *FeedHub) BroadcastUser(userID uint, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[userID] {
		c.TrySend(payload)
	}
}

// SubscriberCount reports how many clients watch a post.
func (h *FeedHub) SubscriberCount(postID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.postSubs[postID])
}

// StartWiring connects the Notifier to this hub: Redis messages on post
// channels reach post subscribers, user channels reach the user's
// connections.
func (h *FeedHub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartEngagementSubscriber(ctx, func(channel, payload string) {
		if postID, ok := ParsePostChannel(channel); ok {
			h.BroadcastPost(postID, []byte(payload))
			return
		}
		if userID, ok := ParseUserChannel(channel); ok {
			h.BroadcastUser(userID, []byte(payload))
			return
		}
		log.Printf("invalid engagement channel: %s", channel)
	})
}

// Shutdown gracefully closes all websocket connections.
func (h *FeedHub) Shutdown(_ context.Context) error {
	close(h.shutdown)

	h.mu.Lock()
	for userID, userConns := range h.conns {
		for client := range userConns {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
				log.Printf("failed to write close message for user %d: %v", userID, err)
			}
			if err := client.Conn.Close(); err != nil {
				log.Printf("failed to close websocket for user %d: %v", userID, err)
			}
		}
	}
	h.conns = make(map[uint]map[*Client]struct{})
	h.postSubs = make(map[uint]map[*Client]struct{})
	h.clientPosts = make(map[*Client]map[uint]struct{})
	h.totalConns = 0
	h.mu.Unlock()

	return nil
}
