package server

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// FeedWebsocketHandler handles GET /api/ws/feed. After connecting, the
// client sends subscribe/unsubscribe frames for the posts on its
// screen and receives their engagement events as they happen.
func (s *Server) FeedWebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			log.Printf("WebSocket feed: unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		client, err := s.feedHub.Register(userID, conn)
		if err != nil {
			log.Printf("WebSocket feed: failed to register user %d: %v", userID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		client.TrySend([]byte(`{"type":"connected"}`))

		go client.WritePump()

		// Read pump blocks until the connection drops; it unregisters the
		// client on exit.
		client.ReadPump()
	})
}
