package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// SendFriendRequest handles POST /api/friends/requests/:userId
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	userID := currentUserID(c)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	request, err := s.friendService.SendRequest(c.Context(), userID, targetUserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	// Notify both sides so their UIs update immediately.
	s.publishUserEvent(request.ReceiverID, "friend.request_received", map[string]interface{}{
		"request_id": request.ID,
		"from_user":  userSummary(request.Sender),
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	s.publishUserEvent(request.SenderID, "friend.request_sent", map[string]interface{}{
		"request_id": request.ID,
		"to_user":    userSummary(request.Receiver),
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(request)
}

// GetPendingRequests handles GET /api/friends/requests
func (s *Server) GetPendingRequests(c *fiber.Ctx) error {
	requests, err := s.friendService.ListPending(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(requests)
}

// AcceptFriendRequest handles POST /api/friends/requests/:requestId/accept
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	userID := currentUserID(c)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	request, err := s.friendService.AcceptRequest(c.Context(), userID, requestID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishUserEvent(request.SenderID, "friend.request_accepted", map[string]interface{}{
		"request_id":  request.ID,
		"friend_user": userSummary(request.Receiver),
		"created_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})
	s.publishUserEvent(request.ReceiverID, "friend.added", map[string]interface{}{
		"request_id":  request.ID,
		"friend_user": userSummary(request.Sender),
		"created_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(request)
}

// RejectFriendRequest handles POST /api/friends/requests/:requestId/reject.
// The receiver rejects; the sender cancels their own pending request.
func (s *Server) RejectFriendRequest(c *fiber.Ctx) error {
	userID := currentUserID(c)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	if err := s.friendService.RemoveRequest(c.Context(), userID, requestID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend request removed"})
}

// RemoveFriend handles DELETE /api/friends/:userId
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	userID := currentUserID(c)
	otherID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.friendService.Unfriend(c.Context(), userID, otherID); err != nil {
		return respondServiceError(c, err)
	}

	s.publishUserEvent(otherID, "friend.removed", map[string]interface{}{
		"user_id":    userID,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(fiber.Map{"message": "Friend removed"})
}

// GetFriends handles GET /api/friends
func (s *Server) GetFriends(c *fiber.Ctx) error {
	friends, err := s.friendService.ListFriends(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(friends)
}
