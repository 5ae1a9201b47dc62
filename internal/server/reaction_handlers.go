package server

import (
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SetReaction handles PUT /api/posts/:id/reaction. The same endpoint
// covers all three gestures: first reaction inserts, repeating the held
// type toggles it off, a different type replaces in place.
//
// client_key is an opaque token the caller attaches to recognize its
// own write when it comes back on the live feed.
func (s *Server) SetReaction(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Type      string `json:"type"`
		ClientKey string `json:"client_key"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.reactionService.SetReaction(c.Context(), service.SetReactionInput{
		UserID:    userID,
		PostID:    postID,
		Type:      req.Type,
		ClientKey: req.ClientKey,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	if event := reactionEvent(userID, postID, result); event != nil {
		s.publishEngagement(event)
	}

	return c.JSON(result)
}

// ClearReaction handles DELETE /api/posts/:id/reaction. Removing a
// reaction you do not hold is a no-op, not an error.
func (s *Server) ClearReaction(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.reactionService.ClearReaction(c.Context(), userID, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	if event := reactionEvent(userID, postID, result); event != nil {
		s.publishEngagement(event)
	}

	return c.JSON(result)
}

// GetMyReaction handles GET /api/posts/:id/reaction
func (s *Server) GetMyReaction(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	reaction, err := s.reactionService.GetUserReaction(c.Context(), userID, postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"reaction": reaction})
}

// GetReactions handles GET /api/posts/:id/reactions
func (s *Server) GetReactions(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	reactions, err := s.reactionService.ListReactions(c.Context(), postID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(reactions)
}

// GetReactionBreakdown handles GET /api/posts/:id/reactions/summary
func (s *Server) GetReactionBreakdown(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	breakdown, err := s.reactionService.GetReactionBreakdown(c.Context(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(breakdown)
}
