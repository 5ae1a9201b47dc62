package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetTopPosts handles GET /api/users/:id/top-posts: one creator's
// posts ranked by engagement. Rank 1 is the most engaged post; the top
// three ranks carry the highlighted badge.
func (s *Server) GetTopPosts(c *fiber.Ctx) error {
	creatorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 10)

	ranked, err := s.feedService.TopPosts(c.Context(), creatorID, page.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(ranked)
}
