package server

import (
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content   string `json:"content"`
		ClientKey string `json:"client_key"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID:    userID,
		PostID:    postID,
		Content:   req.Content,
		ClientKey: req.ClientKey,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishEngagement(&models.EngagementEvent{
		Type:      models.EventCommentCreated,
		PostID:    postID,
		ActorID:   userID,
		Comment:   result.Comment,
		Counter:   result.Counter,
		ClientKey: result.ClientKey,
	})

	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetComments handles GET /api/posts/:id/comments, newest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	comments, err := s.commentService.ListComments(c.Context(), postID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comments)
}

// UpdateComment handles PUT /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	userID := currentUserID(c)
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.Context(), userID, commentID, req.Content)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id. The comment author
// and the post owner may both delete.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID := currentUserID(c)
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.commentService.DeleteComment(c.Context(), userID, commentID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishEngagement(&models.EngagementEvent{
		Type:      models.EventCommentDeleted,
		PostID:    result.Counter.PostID,
		ActorID:   userID,
		CommentID: commentID,
		Counter:   result.Counter,
	})

	return c.JSON(fiber.Map{"message": "Comment deleted"})
}

// CreateReply handles POST /api/comments/:id/replies. Replies do not
// count toward the post's comment total.
func (s *Server) CreateReply(c *fiber.Ctx) error {
	userID := currentUserID(c)
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reply, err := s.commentService.CreateReply(c.Context(), userID, commentID, req.Content)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

// DeleteReply handles DELETE /api/replies/:id
func (s *Server) DeleteReply(c *fiber.Ctx) error {
	userID := currentUserID(c)
	replyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteReply(c.Context(), userID, replyID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reply deleted"})
}
