package server

import (
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts. Media is uploaded beforehand via
// POST /api/media; the returned references are attached here.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Content string `json:"content"`
		Media   []struct {
			FileURL   string `json:"file_url"`
			ObjectKey string `json:"object_key"`
			MediaType string `json:"media_type"`
		} `json:"media"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	media := make([]service.MediaInput, 0, len(req.Media))
	for _, m := range req.Media {
		media = append(media, service.MediaInput{
			FileURL:   m.FileURL,
			ObjectKey: m.ObjectKey,
			MediaType: m.MediaType,
		})
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:  userID,
		Content: req.Content,
		Media:   media,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), postID, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// GetFeed handles GET /api/feed: the viewer's own and friends' posts,
// newest first, decorated with engagement totals.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePagination(c, 20)

	posts, err := s.postService.ListFeed(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
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

	post, counter, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:  userID,
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishEngagement(&models.EngagementEvent{
		Type:    models.EventPostUpdated,
		PostID:  postID,
		ActorID: userID,
		Counter: counter,
	})

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	objectKeys, counter, err := s.postService.DeletePost(c.Context(), userID, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	// Object storage cleanup is best effort and out of band.
	if s.mediaService != nil && len(objectKeys) > 0 {
		s.mediaService.Discard(c.Context(), objectKeys)
	}

	s.publishEngagement(&models.EngagementEvent{
		Type:    models.EventPostDeleted,
		PostID:  postID,
		ActorID: userID,
		Counter: counter,
	})

	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// SharePost handles POST /api/posts/:id/share
func (s *Server) SharePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.postService.SharePost(c.Context(), userID, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishEngagement(&models.EngagementEvent{
		Type:    models.EventShareCreated,
		PostID:  postID,
		ActorID: userID,
		Share:   result.Share,
		Counter: result.Counter,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"share":   result.Share,
		"counter": result.Counter,
	})
}

// GetPostSnapshot handles GET /api/posts/:id/snapshot: the
// authoritative state a client needs to (re)start reconciling a post —
// the counter, the viewer's reaction, and the recent comments.
func (s *Server) GetPostSnapshot(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)
	ctx := c.Context()

	counter, err := s.counterService.GetCounter(ctx, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	var myReaction *models.Reaction
	if userID != 0 {
		myReaction, err = s.reactionService.GetUserReaction(ctx, userID, postID)
		if err != nil {
			return respondServiceError(c, err)
		}
	}

	page := parsePagination(c, 20)
	comments, err := s.commentService.ListComments(ctx, postID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"counter":     counter,
		"my_reaction": myReaction,
		"comments":    comments,
	})
}

// GetCounter handles GET /api/posts/:id/counter
func (s *Server) GetCounter(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	counter, err := s.counterService.GetCounter(c.Context(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(counter)
}

// RecountPost handles POST /api/posts/:id/recount: recompute the
// counter from the detail tables. Idempotent; safe to call whenever a
// client suspects drift.
func (s *Server) RecountPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	counter, err := s.counterService.Recount(c.Context(), postID, "api")
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishEngagement(&models.EngagementEvent{
		Type:    models.EventCounterRecounted,
		PostID:  postID,
		ActorID: currentUserID(c),
		Counter: counter,
	})

	return c.JSON(counter)
}
