package service

import (
	"context"
	"errors"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/repository"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/validation"

	"gorm.io/gorm"
)

// CommentService handles comments and their replies. Comment creation
// and deletion adjust the post's total_comments in the same transaction;
// replies never touch the counter.
type CommentService struct {
	db          *gorm.DB
	commentRepo repository.CommentRepository
	counterRepo repository.CounterRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	UserID    uint
	PostID    uint
	Content   string
	ClientKey string
}

// CommentResult pairs the mutated comment with the counter snapshot
// taken in the same transaction.
type CommentResult struct {
	Comment   *models.Comment     `json:"comment"`
	Counter   *models.PostCounter `json:"counter"`
	ClientKey string              `json:"client_key,omitempty"`
}

func NewCommentService(
	db *gorm.DB,
	commentRepo repository.CommentRepository,
	counterRepo repository.CounterRepository,
	postRepo repository.PostRepository,
) *CommentService {
	return &CommentService{
		db:          db,
		commentRepo: commentRepo,
		counterRepo: counterRepo,
		postRepo:    postRepo,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*CommentResult, error) {
	if err := validation.ValidateCommentContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, err
	}

	comment := &models.Comment{
		Content: in.Content,
		UserID:  in.UserID,
		PostID:  in.PostID,
	}
	result := &CommentResult{ClientKey: in.ClientKey}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.commentRepo.Create(ctx, tx, comment); err != nil {
			return err
		}
		counter, err := s.counterRepo.ApplyDelta(ctx, tx, in.PostID, models.CounterComments, 1)
		if err != nil {
			return err
		}
		result.Counter = counter
		return nil
	})
	if err != nil {
		return nil, err
	}

	full, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	result.Comment = full
	return result, nil
}

// ListComments pages a post's comments newest-first with their replies.
func (s *CommentService) ListComments(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID, limit, offset)
}

func (s *CommentService) UpdateComment(ctx context.Context, userID, commentID uint, content string) (*models.Comment, error) {
	if err := validation.ValidateCommentContent(content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", commentID)
		}
		return nil, err
	}
	if comment.UserID != userID {
		return nil, models.NewUnauthorizedError("You can only edit your own comments")
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment. The comment author and the post
// owner may both delete; the post's total_comments drops in the same
// transaction.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) (*CommentResult, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", commentID)
		}
		return nil, err
	}

	if comment.UserID != userID {
		post, err := s.postRepo.GetByID(ctx, comment.PostID)
		if err != nil {
			return nil, err
		}
		if post.UserID != userID {
			return nil, models.NewUnauthorizedError("You can only delete your own comments")
		}
	}

	result := &CommentResult{Comment: comment}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.commentRepo.Delete(ctx, tx, commentID); err != nil {
			return err
		}
		counter, err := s.counterRepo.ApplyDelta(ctx, tx, comment.PostID, models.CounterComments, -1)
		if err != nil {
			return err
		}
		result.Counter = counter
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *CommentService) CreateReply(ctx context.Context, userID, commentID uint, content string) (*models.Reply, error) {
	if err := validation.ValidateReplyContent(content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", commentID)
		}
		return nil, err
	}

	reply := &models.Reply{
		Content:   content,
		UserID:    userID,
		CommentID: commentID,
	}
	if err := s.commentRepo.CreateReply(ctx, reply); err != nil {
		return nil, err
	}
	return s.commentRepo.GetReplyByID(ctx, reply.ID)
}

func (s *CommentService) DeleteReply(ctx context.Context, userID, replyID uint) error {
	reply, err := s.commentRepo.GetReplyByID(ctx, replyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Reply", replyID)
		}
		return err
	}
	if reply.UserID != userID {
		return models.NewUnauthorizedError("You can only delete your own replies")
	}
	return s.commentRepo.DeleteReply(ctx, replyID)
}
