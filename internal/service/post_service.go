package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/repository"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/validation"

	"gorm.io/gorm"
)

// PostService handles posts, their media attachments, and shares.
type PostService struct {
	db           *gorm.DB
	postRepo     repository.PostRepository
	mediaRepo    repository.MediaRepository
	counterRepo  repository.CounterRepository
	reactionRepo repository.ReactionRepository
	shareRepo    repository.ShareRepository
	friendRepo   repository.FriendRepository
}

// MediaInput references an already-uploaded object to attach to a post.
type MediaInput struct {
	FileURL   string
	ObjectKey string
	MediaType string
}

type CreatePostInput struct {
	UserID  uint
	Content string
	Media   []MediaInput
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Content string
}

// ShareResult pairs the share row with the counter snapshot taken in
// the same transaction.
type ShareResult struct {
	Share   *models.Share
	Counter *models.PostCounter
}

func NewPostService(
	db *gorm.DB,
	postRepo repository.PostRepository,
	mediaRepo repository.MediaRepository,
	counterRepo repository.CounterRepository,
	reactionRepo repository.ReactionRepository,
	shareRepo repository.ShareRepository,
	friendRepo repository.FriendRepository,
) *PostService {
	return &PostService{
		db:           db,
		postRepo:     postRepo,
		mediaRepo:    mediaRepo,
		counterRepo:  counterRepo,
		reactionRepo: reactionRepo,
		shareRepo:    shareRepo,
		friendRepo:   friendRepo,
	}
}

// CreatePost creates the post, its media rows, and its zeroed counter
// row in one transaction.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if len(in.Media) > models.MaxPostMedia {
		return nil, models.NewValidationError(
			fmt.Sprintf("A post can carry at most %d media attachments", models.MaxPostMedia))
	}

	post := &models.Post{
		Content: in.Content,
		UserID:  in.UserID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.postRepo.Create(ctx, tx, post); err != nil {
			return err
		}
		media := make([]models.Media, 0, len(in.Media))
		for i, m := range in.Media {
			media = append(media, models.Media{
				PostID:    post.ID,
				FileURL:   m.FileURL,
				ObjectKey: m.ObjectKey,
				MediaType: m.MediaType,
				Position:  i,
			})
		}
		if err := s.mediaRepo.CreateBatch(ctx, tx, media); err != nil {
			return err
		}
		return s.counterRepo.EnsureRow(ctx, tx, post.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetPost(ctx, post.ID, in.UserID)
}

// GetPost returns the post with its counter totals and, when a viewer
// is known, whether they reacted.
func (s *PostService) GetPost(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}
	if err := s.attachEngagement(ctx, []*models.Post{post}, currentUserID); err != nil {
		return nil, err
	}
	return post, nil
}

// ListFeed returns the viewer's home feed: their own posts plus their
// friends', newest first, decorated with counters.
func (s *PostService) ListFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	friendIDs, err := s.friendRepo.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	authorIDs := append(friendIDs, userID)

	posts, err := s.postRepo.ListByUsers(ctx, authorIDs, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.attachEngagement(ctx, posts, userID); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListUserPosts returns one user's timeline, newest first.
func (s *PostService) ListUserPosts(ctx context.Context, profileUserID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	posts, err := s.postRepo.ListByUser(ctx, profileUserID, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.attachEngagement(ctx, posts, currentUserID); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost edits the post body and bumps the counter version in the
// same transaction, so the resulting event carries a fresh sequence
// number even though no total changed.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, *models.PostCounter, error) {
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, nil, models.NewValidationError(err.Error())
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, nil, err
	}
	if post.UserID != in.UserID {
		return nil, nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	post.Content = in.Content
	var counter *models.PostCounter
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.postRepo.Update(ctx, tx, post); err != nil {
			return err
		}
		counter, err = s.counterRepo.Touch(ctx, tx, post.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	post, err = s.GetPost(ctx, post.ID, in.UserID)
	if err != nil {
		return nil, nil, err
	}
	return post, counter, nil
}

// DeletePost soft-deletes the post and removes its media rows. Object
// storage cleanup happens out of band via the returned keys. The
// counter row survives the post so its version can sequence the
// deletion event.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) ([]string, *models.PostCounter, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, models.NewNotFoundError("Post", postID)
		}
		return nil, nil, err
	}
	if post.UserID != userID {
		return nil, nil, models.NewUnauthorizedError("You can only delete your own posts")
	}

	media, err := s.mediaRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	objectKeys := make([]string, 0, len(media))
	for _, m := range media {
		objectKeys = append(objectKeys, m.ObjectKey)
	}

	var counter *models.PostCounter
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.mediaRepo.DeleteByPost(ctx, tx, postID); err != nil {
			return err
		}
		if err := s.postRepo.Delete(ctx, tx, postID); err != nil {
			return err
		}
		counter, err = s.counterRepo.Touch(ctx, tx, postID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return objectKeys, counter, nil
}

// SharePost records a share and bumps total_shares in one transaction.
// Sharing the same post repeatedly is allowed.
func (s *PostService) SharePost(ctx context.Context, userID, postID uint) (*ShareResult, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}

	share := &models.Share{PostID: postID, UserID: userID}
	result := &ShareResult{Share: share}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.shareRepo.Insert(ctx, tx, share); err != nil {
			return err
		}
		counter, err := s.counterRepo.ApplyDelta(ctx, tx, postID, models.CounterShares, 1)
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

// attachEngagement decorates posts with counter totals and the viewer's
// reacted flag using two batched queries.
func (s *PostService) attachEngagement(ctx context.Context, posts []*models.Post, currentUserID uint) error {
	if len(posts) == 0 {
		return nil
	}
	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	counters, err := s.counterRepo.GetMany(ctx, postIDs)
	if err != nil {
		return err
	}
	reacted, err := s.reactionRepo.ReactedPostIDs(ctx, currentUserID, postIDs)
	if err != nil {
		return err
	}

	for _, p := range posts {
		if c, ok := counters[p.ID]; ok {
			p.TotalReactions = c.TotalReactions
			p.TotalComments = c.TotalComments
			p.TotalShares = c.TotalShares
		}
		_, p.Reacted = reacted[p.ID]
	}
	return nil
}
