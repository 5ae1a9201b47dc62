// Package service implements the application's business logic on top of
// the repository layer.
package service

import (
	"context"
	"errors"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/observability"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// Reaction outcomes reported to callers and used as event subtypes.
const (
	ReactionOutcomeAdded    = "added"
	ReactionOutcomeReplaced = "replaced"
	ReactionOutcomeRemoved  = "removed"
	ReactionOutcomeNoop     = "noop"
)

// ReactionService is the single write path for reactions. All mutations
// go through it so the one-reaction-per-user-per-post rule and the
// counter bookkeeping cannot drift apart.
type ReactionService struct {
	db           *gorm.DB
	reactionRepo repository.ReactionRepository
	counterRepo  repository.CounterRepository
	postRepo     repository.PostRepository
}

// SetReactionInput carries one user gesture on a post. ClientKey is an
// opaque token the client attached to the gesture; it is echoed on the
// resulting event so the originating client can recognize its own write.
type SetReactionInput struct {
	UserID    uint
	PostID    uint
	Type      string
	ClientKey string
}

// ReactionResult describes what a mutation did. Reaction is nil when the
// outcome removed the row. Counter is the post's counter snapshot taken
// in the same transaction, so its Version orders this mutation against
// all others on the post.
type ReactionResult struct {
	Outcome      string              `json:"outcome"`
	PreviousType string              `json:"previous_type,omitempty"`
	Reaction     *models.Reaction    `json:"reaction"`
	Counter      *models.PostCounter `json:"counter"`
	ClientKey    string              `json:"client_key,omitempty"`
}

func NewReactionService(
	db *gorm.DB,
	reactionRepo repository.ReactionRepository,
	counterRepo repository.CounterRepository,
	postRepo repository.PostRepository,
) *ReactionService {
	return &ReactionService{
		db:           db,
		reactionRepo: reactionRepo,
		counterRepo:  counterRepo,
		postRepo:     postRepo,
	}
}

// SetReaction applies a reaction gesture:
//
//   - no existing reaction: insert, total_reactions +1
//   - existing reaction of the same type: delete (toggle off), total_reactions -1
//   - existing reaction of a different type: change type in place, totals unchanged
//
// The detail-row mutation and the counter update commit in one
// transaction; on rollback neither is visible.
func (s *ReactionService) SetReaction(ctx context.Context, in SetReactionInput) (*ReactionResult, error) {
	span, ctx := observability.NewSpan(ctx, "reaction.set")
	defer span.End()
	span.AddAttributes(
		attribute.Int64("post.id", int64(in.PostID)),
		attribute.String("reaction.type", in.Type),
	)

	if !models.ValidReactionType(in.Type) {
		return nil, models.NewValidationError("Invalid reaction type")
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, err
	}

	result := &ReactionResult{ClientKey: in.ClientKey}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.reactionRepo.GetByPostAndUser(ctx, tx, in.PostID, in.UserID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		switch {
		case existing == nil:
			reaction := &models.Reaction{
				PostID: in.PostID,
				UserID: in.UserID,
				Type:   in.Type,
			}
			if err := s.reactionRepo.Insert(ctx, tx, reaction); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return models.NewConflictError("Reaction already exists")
				}
				return err
			}
			counter, err := s.counterRepo.ApplyDelta(ctx, tx, in.PostID, models.CounterReactions, 1)
			if err != nil {
				return err
			}
			result.Outcome = ReactionOutcomeAdded
			result.Reaction = reaction
			result.Counter = counter

		case existing.Type == in.Type:
			// Same gesture twice toggles the reaction off.
			if err := s.reactionRepo.Delete(ctx, tx, existing.ID); err != nil {
				return err
			}
			counter, err := s.counterRepo.ApplyDelta(ctx, tx, in.PostID, models.CounterReactions, -1)
			if err != nil {
				return err
			}
			result.Outcome = ReactionOutcomeRemoved
			result.PreviousType = existing.Type
			result.Counter = counter

		default:
			// Different type replaces in place; the total does not move
			// but the version still advances so the event is ordered.
			if err := s.reactionRepo.UpdateType(ctx, tx, existing.ID, in.Type); err != nil {
				return err
			}
			counter, err := s.counterRepo.Touch(ctx, tx, in.PostID)
			if err != nil {
				return err
			}
			result.PreviousType = existing.Type
			existing.Type = in.Type
			result.Outcome = ReactionOutcomeReplaced
			result.Reaction = existing
			result.Counter = counter
		}
		return nil
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	observability.ReactionTransitions.WithLabelValues(transitionKind(result.Outcome)).Inc()
	return result, nil
}

// ClearReaction removes the user's reaction on the post if one exists.
// Clearing when none exists is a no-op, not an error.
func (s *ReactionService) ClearReaction(ctx context.Context, userID, postID uint) (*ReactionResult, error) {
	result := &ReactionResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.reactionRepo.GetByPostAndUser(ctx, tx, postID, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result.Outcome = ReactionOutcomeNoop
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.reactionRepo.Delete(ctx, tx, existing.ID); err != nil {
			return err
		}
		counter, err := s.counterRepo.ApplyDelta(ctx, tx, postID, models.CounterReactions, -1)
		if err != nil {
			return err
		}
		result.Outcome = ReactionOutcomeRemoved
		result.PreviousType = existing.Type
		result.Counter = counter
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Outcome != ReactionOutcomeNoop {
		observability.ReactionTransitions.WithLabelValues("clear").Inc()
	}
	return result, nil
}

// GetUserReaction returns the user's current reaction on the post, or
// nil when they hold none.
func (s *ReactionService) GetUserReaction(ctx context.Context, userID, postID uint) (*models.Reaction, error) {
	reaction, err := s.reactionRepo.GetByPostAndUser(ctx, s.db, postID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return reaction, nil
}

// GetReactionBreakdown returns per-type counts for a post's reaction bar.
func (s *ReactionService) GetReactionBreakdown(ctx context.Context, postID uint) (map[string]int64, error) {
	return s.reactionRepo.CountsByType(ctx, postID)
}

// ListReactions pages through a post's reactions, newest first.
func (s *ReactionService) ListReactions(ctx context.Context, postID uint, limit, offset int) ([]*models.Reaction, error) {
	return s.reactionRepo.ListByPost(ctx, postID, limit, offset)
}

func transitionKind(outcome string) string {
	switch outcome {
	case ReactionOutcomeAdded:
		return "insert"
	case ReactionOutcomeRemoved:
		return "toggle_off"
	case ReactionOutcomeReplaced:
		return "replace"
	}
	return outcome
}
