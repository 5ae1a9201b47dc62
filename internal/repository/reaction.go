package repository

import (
	"context"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"

	"gorm.io/gorm"
)

// ReactionRepository defines the interface for reaction data operations.
// The mutating methods take the caller's transaction so that the matching
// counter delta commits atomically with the detail row.
type ReactionRepository interface {
	GetByPostAndUser(ctx context.Context, tx *gorm.DB, postID, userID uint) (*models.Reaction, error)
	Insert(ctx context.Context, tx *gorm.DB, reaction *models.Reaction) error
	UpdateType(ctx context.Context, tx *gorm.DB, id uint, newType string) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	CountsByType(ctx context.Context, postID uint) (map[string]int64, error)
	ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Reaction, error)
	ReactedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]string, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) GetByPostAndUser(ctx context.Context, tx *gorm.DB, postID, userID uint) (*models.Reaction, error) {
	var reaction models.Reaction
	err := tx.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *reactionRepository) Insert(ctx context.Context, tx *gorm.DB, reaction *models.Reaction) error {
	return tx.WithContext(ctx).Create(reaction).Error
}

func (r *reactionRepository) UpdateType(ctx context.Context, tx *gorm.DB, id uint, newType string) error {
	return tx.WithContext(ctx).Model(&models.Reaction{}).
		Where("id = ?", id).
		Update("type", newType).Error
}

// Delete removes the reaction row outright. Reactions are hard-deleted so
// the (post_id, user_id) unique index stays usable across toggle cycles.
func (r *reactionRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).Delete(&models.Reaction{}, id).Error
}

func (r *reactionRepository) CountsByType(ctx context.Context, postID uint) (map[string]int64, error) {
	type row struct {
		Type  string
		Count int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Select("type, COUNT(*) as count").
		Where("post_id = ?", postID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}

func (r *reactionRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Reaction, error) {
	var reactions []*models.Reaction
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&reactions).Error
	return reactions, err
}

// ReactedPostIDs returns, for each of the given posts the user has reacted
// to, the reaction type held. Used to decorate feed pages in one query.
func (r *reactionRepository) ReactedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]string, error) {
	out := make(map[uint]string, len(postIDs))
	if userID == 0 || len(postIDs) == 0 {
		return out, nil
	}
	var reactions []*models.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Find(&reactions).Error
	if err != nil {
		return nil, err
	}
	for _, re := range reactions {
		out[re.PostID] = re.Type
	}
	return out, nil
}
