package repository

import (
	"context"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"

	"gorm.io/gorm"
)

// FeedRepository derives ranked engagement views from the live post and
// counter tables. Results are ordered, never stored.
type FeedRepository interface {
	TopPostsByCreator(ctx context.Context, creatorID uint, limit int) ([]*models.RankedPost, error)
}

type feedRepository struct {
	db *gorm.DB
}

// NewFeedRepository creates a new feed repository
func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

// TopPostsByCreator returns the creator's posts ordered by engagement.
// The sort key is total, deterministic: reactions, then comments, then
// recency, then post id. Rank assignment happens in the service layer.
func (r *feedRepository) TopPostsByCreator(ctx context.Context, creatorID uint, limit int) ([]*models.RankedPost, error) {
	var rows []*models.RankedPost
	err := r.db.WithContext(ctx).
		Table("posts").
		Select("posts.id AS post_id, posts.user_id AS creator_id, "+
			"post_counters.total_reactions, post_counters.total_comments").
		Joins("JOIN post_counters ON post_counters.post_id = posts.id").
		Where("posts.user_id = ? AND posts.deleted_at IS NULL", creatorID).
		Order("post_counters.total_reactions DESC, post_counters.total_comments DESC, posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
