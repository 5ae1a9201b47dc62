package repository

import (
	"context"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"

	"gorm.io/gorm"
)

// ShareRepository defines the interface for share data operations
type ShareRepository interface {
	Insert(ctx context.Context, tx *gorm.DB, share *models.Share) error
	ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Share, error)
}

type shareRepository struct {
	db *gorm.DB
}

// NewShareRepository creates a new share repository
func NewShareRepository(db *gorm.DB) ShareRepository {
	return &shareRepository{db: db}
}

func (r *shareRepository) Insert(ctx context.Context, tx *gorm.DB, share *models.Share) error {
	return tx.WithContext(ctx).Create(share).Error
}

func (r *shareRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Share, error) {
	var shares []*models.Share
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&shares).Error
	return shares, err
}
