package repository

import (
	"context"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment and reply data operations
type CommentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	CreateReply(ctx context.Context, reply *models.Reply) error
	GetReplyByID(ctx context.Context, id uint) (*models.Reply, error)
	DeleteReply(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, tx *gorm.DB, comment *models.Comment) error {
	return tx.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Replies.User").
		First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns comments newest-first; replies within each comment
// stay oldest-first so threads read top-down.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Replies.User").
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *commentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).Delete(&models.Comment{}, id).Error
}

func (r *commentRepository) CreateReply(ctx context.Context, reply *models.Reply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}

func (r *commentRepository) GetReplyByID(ctx context.Context, id uint) (*models.Reply, error) {
	var reply models.Reply
	if err := r.db.WithContext(ctx).Preload("User").First(&reply, id).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *commentRepository) DeleteReply(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Reply{}, id).Error
}
