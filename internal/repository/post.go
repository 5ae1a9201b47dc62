package repository

import (
	"context"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, tx *gorm.DB, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	ListByUsers(ctx context.Context, userIDs []uint, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, tx *gorm.DB, post *models.Post) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, tx *gorm.DB, post *models.Post) error {
	return tx.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return r.ListByUsers(ctx, []uint{userID}, limit, offset)
}

func (r *postRepository) ListByUsers(ctx context.Context, userIDs []uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	if len(userIDs) == 0 {
		return posts, nil
	}
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id IN ?", userIDs).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, tx *gorm.DB, post *models.Post) error {
	return tx.WithContext(ctx).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).Delete(&models.Post{}, id).Error
}
