package repository

import (
	"context"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"

	"gorm.io/gorm"
)

// MediaRepository defines the interface for post-media and photo data operations
type MediaRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, media []models.Media) error
	ListByPost(ctx context.Context, postID uint) ([]models.Media, error)
	DeleteByPost(ctx context.Context, tx *gorm.DB, postID uint) error

	CreatePhoto(ctx context.Context, photo *models.Photo) error
	GetPhotoByID(ctx context.Context, id uint) (*models.Photo, error)
	ListPhotosByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Photo, error)
	DeletePhoto(ctx context.Context, id uint) error
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) CreateBatch(ctx context.Context, tx *gorm.DB, media []models.Media) error {
	if len(media) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&media).Error
}

func (r *mediaRepository) ListByPost(ctx context.Context, postID uint) ([]models.Media, error) {
	var media []models.Media
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("position ASC").
		Find(&media).Error
	return media, err
}

func (r *mediaRepository) DeleteByPost(ctx context.Context, tx *gorm.DB, postID uint) error {
	return tx.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Media{}).Error
}

func (r *mediaRepository) CreatePhoto(ctx context.Context, photo *models.Photo) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *mediaRepository) GetPhotoByID(ctx context.Context, id uint) (*models.Photo, error) {
	var photo models.Photo
	if err := r.db.WithContext(ctx).First(&photo, id).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *mediaRepository) ListPhotosByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Photo, error) {
	var photos []*models.Photo
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&photos).Error
	return photos, err
}

func (r *mediaRepository) DeletePhoto(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Photo{}, id).Error
}
