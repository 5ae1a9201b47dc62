package service

import (
	"context"
	"errors"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/observability"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/repository"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/storage"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/validation"

	"gorm.io/gorm"
)

// MediaService validates uploads, places them in object storage, and
// keeps the database rows and stored objects consistent.
type MediaService struct {
	mediaRepo repository.MediaRepository
	store     storage.Store
}

func NewMediaService(mediaRepo repository.MediaRepository, store storage.Store) *MediaService {
	return &MediaService{mediaRepo: mediaRepo, store: store}
}

// StagePostMedia validates and uploads one post attachment, returning
// the reference the post service will persist. If the post transaction
// later fails, the caller must Discard the staged object.
func (s *MediaService) StagePostMedia(ctx context.Context, filename string, data []byte) (*MediaInput, error) {
	contentType, err := validation.ValidateImage(data)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	obj, err := s.store.Upload(ctx, "posts", filename, contentType, data)
	if err != nil {
		return nil, models.NewUnavailableError("Object storage is unavailable", err)
	}
	return &MediaInput{
		FileURL:   obj.URL,
		ObjectKey: obj.Key,
		MediaType: contentType,
	}, nil
}

// Discard removes staged objects whose database rows never landed.
// Best-effort: a failed delete leaves an orphan for the storage
// janitor, never a broken reference.
func (s *MediaService) Discard(ctx context.Context, objectKeys []string) {
	for _, key := range objectKeys {
		if err := s.store.Remove(ctx, key); err != nil {
			observability.GlobalLogger.WarnContext(ctx, "failed to remove staged object",
				"key", key, "error", err.Error())
		}
	}
}

// UploadPhoto stores a profile-gallery photo: upload first, then the
// row. If the row insert fails the object is removed so no orphan URL
// survives.
func (s *MediaService) UploadPhoto(ctx context.Context, userID uint, caption, filename string, data []byte) (*models.Photo, error) {
	if len([]rune(caption)) > validation.MaxCaptionLen {
		return nil, models.NewValidationError("caption too long")
	}
	contentType, err := validation.ValidateImage(data)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	obj, err := s.store.Upload(ctx, "photos", filename, contentType, data)
	if err != nil {
		return nil, models.NewUnavailableError("Object storage is unavailable", err)
	}

	photo := &models.Photo{
		UserID:    userID,
		FileURL:   obj.URL,
		ObjectKey: obj.Key,
		Caption:   caption,
	}
	if err := s.mediaRepo.CreatePhoto(ctx, photo); err != nil {
		s.Discard(ctx, []string{obj.Key})
		return nil, err
	}
	return photo, nil
}

func (s *MediaService) ListPhotos(ctx context.Context, userID uint, limit, offset int) ([]*models.Photo, error) {
	return s.mediaRepo.ListPhotosByUser(ctx, userID, limit, offset)
}

// DeletePhoto removes the row first, then the object. A stale object is
// recoverable garbage; a dangling URL is a user-visible bug.
func (s *MediaService) DeletePhoto(ctx context.Context, userID, photoID uint) error {
	photo, err := s.mediaRepo.GetPhotoByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Photo", photoID)
		}
		return err
	}
	if photo.UserID != userID {
		return models.NewUnauthorizedError("You can only delete your own photos")
	}

	if err := s.mediaRepo.DeletePhoto(ctx, photoID); err != nil {
		return err
	}
	s.Discard(ctx, []string{photo.ObjectKey})
	return nil
}
