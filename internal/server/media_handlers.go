package server

import (
	"io"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// requireMediaService rejects media routes when object storage was not
// configured at startup.
func (s *Server) requireMediaService(c *fiber.Ctx) error {
	if s.mediaService == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewUnavailableError("Media storage is not available", nil))
	}
	return nil
}

// readUpload pulls the "file" part out of a multipart form, bounded by
// the image size limit.
func readUpload(c *fiber.Ctx) (string, []byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", nil, models.NewValidationError("A 'file' form field is required")
	}
	if fileHeader.Size > validation.MaxImageBytes {
		return "", nil, models.NewValidationError("File exceeds the maximum allowed size")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, validation.MaxImageBytes+1))
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	if int64(len(data)) > validation.MaxImageBytes {
		return "", nil, models.NewValidationError("File exceeds the maximum allowed size")
	}
	return fileHeader.Filename, data, nil
}

// UploadPostMedia handles POST /api/media: stage an image for a post
// created in a follow-up request. The response carries the references
// to attach.
func (s *Server) UploadPostMedia(c *fiber.Ctx) error {
	if err := s.requireMediaService(c); err != nil {
		return err
	}

	filename, data, err := readUpload(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	staged, err := s.mediaService.StagePostMedia(c.Context(), filename, data)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"file_url":   staged.FileURL,
		"object_key": staged.ObjectKey,
		"media_type": staged.MediaType,
	})
}

// UploadPhoto handles POST /api/photos: a standalone gallery upload.
func (s *Server) UploadPhoto(c *fiber.Ctx) error {
	if err := s.requireMediaService(c); err != nil {
		return err
	}

	filename, data, err := readUpload(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	caption := c.FormValue("caption")

	photo, err := s.mediaService.UploadPhoto(c.Context(), currentUserID(c), caption, filename, data)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(photo)
}

// GetUserPhotos handles GET /api/users/:id/photos
func (s *Server) GetUserPhotos(c *fiber.Ctx) error {
	if err := s.requireMediaService(c); err != nil {
		return err
	}

	profileID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	photos, err := s.mediaService.ListPhotos(c.Context(), profileID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(photos)
}

// DeletePhoto handles DELETE /api/photos/:id
func (s *Server) DeletePhoto(c *fiber.Ctx) error {
	if err := s.requireMediaService(c); err != nil {
		return err
	}

	photoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.mediaService.DeletePhoto(c.Context(), currentUserID(c), photoID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Photo deleted"})
}
