package validation

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	// MaxImageBytes caps upload size at 10 MiB.
	MaxImageBytes = 10 << 20

	maxImageDimension = 8192
)

var allowedImageFormats = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// ValidateImage decodes just the header of an upload and returns its
// content type. Rejects oversized payloads, unknown formats, and
// absurd dimensions without decoding full pixel data.
func ValidateImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("image data is empty")
	}
	if len(data) > MaxImageBytes {
		return "", fmt.Errorf("image exceeds maximum size of %d bytes", MaxImageBytes)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("unrecognized image format: %w", err)
	}

	contentType, ok := allowedImageFormats[format]
	if !ok {
		return "", fmt.Errorf("unsupported image format %q", format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > maxImageDimension || cfg.Height > maxImageDimension {
		return "", fmt.Errorf("image dimensions %dx%d out of range", cfg.Width, cfg.Height)
	}
	return contentType, nil
}
