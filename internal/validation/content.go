package validation

import (
	"fmt"
	"strings"
)

const (
	MaxPostContentLen    = 10000
	MaxCommentContentLen = 2000
	MaxReplyContentLen   = 2000
	MaxBioLen            = 500
	MaxCaptionLen        = 300
)

// ValidateContent checks a free-text body for emptiness and length.
func ValidateContent(kind, content string, maxLen int) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%s content is required", kind)
	}
	if len([]rune(content)) > maxLen {
		return fmt.Errorf("%s content too long (max %d characters)", kind, maxLen)
	}
	return nil
}

func ValidatePostContent(content string) error {
	return ValidateContent("post", content, MaxPostContentLen)
}

func ValidateCommentContent(content string) error {
	return ValidateContent("comment", content, MaxCommentContentLen)
}

func ValidateReplyContent(content string) error {
	return ValidateContent("reply", content, MaxReplyContentLen)
}
