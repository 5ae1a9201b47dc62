package models

import (
	"time"

	"gorm.io/gorm"
)

// Reply belongs to exactly one comment. Replies do not count toward the
// post's total_comments.
type Reply struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"not null" json:"content"`
	UserID    uint           `gorm:"not null" json:"user_id"`
	CommentID uint           `gorm:"not null;index" json:"comment_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
