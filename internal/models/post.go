package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxPostMedia is the number of attachments surfaced in the gallery view.
const MaxPostMedia = 4

type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"not null" json:"content"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`

	// Media attachments in gallery order.
	Media []Media `gorm:"foreignKey:PostID" json:"media,omitempty"`

	// Engagement counts come from the post_counters row; populated at read time.
	TotalReactions int64 `gorm:"-" json:"total_reactions"`
	TotalComments  int64 `gorm:"-" json:"total_comments"`
	TotalShares    int64 `gorm:"-" json:"total_shares"`
	// Reacted indicates whether the requesting user holds a reaction (computed).
	Reacted bool `gorm:"-" json:"reacted"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
