package models

import "time"

// Media is a file attached to a post, stored in object storage and
// referenced by its public URL. Position preserves gallery order.
type Media struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	FileURL   string    `gorm:"not null" json:"file_url"`
	ObjectKey string    `gorm:"not null" json:"-"`
	MediaType string    `json:"media_type"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Photo is a standalone profile-gallery upload, not tied to a post.
type Photo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	FileURL   string    `gorm:"not null" json:"file_url"`
	ObjectKey string    `gorm:"not null" json:"-"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}
