package models

import "time"

// Reaction types a user can attach to a post.
const (
	ReactionLike       = "like"
	ReactionLove       = "love"
	ReactionDua        = "dua"
	ReactionInsightful = "insightful"
	ReactionThankful   = "thankful"
	ReactionChuckle    = "chuckle"
)

// ReactionTypes lists all valid reaction types in display order.
var ReactionTypes = []string{
	ReactionLike,
	ReactionLove,
	ReactionDua,
	ReactionInsightful,
	ReactionThankful,
	ReactionChuckle,
}

// ValidReactionType reports whether t is a known reaction type.
func ValidReactionType(t string) bool {
	for _, rt := range ReactionTypes {
		if rt == t {
			return true
		}
	}
	return false
}

// Reaction represents a user's typed endorsement on a post.
// The combination of PostID and UserID must be unique: a user holds at
// most one reaction per post. Changing type mutates the row in place;
// toggling the same type off deletes it (hard delete, so the unique
// index stays usable across toggle cycles).
type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_user" json:"user_id"`
	Type      string    `gorm:"not null" json:"reaction_type"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
	Post Post `gorm:"foreignKey:PostID" json:"-"`
}
