package models

import "time"

// Friend request lifecycle states.
const (
	FriendStatusPending  = "pending"
	FriendStatusAccepted = "accepted"
)

// FriendRequest is one direction of an undirected friendship: two users
// are friends when any accepted row exists between them in either
// direction. The (sender, receiver) pair is unique.
type FriendRequest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;uniqueIndex:idx_sender_receiver" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;uniqueIndex:idx_sender_receiver" json:"receiver_id"`
	Status     string    `gorm:"not null;default:pending" json:"status"`
	SentAt     time.Time `gorm:"autoCreateTime" json:"sent_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Sender   User `gorm:"foreignKey:SenderID" json:"sender"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"receiver"`
}
