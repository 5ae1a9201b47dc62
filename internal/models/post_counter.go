package models

import "time"

// PostCounter is the denormalized engagement cache for a post. It is
// derived state: at any quiescent point each total must equal the count
// of the corresponding detail rows, and Recount is the repair path when
// they drift.
//
// Version increases monotonically with every applied delta or recount
// and doubles as the per-post sequence number on realtime events, which
// lets clients drop late or duplicate deliveries.
type PostCounter struct {
	PostID         uint      `gorm:"primaryKey" json:"post_id"`
	TotalReactions int64     `gorm:"not null;default:0" json:"total_reactions"`
	TotalComments  int64     `gorm:"not null;default:0" json:"total_comments"`
	TotalShares    int64     `gorm:"not null;default:0" json:"total_shares"`
	Version        int64     `gorm:"not null;default:0" json:"version"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CounterField names a counted engagement signal.
type CounterField string

const (
	CounterReactions CounterField = "total_reactions"
	CounterComments  CounterField = "total_comments"
	CounterShares    CounterField = "total_shares"
)
