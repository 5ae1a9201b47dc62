package models

// HighlightRankThreshold is the highest rank still shown with the
// highlighted treatment (gold/silver/bronze badges).
const HighlightRankThreshold = 3

// RankedPost is a derived view row: one creator's post with its
// engagement rank. Rank 1 is the creator's most engaged post; ranks are
// a strict total order, so no two posts of the same creator share one.
type RankedPost struct {
	PostID         uint  `json:"post_id"`
	CreatorID      uint  `json:"creator_id"`
	Rank           int   `json:"rank"`
	TotalReactions int64 `json:"total_reactions"`
	TotalComments  int64 `json:"total_comments"`
	Highlighted    bool  `json:"highlighted"`
}
