package models

import "time"

// Engagement event types carried on the live feed.
const (
	EventReactionAdded    = "reaction.added"
	EventReactionRemoved  = "reaction.removed"
	EventReactionReplaced = "reaction.replaced"
	EventCommentCreated   = "comment.created"
	EventCommentDeleted   = "comment.deleted"
	EventShareCreated     = "share.created"
	EventPostUpdated      = "post.updated"
	EventPostDeleted      = "post.deleted"
	EventCounterRecounted = "counter.recounted"
)

// EngagementEvent is one realtime mutation on a post's engagement state.
//
// Seq is the post's counter version captured in the mutating transaction;
// it increases by at least one per event on a post, so consumers drop
// anything at or below the last sequence they applied. Counter is the
// full snapshot at that version and always replaces local counts
// wholesale, never adjusts them.
//
// ClientKey echoes the token the originating client attached to its
// request, letting that client recognize the event as its own write.
type EngagementEvent struct {
	Type      string       `json:"type"`
	PostID    uint         `json:"post_id"`
	ActorID   uint         `json:"actor_id"`
	Seq       int64        `json:"seq"`
	Counter   *PostCounter `json:"counter,omitempty"`
	Reaction  *Reaction    `json:"reaction,omitempty"`
	Comment   *Comment     `json:"comment,omitempty"`
	Share     *Share       `json:"share,omitempty"`
	CommentID uint         `json:"comment_id,omitempty"`
	Previous  string       `json:"previous,omitempty"`
	ClientKey string       `json:"client_key,omitempty"`
	EmittedAt time.Time    `json:"emitted_at"`
}
