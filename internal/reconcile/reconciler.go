// Package reconcile maintains a client-side view of post engagement
// that converges with the server under optimistic local writes,
// out-of-order event delivery, and dropped messages.
//
// The server is always authoritative: counter snapshots on events
// replace local counts wholesale, and a resync replaces the whole view.
// Local optimism only ever changes what is displayed between a user
// gesture and its confirmation.
package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"

	"github.com/cenkalti/backoff/v4"
)

// PendingState tags an optimistic local write.
type PendingState string

const (
	// StatePending means the write was applied locally and sent, but no
	// confirmation has arrived.
	StatePending PendingState = "pending"
	// StateConfirmed means the server acknowledged the write, via HTTP
	// response or a matching event.
	StateConfirmed PendingState = "confirmed"
	// StateReverted means the server rejected the write and the local
	// view was rolled back.
	StateReverted PendingState = "reverted"
)

// PendingWrite is one in-flight optimistic mutation, keyed by the
// ClientKey sent with the request.
type PendingWrite struct {
	ClientKey string
	State     PendingState
	// prior holds what the write displaced, for rollback.
	priorReaction *models.Reaction
	// reactionDelta is the optimistic count change this write applied.
	reactionDelta int64
	SentAt        time.Time
}

// PostView is the reconciler's materialized state for one post.
type PostView struct {
	PostID  uint
	Counter models.PostCounter
	// LastSeq is the highest event sequence applied; events at or below
	// it are duplicates or stale reordering and are dropped.
	LastSeq int64
	// MyReaction is the viewer's reaction as displayed, which may be
	// optimistic.
	MyReaction *models.Reaction
	// Comments newest-first, as displayed.
	Comments []*models.Comment

	pending map[string]*PendingWrite
	// seenComments dedupes comment prepends by comment id.
	seenComments map[uint]struct{}
}

// Snapshot is the authoritative state a resync fetch returns.
type Snapshot struct {
	Counter    models.PostCounter
	MyReaction *models.Reaction
	Comments   []*models.Comment
}

// Fetcher loads authoritative post state; in the app it is an HTTP call
// to the posts API.
type Fetcher interface {
	FetchPost(ctx context.Context, postID uint) (*Snapshot, error)
}

// Reconciler tracks any number of posts for one viewer.
type Reconciler struct {
	mu      sync.Mutex
	selfID  uint
	posts   map[uint]*PostView
	fetcher Fetcher

	// newBackOff builds the retry policy for resync fetches.
	newBackOff func() backoff.BackOff
}

// New creates a reconciler for the given viewer.
func New(selfID uint, fetcher Fetcher) *Reconciler {
	return &Reconciler{
		selfID:  selfID,
		posts:   make(map[uint]*PostView),
		fetcher: fetcher,
		newBackOff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 200 * time.Millisecond
			bo.MaxInterval = 5 * time.Second
			bo.MaxElapsedTime = 30 * time.Second
			return bo
		},
	}
}

// Track starts reconciling a post from an authoritative snapshot.
func (r *Reconciler) Track(postID uint, snap *Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[postID] = viewFromSnapshot(postID, snap)
}

// Forget stops tracking a post, e.g. when it scrolls off screen.
func (r *Reconciler) Forget(postID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, postID)
}

// View returns a copy of the current display state for a post.
func (r *Reconciler) View(postID uint) (PostView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.posts[postID]
	if !ok {
		return PostView{}, false
	}
	out := *v
	out.Comments = append([]*models.Comment(nil), v.Comments...)
	out.pending = nil
	out.seenComments = nil
	return out, true
}

func viewFromSnapshot(postID uint, snap *Snapshot) *PostView {
	v := &PostView{
		PostID:       postID,
		Counter:      snap.Counter,
		LastSeq:      snap.Counter.Version,
		MyReaction:   snap.MyReaction,
		Comments:     append([]*models.Comment(nil), snap.Comments...),
		pending:      make(map[string]*PendingWrite),
		seenComments: make(map[uint]struct{}),
	}
	for _, c := range v.Comments {
		v.seenComments[c.ID] = struct{}{}
	}
	return v
}

// ApplyLocalReaction applies a reaction gesture optimistically and
// registers a pending write under clientKey. The displayed counter
// moves immediately; the authoritative value arrives with confirmation.
func (r *Reconciler) ApplyLocalReaction(postID uint, reactionType, clientKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.posts[postID]
	if !ok {
		return fmt.Errorf("post %d is not tracked", postID)
	}

	pw := &PendingWrite{
		ClientKey:     clientKey,
		State:         StatePending,
		priorReaction: v.MyReaction,
		SentAt:        time.Now(),
	}

	switch {
	case v.MyReaction == nil:
		v.MyReaction = &models.Reaction{PostID: postID, UserID: r.selfID, Type: reactionType}
		v.Counter.TotalReactions++
		pw.reactionDelta = 1
	case v.MyReaction.Type == reactionType:
		v.MyReaction = nil
		if v.Counter.TotalReactions > 0 {
			v.Counter.TotalReactions--
			pw.reactionDelta = -1
		}
	default:
		v.MyReaction = &models.Reaction{PostID: postID, UserID: r.selfID, Type: reactionType}
	}

	v.pending[clientKey] = pw
	return nil
}

// ApplyLocalComment prepends an optimistic comment. The server-assigned
// id is unknown, so the placeholder carries id 0 until confirmation or
// the matching event replaces it.
func (r *Reconciler) ApplyLocalComment(postID uint, content, clientKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.posts[postID]
	if !ok {
		return fmt.Errorf("post %d is not tracked", postID)
	}

	v.Comments = append([]*models.Comment{{
		Content: content,
		UserID:  r.selfID,
		PostID:  postID,
	}}, v.Comments...)
	v.Counter.TotalComments++
	v.pending[clientKey] = &PendingWrite{
		ClientKey: clientKey,
		State:     StatePending,
		SentAt:    time.Now(),
	}
	return nil
}

// ConfirmWrite marks a pending write confirmed from its HTTP response
// and applies the authoritative counter that came back with it. For
// comment writes the response's comment row must be passed along (nil
// for reactions): confirming advances LastSeq to the counter's version,
// which drops the echoed event, so this is the placeholder's only
// chance to learn its server id before a resync.
func (r *Reconciler) ConfirmWrite(postID uint, clientKey string, counter *models.PostCounter, comment *models.Comment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.posts[postID]
	if !ok {
		return
	}
	if pw, ok := v.pending[clientKey]; ok {
		pw.State = StateConfirmed
	}
	if comment != nil {
		r.insertCommentLocked(v, comment, true)
	}
	r.applyCounterLocked(v, counter)
}

// insertCommentLocked registers a server comment row exactly once. An
// own write swallows the viewer's id-0 placeholder in place; anything
// else prepends.
func (r *Reconciler) insertCommentLocked(v *PostView, comment *models.Comment, own bool) {
	if comment.ID == 0 {
		return
	}
	if _, seen := v.seenComments[comment.ID]; seen {
		return
	}
	v.seenComments[comment.ID] = struct{}{}
	if own {
		for i, c := range v.Comments {
			if c.ID == 0 && c.UserID == r.selfID {
				v.Comments[i] = comment
				return
			}
		}
	}
	v.Comments = append([]*models.Comment{comment}, v.Comments...)
}

// RevertWrite rolls back a rejected optimistic write.
func (r *Reconciler) RevertWrite(postID uint, clientKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.posts[postID]
	if !ok {
		return
	}
	pw, ok := v.pending[clientKey]
	if !ok || pw.State != StatePending {
		return
	}
	pw.State = StateReverted

	// Restore the displaced reaction and walk the optimistic counter
	// delta back. Comment placeholders are dropped wholesale.
	v.MyReaction = pw.priorReaction
	if pw.reactionDelta != 0 && v.Counter.TotalReactions-pw.reactionDelta >= 0 {
		v.Counter.TotalReactions -= pw.reactionDelta
	}
	filtered := v.Comments[:0]
	for _, c := range v.Comments {
		if c.ID == 0 {
			if v.Counter.TotalComments > 0 {
				v.Counter.TotalComments--
			}
			continue
		}
		filtered = append(filtered, c)
	}
	v.Comments = filtered
}

// ApplyEvent folds one realtime event into the view.
//
// Ordering: an event whose Seq is at or below LastSeq is a duplicate or
// arrived late; it is dropped entirely. Counters from applied events
// replace the local value wholesale — the reconciler never adds event
// deltas to local counts, which is what makes duplicate delivery and
// the two-tab case safe.
func (r *Reconciler) ApplyEvent(event *models.EngagementEvent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.posts[event.PostID]
	if !ok {
		return false
	}
	if event.Seq <= v.LastSeq {
		return false
	}

	own := false
	if event.ClientKey != "" {
		if pw, ok := v.pending[event.ClientKey]; ok {
			pw.State = StateConfirmed
			own = true
		}
	}

	switch event.Type {
	case models.EventReactionAdded, models.EventReactionReplaced:
		if event.ActorID == r.selfID && event.Reaction != nil {
			v.MyReaction = event.Reaction
		}
	case models.EventReactionRemoved:
		if event.ActorID == r.selfID {
			v.MyReaction = nil
		}
	case models.EventCommentCreated:
		if event.Comment != nil {
			r.insertCommentLocked(v, event.Comment, own)
		}
	case models.EventCommentDeleted:
		if event.CommentID != 0 {
			filtered := v.Comments[:0]
			for _, c := range v.Comments {
				if c.ID == event.CommentID {
					continue
				}
				filtered = append(filtered, c)
			}
			v.Comments = filtered
		}
	case models.EventPostDeleted:
		delete(r.posts, event.PostID)
		return true
	}

	r.applyCounterLocked(v, event.Counter)
	if event.Seq > v.LastSeq {
		v.LastSeq = event.Seq
	}
	return true
}

// applyCounterLocked replaces the counter wholesale when the snapshot
// is at least as new as what is displayed.
func (r *Reconciler) applyCounterLocked(v *PostView, counter *models.PostCounter) {
	if counter == nil {
		return
	}
	if counter.Version >= v.LastSeq {
		v.Counter = *counter
		v.LastSeq = counter.Version
	}
}

// Resync fetches authoritative state and replaces the view wholesale.
// Used after a detected gap (dropped events, reconnect). The fetch is a
// read, so it retries with exponential backoff until the context or the
// policy gives up.
func (r *Reconciler) Resync(ctx context.Context, postID uint) error {
	var snap *Snapshot
	operation := func() error {
		var err error
		snap, err = r.fetcher.FetchPost(ctx, postID)
		return err
	}
	if err := backoff.Retry(operation, backoff.WithContext(r.newBackOff(), ctx)); err != nil {
		return fmt.Errorf("resync post %d: %w", postID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[postID] = viewFromSnapshot(postID, snap)
	return nil
}

// ResyncAll resyncs every tracked post, stopping at the first failure.
func (r *Reconciler) ResyncAll(ctx context.Context) error {
	r.mu.Lock()
	ids := make([]uint, 0, len(r.posts))
	for id := range r.posts {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		if err := r.Resync(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// PendingCount reports in-flight optimistic writes for a post.
func (r *Reconciler) PendingCount(postID uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.posts[postID]
	if !ok {
		return 0
	}
	n := 0
	for _, pw := range v.pending {
		if pw.State == StatePending {
			n++
		}
	}
	return n
}
