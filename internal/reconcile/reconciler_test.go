package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetcherStub struct {
	snapshots map[uint]*Snapshot
	failures  int
	calls     int
}

func (f *fetcherStub) FetchPost(_ context.Context, postID uint) (*Snapshot, error) {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("temporarily unavailable")
	}
	snap, ok := f.snapshots[postID]
	if !ok {
		return nil, errors.New("post not found")
	}
	return snap, nil
}

func fastBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Millisecond
	bo.MaxElapsedTime = 200 * time.Millisecond
	return bo
}

func trackedReconciler(selfID uint, version int64) (*Reconciler, *fetcherStub) {
	fetcher := &fetcherStub{snapshots: map[uint]*Snapshot{}}
	r := New(selfID, fetcher)
	r.newBackOff = fastBackOff
	r.Track(1, &Snapshot{Counter: models.PostCounter{PostID: 1, TotalReactions: 2, Version: version}})
	return r, fetcher
}

func TestReconciler_DropsStaleAndDuplicateEvents(t *testing.T) {
	r, _ := trackedReconciler(10, 5)

	fresh := &models.EngagementEvent{
		Type:    models.EventReactionAdded,
		PostID:  1,
		Seq:     6,
		Counter: &models.PostCounter{PostID: 1, TotalReactions: 3, Version: 6},
	}
	assert.True(t, r.ApplyEvent(fresh))

	// Exact duplicate: dropped.
	assert.False(t, r.ApplyEvent(fresh))

	// Older than what we've applied: dropped, view untouched.
	stale := &models.EngagementEvent{
		Type:    models.EventReactionRemoved,
		PostID:  1,
		Seq:     4,
		Counter: &models.PostCounter{PostID: 1, TotalReactions: 1, Version: 4},
	}
	assert.False(t, r.ApplyEvent(stale))

	view, ok := r.View(1)
	require.True(t, ok)
	assert.Equal(t, int64(3), view.Counter.TotalReactions)
	assert.Equal(t, int64(6), view.LastSeq)
}

func TestReconciler_CountersReplaceWholesale(t *testing.T) {
	r, _ := trackedReconciler(10, 1)

	// Local optimistic bump puts the displayed value ahead.
	require.NoError(t, r.ApplyLocalReaction(1, models.ReactionLike, "key-1"))
	view, _ := r.View(1)
	assert.Equal(t, int64(3), view.Counter.TotalReactions)

	// The event snapshot wins outright; nothing is added on top of it.
	assert.True(t, r.ApplyEvent(&models.EngagementEvent{
		Type:      models.EventReactionAdded,
		PostID:    1,
		ActorID:   10,
		Seq:       2,
		ClientKey: "key-1",
		Counter:   &models.PostCounter{PostID: 1, TotalReactions: 3, Version: 2},
	}))
	view, _ = r.View(1)
	assert.Equal(t, int64(3), view.Counter.TotalReactions)
	assert.Equal(t, 0, r.PendingCount(1))
}

func TestReconciler_TwoTabsDoNotDoubleCount(t *testing.T) {
	// The same user watches the same post in two tabs; tab A reacts.
	tabA, _ := trackedReconciler(10, 1)
	tabB, _ := trackedReconciler(10, 1)

	require.NoError(t, tabA.ApplyLocalReaction(1, models.ReactionLike, "tab-a-key"))

	event := &models.EngagementEvent{
		Type:      models.EventReactionAdded,
		PostID:    1,
		ActorID:   10,
		Seq:       2,
		ClientKey: "tab-a-key",
		Reaction:  &models.Reaction{ID: 7, PostID: 1, UserID: 10, Type: models.ReactionLike},
		Counter:   &models.PostCounter{PostID: 1, TotalReactions: 3, Version: 2},
	}
	assert.True(t, tabA.ApplyEvent(event))
	assert.True(t, tabB.ApplyEvent(event))

	viewA, _ := tabA.View(1)
	viewB, _ := tabB.View(1)
	assert.Equal(t, int64(3), viewA.Counter.TotalReactions)
	assert.Equal(t, int64(3), viewB.Counter.TotalReactions)

	// Tab B learns its user reacted even though the gesture happened
	// elsewhere.
	require.NotNil(t, viewB.MyReaction)
	assert.Equal(t, models.ReactionLike, viewB.MyReaction.Type)
}

func TestReconciler_ToggleOffLocally(t *testing.T) {
	fetcher := &fetcherStub{snapshots: map[uint]*Snapshot{}}
	r := New(10, fetcher)
	r.Track(1, &Snapshot{
		Counter:    models.PostCounter{PostID: 1, TotalReactions: 1, Version: 3},
		MyReaction: &models.Reaction{ID: 4, PostID: 1, UserID: 10, Type: models.ReactionLike},
	})

	// Same type toggles off optimistically.
	require.NoError(t, r.ApplyLocalReaction(1, models.ReactionLike, "k"))
	view, _ := r.View(1)
	assert.Nil(t, view.MyReaction)
	assert.Equal(t, int64(0), view.Counter.TotalReactions)

	// Different type replaces without moving the count.
	r.Track(1, &Snapshot{
		Counter:    models.PostCounter{PostID: 1, TotalReactions: 1, Version: 3},
		MyReaction: &models.Reaction{ID: 4, PostID: 1, UserID: 10, Type: models.ReactionLike},
	})
	require.NoError(t, r.ApplyLocalReaction(1, models.ReactionDua, "k2"))
	view, _ = r.View(1)
	require.NotNil(t, view.MyReaction)
	assert.Equal(t, models.ReactionDua, view.MyReaction.Type)
	assert.Equal(t, int64(1), view.Counter.TotalReactions)
}

func TestReconciler_RevertRollsBackOptimism(t *testing.T) {
	r, _ := trackedReconciler(10, 1)

	require.NoError(t, r.ApplyLocalReaction(1, models.ReactionLike, "rejected-key"))
	view, _ := r.View(1)
	require.NotNil(t, view.MyReaction)

	r.RevertWrite(1, "rejected-key")
	view, _ = r.View(1)
	assert.Nil(t, view.MyReaction)
	assert.Equal(t, int64(2), view.Counter.TotalReactions)
	assert.Equal(t, 0, r.PendingCount(1))
}

func TestReconciler_CommentFlow(t *testing.T) {
	r, _ := trackedReconciler(10, 1)

	require.NoError(t, r.ApplyLocalComment(1, "bismillah", "c-key"))
	view, _ := r.View(1)
	require.Len(t, view.Comments, 1)
	assert.Zero(t, view.Comments[0].ID)

	// The event replaces the placeholder with the server row.
	assert.True(t, r.ApplyEvent(&models.EngagementEvent{
		Type:      models.EventCommentCreated,
		PostID:    1,
		ActorID:   10,
		Seq:       2,
		ClientKey: "c-key",
		Comment:   &models.Comment{ID: 31, PostID: 1, UserID: 10, Content: "bismillah"},
		Counter:   &models.PostCounter{PostID: 1, TotalReactions: 2, TotalComments: 1, Version: 2},
	}))
	view, _ = r.View(1)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, uint(31), view.Comments[0].ID)
	assert.Equal(t, int64(1), view.Counter.TotalComments)

	// Someone else's comment prepends.
	assert.True(t, r.ApplyEvent(&models.EngagementEvent{
		Type:    models.EventCommentCreated,
		PostID:  1,
		ActorID: 11,
		Seq:     3,
		Comment: &models.Comment{ID: 32, PostID: 1, UserID: 11, Content: "wa alaikum"},
		Counter: &models.PostCounter{PostID: 1, TotalReactions: 2, TotalComments: 2, Version: 3},
	}))
	view, _ = r.View(1)
	require.Len(t, view.Comments, 2)
	assert.Equal(t, uint(32), view.Comments[0].ID)

	// A duplicate delivery of the same comment does not re-prepend even
	// with a newer sequence.
	assert.True(t, r.ApplyEvent(&models.EngagementEvent{
		Type:    models.EventCommentCreated,
		PostID:  1,
		ActorID: 11,
		Seq:     4,
		Comment: &models.Comment{ID: 32, PostID: 1, UserID: 11, Content: "wa alaikum"},
		Counter: &models.PostCounter{PostID: 1, TotalReactions: 2, TotalComments: 2, Version: 4},
	}))
	view, _ = r.View(1)
	assert.Len(t, view.Comments, 2)
}

func TestReconciler_CommentConfirmedBeforeEchoedEvent(t *testing.T) {
	r, _ := trackedReconciler(10, 1)

	require.NoError(t, r.ApplyLocalComment(1, "subhanallah", "c-key"))

	// The HTTP response lands before the echoed event and carries the
	// server row; the placeholder takes its id.
	r.ConfirmWrite(1, "c-key",
		&models.PostCounter{PostID: 1, TotalReactions: 2, TotalComments: 1, Version: 2},
		&models.Comment{ID: 44, PostID: 1, UserID: 10, Content: "subhanallah"})

	view, _ := r.View(1)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, uint(44), view.Comments[0].ID)
	assert.Equal(t, int64(1), view.Counter.TotalComments)
	assert.Equal(t, 0, r.PendingCount(1))

	// The echoed event is now stale and must not re-prepend the comment.
	assert.False(t, r.ApplyEvent(&models.EngagementEvent{
		Type:      models.EventCommentCreated,
		PostID:    1,
		ActorID:   10,
		Seq:       2,
		ClientKey: "c-key",
		Comment:   &models.Comment{ID: 44, PostID: 1, UserID: 10, Content: "subhanallah"},
		Counter:   &models.PostCounter{PostID: 1, TotalReactions: 2, TotalComments: 1, Version: 2},
	}))
	view, _ = r.View(1)
	assert.Len(t, view.Comments, 1)

	// The comment kept its server id, so a later delete finds it.
	assert.True(t, r.ApplyEvent(&models.EngagementEvent{
		Type:      models.EventCommentDeleted,
		PostID:    1,
		Seq:       3,
		CommentID: 44,
		Counter:   &models.PostCounter{PostID: 1, TotalReactions: 2, TotalComments: 0, Version: 3},
	}))
	view, _ = r.View(1)
	assert.Empty(t, view.Comments)
	assert.Equal(t, int64(0), view.Counter.TotalComments)
}

func TestReconciler_ReactionConfirmAppliesCounter(t *testing.T) {
	r, _ := trackedReconciler(10, 1)

	require.NoError(t, r.ApplyLocalReaction(1, models.ReactionLike, "r-key"))
	r.ConfirmWrite(1, "r-key", &models.PostCounter{PostID: 1, TotalReactions: 3, Version: 2}, nil)

	view, _ := r.View(1)
	assert.Equal(t, int64(3), view.Counter.TotalReactions)
	assert.Equal(t, int64(2), view.LastSeq)
	assert.Equal(t, 0, r.PendingCount(1))
}

func TestReconciler_PostDeletedDropsView(t *testing.T) {
	r, _ := trackedReconciler(10, 1)

	assert.True(t, r.ApplyEvent(&models.EngagementEvent{
		Type:   models.EventPostDeleted,
		PostID: 1,
		Seq:    2,
	}))
	_, ok := r.View(1)
	assert.False(t, ok)
}

func TestReconciler_ResyncRetriesThenReplacesView(t *testing.T) {
	r, fetcher := trackedReconciler(10, 1)
	fetcher.failures = 2
	fetcher.snapshots[1] = &Snapshot{
		Counter:  models.PostCounter{PostID: 1, TotalReactions: 9, TotalComments: 4, Version: 40},
		Comments: []*models.Comment{{ID: 90, PostID: 1, Content: "restored"}},
	}

	// Pile up local junk that the resync must wipe.
	require.NoError(t, r.ApplyLocalReaction(1, models.ReactionLike, "junk"))

	require.NoError(t, r.Resync(context.Background(), 1))
	assert.Equal(t, 3, fetcher.calls)

	view, ok := r.View(1)
	require.True(t, ok)
	assert.Equal(t, int64(9), view.Counter.TotalReactions)
	assert.Equal(t, int64(40), view.LastSeq)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, uint(90), view.Comments[0].ID)
	assert.Equal(t, 0, r.PendingCount(1))

	// Events older than the resynced state stay dropped.
	assert.False(t, r.ApplyEvent(&models.EngagementEvent{
		Type:    models.EventReactionAdded,
		PostID:  1,
		Seq:     12,
		Counter: &models.PostCounter{PostID: 1, TotalReactions: 5, Version: 12},
	}))
}

func TestReconciler_ResyncGivesUpEventually(t *testing.T) {
	fetcher := &fetcherStub{snapshots: map[uint]*Snapshot{}, failures: 1 << 30}
	r := New(10, fetcher)
	r.newBackOff = fastBackOff
	r.Track(1, &Snapshot{Counter: models.PostCounter{PostID: 1, Version: 1}})

	err := r.Resync(context.Background(), 1)
	assert.Error(t, err)
	assert.Greater(t, fetcher.calls, 1)
}

func TestReconciler_UntrackedPostIsIgnored(t *testing.T) {
	r, _ := trackedReconciler(10, 1)
	assert.False(t, r.ApplyEvent(&models.EngagementEvent{Type: models.EventReactionAdded, PostID: 99, Seq: 1}))
	assert.Error(t, r.ApplyLocalReaction(99, models.ReactionLike, "k"))
}
