package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopPostsRankingAndBadges(t *testing.T) {
	srv, app := newTestServer(t)
	creator := seedTestUser(t, srv, "creator")
	fans := make([]*models.User, 5)
	for i := range fans {
		fans[i] = seedTestUser(t, srv, fmt.Sprintf("fan%d", i))
	}
	creatorAuth := bearerToken(t, srv, creator)

	// Five posts with descending engagement.
	for i := 0; i < 5; i++ {
		doJSON(t, app, http.MethodPost, "/api/posts", creatorAuth,
			map[string]string{"content": fmt.Sprintf("post %d", i+1)}, nil)
	}
	for i, fan := range fans {
		fanAuth := bearerToken(t, srv, fan)
		// fan i reacts to posts 1..(5-i), so post 1 collects the most.
		for postID := 1; postID <= 5-i; postID++ {
			doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/posts/%d/reaction", postID), fanAuth,
				map[string]string{"type": "like"}, nil)
		}
	}

	var ranked []*models.RankedPost
	resp := doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/users/%d/top-posts", creator.ID), "", nil, &ranked)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, ranked, 5)

	for i, rp := range ranked {
		assert.Equal(t, i+1, rp.Rank)
		assert.Equal(t, rp.Rank <= models.HighlightRankThreshold, rp.Highlighted)
	}
	assert.Equal(t, uint(1), ranked[0].PostID)
	assert.Equal(t, int64(5), ranked[0].TotalReactions)

	// Limit slices the ranked list without renumbering.
	var topTwo []*models.RankedPost
	resp = doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/users/%d/top-posts?limit=2", creator.ID), "", nil, &topTwo)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, topTwo, 2)
	assert.Equal(t, 1, topTwo[0].Rank)
	assert.Equal(t, 2, topTwo[1].Rank)
}

func TestFeedShowsOwnAndFriendsPosts(t *testing.T) {
	srv, app := newTestServer(t)
	alice := seedTestUser(t, srv, "alice")
	bob := seedTestUser(t, srv, "bob")
	carol := seedTestUser(t, srv, "carol")
	aliceAuth := bearerToken(t, srv, alice)
	bobAuth := bearerToken(t, srv, bob)
	carolAuth := bearerToken(t, srv, carol)

	doJSON(t, app, http.MethodPost, "/api/posts", aliceAuth, map[string]string{"content": "from alice"}, nil)
	doJSON(t, app, http.MethodPost, "/api/posts", bobAuth, map[string]string{"content": "from bob"}, nil)
	doJSON(t, app, http.MethodPost, "/api/posts", carolAuth, map[string]string{"content": "from carol"}, nil)

	// Alice and Bob become friends.
	resp := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/friends/requests/%d", bob.ID), aliceAuth, nil, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doJSON(t, app, http.MethodPost, "/api/friends/requests/1/accept", bobAuth, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var feed []*models.Post
	resp = doJSON(t, app, http.MethodGet, "/api/feed", aliceAuth, nil, &feed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, feed, 2)

	authors := map[uint]bool{}
	for _, p := range feed {
		authors[p.UserID] = true
	}
	assert.True(t, authors[alice.ID])
	assert.True(t, authors[bob.ID])
	assert.False(t, authors[carol.ID])
}

func TestFeatureFlagSnapshot(t *testing.T) {
	srv, app := newTestServer(t)
	srv.featureFlags = nil
	user := seedTestUser(t, srv, "flagged")
	auth := bearerToken(t, srv, user)

	// A nil manager still answers with an empty snapshot.
	var out struct {
		Flags map[string]bool `json:"flags"`
	}
	resp := doJSON(t, app, http.MethodGet, "/api/flags", auth, nil, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, out.Flags)
}
