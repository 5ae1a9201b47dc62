package server

import (
	"net/http"
	"testing"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndReadPost(t *testing.T) {
	srv, app := newTestServer(t)
	user := seedTestUser(t, srv, "yusuf")
	auth := bearerToken(t, srv, user)

	var created models.Post
	resp := doJSON(t, app, http.MethodPost, "/api/posts", auth,
		map[string]string{"content": "First post"}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, user.ID, created.UserID)

	// Anonymous read works and shows zero engagement.
	var fetched models.Post
	resp = doJSON(t, app, http.MethodGet, "/api/posts/1", "", nil, &fetched)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "First post", fetched.Content)
	assert.Equal(t, int64(0), fetched.TotalReactions)
	assert.False(t, fetched.Reacted)

	resp = doJSON(t, app, http.MethodGet, "/api/posts/999", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdatePostOwnershipAndVersion(t *testing.T) {
	srv, app := newTestServer(t)
	owner := seedTestUser(t, srv, "owner")
	other := seedTestUser(t, srv, "other")
	ownerAuth := bearerToken(t, srv, owner)
	otherAuth := bearerToken(t, srv, other)

	doJSON(t, app, http.MethodPost, "/api/posts", ownerAuth,
		map[string]string{"content": "original"}, nil)

	resp := doJSON(t, app, http.MethodPut, "/api/posts/1", otherAuth,
		map[string]string{"content": "hijacked"}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var before models.PostCounter
	doJSON(t, app, http.MethodGet, "/api/posts/1/counter", "", nil, &before)

	var updated models.Post
	resp = doJSON(t, app, http.MethodPut, "/api/posts/1", ownerAuth,
		map[string]string{"content": "edited"}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "edited", updated.Content)

	// An edit carries a fresh sequence even though no total changed.
	var after models.PostCounter
	doJSON(t, app, http.MethodGet, "/api/posts/1/counter", "", nil, &after)
	assert.Greater(t, after.Version, before.Version)
}

func TestDeletePost(t *testing.T) {
	srv, app := newTestServer(t)
	owner := seedTestUser(t, srv, "owner")
	auth := bearerToken(t, srv, owner)

	doJSON(t, app, http.MethodPost, "/api/posts", auth,
		map[string]string{"content": "to be removed"}, nil)

	resp := doJSON(t, app, http.MethodDelete, "/api/posts/1", auth, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/posts/1", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSharePostBumpsCounter(t *testing.T) {
	srv, app := newTestServer(t)
	user := seedTestUser(t, srv, "sharer")
	auth := bearerToken(t, srv, user)

	doJSON(t, app, http.MethodPost, "/api/posts", auth,
		map[string]string{"content": "share me"}, nil)

	var shared struct {
		Counter *models.PostCounter `json:"counter"`
	}
	resp := doJSON(t, app, http.MethodPost, "/api/posts/1/share", auth, nil, &shared)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, shared.Counter)
	assert.Equal(t, int64(1), shared.Counter.TotalShares)

	// Re-sharing is allowed; the count keeps climbing.
	resp = doJSON(t, app, http.MethodPost, "/api/posts/1/share", auth, nil, &shared)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, int64(2), shared.Counter.TotalShares)
}

func TestPostSnapshot(t *testing.T) {
	srv, app := newTestServer(t)
	user := seedTestUser(t, srv, "viewer")
	auth := bearerToken(t, srv, user)

	doJSON(t, app, http.MethodPost, "/api/posts", auth,
		map[string]string{"content": "snapshot target"}, nil)
	doJSON(t, app, http.MethodPut, "/api/posts/1/reaction", auth,
		map[string]string{"type": "love"}, nil)
	doJSON(t, app, http.MethodPost, "/api/posts/1/comments", auth,
		map[string]string{"content": "salaam"}, nil)

	var snap struct {
		Counter    *models.PostCounter `json:"counter"`
		MyReaction *models.Reaction    `json:"my_reaction"`
		Comments   []*models.Comment   `json:"comments"`
	}
	resp := doJSON(t, app, http.MethodGet, "/api/posts/1/snapshot", auth, nil, &snap)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, snap.Counter)
	assert.Equal(t, int64(1), snap.Counter.TotalReactions)
	assert.Equal(t, int64(1), snap.Counter.TotalComments)
	require.NotNil(t, snap.MyReaction)
	assert.Equal(t, "love", snap.MyReaction.Type)
	require.Len(t, snap.Comments, 1)

	// Anonymous snapshot has no viewer reaction.
	var anon struct {
		MyReaction *models.Reaction `json:"my_reaction"`
	}
	resp = doJSON(t, app, http.MethodGet, "/api/posts/1/snapshot", "", nil, &anon)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, anon.MyReaction)
}

func TestRecountRepairsDrift(t *testing.T) {
	srv, app := newTestServer(t)
	user := seedTestUser(t, srv, "repair")
	auth := bearerToken(t, srv, user)

	doJSON(t, app, http.MethodPost, "/api/posts", auth,
		map[string]string{"content": "drifted"}, nil)
	doJSON(t, app, http.MethodPut, "/api/posts/1/reaction", auth,
		map[string]string{"type": "like"}, nil)

	// Corrupt the cached totals behind the ledger's back.
	require.NoError(t, srv.db.Model(&models.PostCounter{}).
		Where("post_id = ?", 1).
		Update("total_reactions", 40).Error)

	var counter models.PostCounter
	resp := doJSON(t, app, http.MethodPost, "/api/posts/1/recount", auth, nil, &counter)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), counter.TotalReactions)
}
