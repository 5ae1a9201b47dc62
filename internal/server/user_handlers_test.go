package server

import (
	"net/http"
	"testing"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileReadAndUpdate(t *testing.T) {
	srv, app := newTestServer(t)
	user := seedTestUser(t, srv, "fatima")
	auth := bearerToken(t, srv, user)

	var me models.User
	resp := doJSON(t, app, http.MethodGet, "/api/users/me", auth, nil, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, user.Username, me.Username)

	var updated models.User
	resp = doJSON(t, app, http.MethodPut, "/api/users/me", auth,
		map[string]string{"full_name": "Fatima Z", "bio": "bismillah"}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Fatima Z", updated.FullName)
	assert.Equal(t, "bismillah", updated.Bio)
	// Gender stays as set at signup whatever the body says.
	assert.Equal(t, user.Gender, updated.Gender)

	// The password hash never leaves the server.
	var raw map[string]interface{}
	resp = doJSON(t, app, http.MethodGet, "/api/users/1", "", nil, &raw)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, hasPassword := raw["password"]
	assert.False(t, hasPassword)
}

func TestUpdatePassword(t *testing.T) {
	srv, app := newTestServer(t)
	user := seedTestUser(t, srv, "khalid")
	auth := bearerToken(t, srv, user)

	// Wrong current password is rejected.
	resp := doJSON(t, app, http.MethodPut, "/api/users/me/password", auth,
		map[string]string{"current_password": "wrong", "new_password": "N3w!Secret123"}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Weak replacement is rejected even with the right current password.
	resp = doJSON(t, app, http.MethodPut, "/api/users/me/password", auth,
		map[string]string{"current_password": testUserPassword, "new_password": "short"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/api/users/me/password", auth,
		map[string]string{"current_password": testUserPassword, "new_password": "N3w!Secret123"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Old password no longer authenticates; the new one does.
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "",
		map[string]string{"identifier": user.Username, "password": testUserPassword}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "",
		map[string]string{"identifier": user.Username, "password": "N3w!Secret123"}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSearchUsers(t *testing.T) {
	srv, app := newTestServer(t)
	seedTestUser(t, srv, "maryam")
	seedTestUser(t, srv, "marwan")
	viewer := seedTestUser(t, srv, "viewer")
	auth := bearerToken(t, srv, viewer)

	var results []*models.User
	resp := doJSON(t, app, http.MethodGet, "/api/users/search?q=mar", auth, nil, &results)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, results, 2)

	resp = doJSON(t, app, http.MethodGet, "/api/users/search", auth, nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
