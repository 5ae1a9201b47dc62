package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	_, app := newTestServer(t)

	signup := map[string]string{
		"username":      "amina",
		"email":         "amina@example.com",
		"password":      "Str0ng!Pass12",
		"full_name":     "Amina Rahman",
		"gender":        "female",
		"date_of_birth": "1995-04-12",
	}

	var created struct {
		Token string `json:"token"`
		User  struct {
			ID       uint   `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", signup, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "amina", created.User.Username)

	// Duplicate username conflicts.
	dup := map[string]string{
		"username":      "amina",
		"email":         "other@example.com",
		"password":      "Str0ng!Pass12",
		"gender":        "female",
		"date_of_birth": "1995-04-12",
	}
	resp = doJSON(t, app, http.MethodPost, "/api/auth/signup", "", dup, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Login by username.
	var loggedIn struct {
		Token string `json:"token"`
	}
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "",
		map[string]string{"identifier": "amina", "password": "Str0ng!Pass12"}, &loggedIn)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, loggedIn.Token)

	// Login by email.
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "",
		map[string]string{"identifier": "amina@example.com", "password": "Str0ng!Pass12"}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Wrong password stays a uniform 401.
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "",
		map[string]string{"identifier": "amina", "password": "nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSignupValidation(t *testing.T) {
	_, app := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"weak password", map[string]string{
			"username": "userone", "email": "u1@example.com",
			"password": "short", "gender": "male", "date_of_birth": "1990-01-01",
		}},
		{"bad email", map[string]string{
			"username": "usertwo", "email": "not-an-email",
			"password": "Str0ng!Pass12", "gender": "male", "date_of_birth": "1990-01-01",
		}},
		{"underage", map[string]string{
			"username": "userthree", "email": "u3@example.com",
			"password": "Str0ng!Pass12", "gender": "male", "date_of_birth": "2020-01-01",
		}},
		{"bad date format", map[string]string{
			"username": "userfour", "email": "u4@example.com",
			"password": "Str0ng!Pass12", "gender": "male", "date_of_birth": "01/01/1990",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	_, app := newTestServer(t)

	resp := doJSON(t, app, http.MethodGet, "/api/feed", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/posts", "", map[string]string{"content": "x"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/feed", "Bearer garbage", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
