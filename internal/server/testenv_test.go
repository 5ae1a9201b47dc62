package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/config"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/database"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer wires the full handler stack over an in-memory
// database. Redis and object storage stay nil; those paths degrade
// rather than fail.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	cfg := &config.Config{
		JWTSecret: "test-secret",
		Port:      "0",
		Env:       "test",
	}
	srv, err := NewServerWithDeps(cfg, db, nil, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)
	return srv, app
}

// testUserPassword is the plaintext behind every seeded user's hash.
const testUserPassword = "Str0ng!Pass12"

func seedTestUser(t *testing.T, srv *Server, username string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(testUserPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
		Gender:   "male",
	}
	require.NoError(t, srv.db.Create(user).Error)
	return user
}

func bearerToken(t *testing.T, srv *Server, user *models.User) string {
	t.Helper()
	token, err := srv.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return "Bearer " + token
}

// doJSON performs a request with an optional JSON body and auth header
// and decodes the JSON response into out (when out is non-nil).
func doJSON(t *testing.T, app *fiber.App, method, target, auth string, body, out interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	if out != nil {
		defer func() { _ = resp.Body.Close() }()
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}
