package service

import (
	"context"
	"testing"
	"time"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Username:    "amina_k",
		Email:       "amina@example.com",
		Password:    "StrongPass12!@",
		FullName:    "Amina Khan",
		Gender:      "female",
		DateOfBirth: time.Date(1995, 4, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestUserService_Register(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	t.Run("success hashes the password", func(t *testing.T) {
		user, err := e.users.Register(ctx, validRegisterInput())
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.NotEqual(t, "StrongPass12!@", user.Password)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		in := validRegisterInput()
		in.Email = "other@example.com"
		_, err := e.users.Register(ctx, in)
		assertAppErrorCode(t, err, models.CodeConflict)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		in := validRegisterInput()
		in.Username = "different_name"
		_, err := e.users.Register(ctx, in)
		assertAppErrorCode(t, err, models.CodeConflict)
	})

	t.Run("weak password rejected", func(t *testing.T) {
		in := validRegisterInput()
		in.Username = "weak_pass"
		in.Email = "weak@example.com"
		in.Password = "short"
		_, err := e.users.Register(ctx, in)
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("underage rejected", func(t *testing.T) {
		in := validRegisterInput()
		in.Username = "too_young"
		in.Email = "young@example.com"
		in.DateOfBirth = time.Now().AddDate(-10, 0, 0)
		_, err := e.users.Register(ctx, in)
		assertAppErrorCode(t, err, models.CodeValidation)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	registered, err := e.users.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	t.Run("by username", func(t *testing.T) {
		user, err := e.users.Authenticate(ctx, "amina_k", "StrongPass12!@")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("by email", func(t *testing.T) {
		user, err := e.users.Authenticate(ctx, "amina@example.com", "StrongPass12!@")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := e.users.Authenticate(ctx, "amina_k", "WrongPass12!@")
		assertAppErrorCode(t, err, models.CodeUnauthorized)
	})

	t.Run("unknown user gets the same error", func(t *testing.T) {
		_, err := e.users.Authenticate(ctx, "nobody", "StrongPass12!@")
		assertAppErrorCode(t, err, models.CodeUnauthorized)
	})
}

func TestUserService_UpdateProfile_GenderStaysFixed(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	user, err := e.users.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	bio := "Seeking knowledge from the cradle to the grave."
	updated, err := e.users.UpdateProfile(ctx, UpdateProfileInput{UserID: user.ID, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)

	// The update surface has no gender field at all; verify the stored
	// value is untouched after a profile update.
	fresh, err := e.users.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "female", fresh.Gender)
}
