package database

import (
	"testing"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestPersistentModelsMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(PersistentModels()...))

	for _, table := range []string{
		"users", "posts", "comments", "replies", "reactions",
		"shares", "media", "photos", "friend_requests", "post_counters",
	} {
		assert.True(t, db.Migrator().HasTable(table), "expected table %s", table)
	}
}

func TestReactionUniqueIndex(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(PersistentModels()...))

	require.NoError(t, db.Create(&models.Reaction{PostID: 1, UserID: 1, Type: models.ReactionLike}).Error)

	// Second reaction by the same user on the same post must violate the
	// unique (post_id, user_id) index.
	err = db.Create(&models.Reaction{PostID: 1, UserID: 1, Type: models.ReactionLove}).Error
	assert.Error(t, err)

	// A different user on the same post is fine.
	assert.NoError(t, db.Create(&models.Reaction{PostID: 1, UserID: 2, Type: models.ReactionLove}).Error)
}
