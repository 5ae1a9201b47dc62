package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedRepository_TopPostsByCreator(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFeedRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"post_id", "creator_id", "total_reactions", "total_comments"}).
		AddRow(9, 1, 12, 4).
		AddRow(3, 1, 12, 2).
		AddRow(7, 1, 5, 10)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT posts.id AS post_id, posts.user_id AS creator_id, post_counters.total_reactions, post_counters.total_comments FROM "posts" JOIN post_counters ON post_counters.post_id = posts.id`)).
		WithArgs(1, 10).
		WillReturnRows(rows)

	posts, err := repo.TopPostsByCreator(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, posts, 3)

	// Reaction count dominates; comments only break ties.
	assert.Equal(t, uint(9), posts[0].PostID)
	assert.Equal(t, uint(3), posts[1].PostID)
	assert.Equal(t, uint(7), posts[2].PostID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
