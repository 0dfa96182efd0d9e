package repository

import (
	"context"
	"testing"

	"quietspace/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	post := createTestPost(t, db, "u1")

	first := &models.Comment{
		PostID:   post.ID,
		UserID:   "u2",
		UserName: "alex",
		Comment:  "peaceful corner tables",
		Rating:   4.5,
	}
	second := &models.Comment{
		PostID:   post.ID,
		UserID:   "u3",
		UserName: "sam",
		Comment:  "gets busy at noon",
		Rating:   3,
	}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.NotEmpty(t, first.ID)

	// Deterministic ordering for the newest-first assertion.
	require.NoError(t, db.Model(first).Update("created_at", 1000).Error)
	require.NoError(t, db.Model(second).Update("created_at", 2000).Error)

	comments, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "gets busy at noon", comments[0].Comment)
	assert.Equal(t, "peaceful corner tables", comments[1].Comment)
}

func TestCommentRepository_CountByPost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	post := createTestPost(t, db, "u1")
	other := createTestPost(t, db, "u1")

	require.NoError(t, repo.Create(ctx, &models.Comment{PostID: post.ID, UserID: "u2", UserName: "a", Comment: "x"}))
	require.NoError(t, repo.Create(ctx, &models.Comment{PostID: post.ID, UserID: "u3", UserName: "b", Comment: "y"}))
	require.NoError(t, repo.Create(ctx, &models.Comment{PostID: other.ID, UserID: "u2", UserName: "a", Comment: "z"}))

	count, err := repo.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = repo.CountByPost(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCommentRepository_DeleteByPost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	post := createTestPost(t, db, "u1")
	keep := createTestPost(t, db, "u1")

	require.NoError(t, repo.Create(ctx, &models.Comment{PostID: post.ID, UserID: "u2", UserName: "a", Comment: "x"}))
	require.NoError(t, repo.Create(ctx, &models.Comment{PostID: keep.ID, UserID: "u2", UserName: "a", Comment: "y"}))

	require.NoError(t, repo.DeleteByPost(ctx, post.ID))

	count, err := repo.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = repo.CountByPost(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "other posts keep their comments")
}
