package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathima-sithara/social-service/internal/media"
	"github.com/fathima-sithara/social-service/internal/models"
	"github.com/fathima-sithara/social-service/internal/utils"
)

func TestMemoryPostRepoCopiesDocuments(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryPostRepo()
	p := &models.Post{ID: "p1", UserID: "u1", Media: &media.Reference{URL: "https://x/a.png"}}
	require.NoError(t, r.Insert(ctx, p))
	assert.False(t, p.CreatedAt.IsZero())

	p.Media.URL = "mutated"
	got, err := r.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "https://x/a.png", got.Media.URL)
}

func TestMemoryPostRepoListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryPostRepo()
	now := time.Now()
	require.NoError(t, r.Insert(ctx, &models.Post{ID: "old", UserID: "u1", CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, r.Insert(ctx, &models.Post{ID: "new", UserID: "u2", CreatedAt: now}))

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "new", all[0].ID)

	mine, err := r.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "old", mine[0].ID)

	none, err := r.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryReposReportNotFound(t *testing.T) {
	ctx := context.Background()

	_, err := NewMemoryPostRepo().GetByID(ctx, "missing")
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.ErrorIs(t, NewMemoryStoryRepo().Delete(ctx, "missing"), utils.ErrNotFound)
	assert.ErrorIs(t, NewMemoryUserRepo().Update(ctx, &models.User{ID: "missing"}), utils.ErrNotFound)
}

func TestMemoryStoryRepoFindOlderThan(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryStoryRepo()
	now := time.Now()
	require.NoError(t, r.Insert(ctx, &models.Story{ID: "a", CreatedAt: now.Add(-50 * time.Hour)}))
	require.NoError(t, r.Insert(ctx, &models.Story{ID: "b", CreatedAt: now.Add(-49 * time.Hour)}))
	require.NoError(t, r.Insert(ctx, &models.Story{ID: "c", CreatedAt: now.Add(-time.Hour)}))

	old, err := r.FindOlderThan(ctx, now.Add(-48*time.Hour))
	require.NoError(t, err)
	require.Len(t, old, 2)
	assert.Equal(t, "a", old[0].ID)
	assert.Equal(t, "b", old[1].ID)
}

func TestMemoryUserRepoRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo()
	require.NoError(t, r.Insert(ctx, &models.User{ID: "u1", Username: "ann"}))
	assert.ErrorIs(t, r.Insert(ctx, &models.User{ID: "u1", Username: "bob"}), utils.ErrConflict)

	got, err := r.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ann", got.Username)
}
