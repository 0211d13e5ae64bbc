package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/programme-match-api/internal/models"
	appErrors "github.com/noah-isme/programme-match-api/pkg/errors"
)

func TestMemoryRepositoryRoundTrip(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	summary := models.Summary{Eligible: 3, AvailableUniversity: 2, AvailableCourses: 12}
	require.NoError(t, repo.Set(ctx, "session:7:summary", summary, 0))

	var got models.Summary
	require.NoError(t, repo.Get(ctx, "session:7:summary", &got))
	assert.Equal(t, summary, got)
}

func TestMemoryRepositoryMissAndExpiry(t *testing.T) {
	repo := NewMemoryRepository()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	var dest string
	assert.True(t, errors.Is(repo.Get(ctx, "missing", &dest), appErrors.ErrCacheMiss))

	require.NoError(t, repo.Set(ctx, "short", "value", time.Minute))
	require.NoError(t, repo.Get(ctx, "short", &dest))
	assert.Equal(t, "value", dest)

	now = now.Add(time.Minute)
	assert.True(t, errors.Is(repo.Get(ctx, "short", &dest), appErrors.ErrCacheMiss))
}

func TestMemoryRepositoryDeleteByPattern(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, "session:1:student", "a", 0))
	require.NoError(t, repo.Set(ctx, "session:1:subjects", "b", 0))
	require.NoError(t, repo.Set(ctx, "session:2:student", "c", 0))

	require.NoError(t, repo.DeleteByPattern(ctx, "session:1:*"))

	var dest string
	assert.Error(t, repo.Get(ctx, "session:1:student", &dest))
	assert.Error(t, repo.Get(ctx, "session:1:subjects", &dest))
	require.NoError(t, repo.Get(ctx, "session:2:student", &dest))
	assert.Equal(t, "c", dest)
}

func TestMemoryRepositoryPurgeExpired(t *testing.T) {
	repo := NewMemoryRepository()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "short", "a", time.Minute))
	require.NoError(t, repo.Set(ctx, "long", "b", time.Hour))
	require.NoError(t, repo.Set(ctx, "forever", "c", 0))

	removed, err := repo.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Equal(t, 3, repo.Len())

	now = now.Add(2 * time.Minute)
	removed, err = repo.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 2, repo.Len())

	var dest string
	require.NoError(t, repo.Get(ctx, "long", &dest))
	assert.Equal(t, "b", dest)
}
