package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/programme-match-api/internal/models"
	"github.com/noah-isme/programme-match-api/internal/repository"
)

type failingCacheRepo struct{}

func (failingCacheRepo) Get(context.Context, string, interface{}) error { return errors.New("down") }
func (failingCacheRepo) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("down")
}
func (failingCacheRepo) DeleteByPattern(context.Context, string) error { return errors.New("down") }

func newMemoryCache() *CacheService {
	return NewCacheService(repository.NewMemoryRepository(), NewMetricsService(), 0, nil)
}

func TestCacheServiceHitAndMiss(t *testing.T) {
	metrics := NewMetricsService()
	cache := NewCacheService(repository.NewMemoryRepository(), metrics, 0, nil)
	ctx := context.Background()

	var dest string
	hit, err := cache.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, "k", "v"))
	hit, err = cache.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "v", dest)
	assert.Equal(t, uint64(1), metrics.Snapshot().CacheHits)
	assert.Equal(t, uint64(1), metrics.Snapshot().CacheMisses)
}

func TestCacheServiceSurfacesBackendErrors(t *testing.T) {
	cache := NewCacheService(failingCacheRepo{}, nil, time.Minute, nil)
	ctx := context.Background()

	var dest string
	_, err := cache.Get(ctx, "k", &dest)
	assert.Error(t, err)
	assert.Error(t, cache.Set(ctx, "k", "v"))
	assert.Error(t, cache.Invalidate(ctx, "*"))
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	cache := NewCacheService(nil, nil, 0, nil)
	assert.False(t, cache.Enabled())
	hit, err := cache.Get(context.Background(), "k", new(string))
	assert.False(t, hit)
	assert.NoError(t, err)
	assert.NoError(t, cache.Set(context.Background(), "k", "v"))
}

func TestSessionStoreScopesKeys(t *testing.T) {
	cache := newMemoryCache()
	ctx := context.Background()
	a := NewSessionStore(cache, "1")
	b := NewSessionStore(cache, "2")

	require.NoError(t, a.Set(ctx, KeySubjects, []models.StudentSubject{{Subject: "Math", Grade: "A"}}))

	got, err := loadSubjects(ctx, a)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = loadSubjects(ctx, b)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, a.Clear(ctx))
	got, err = loadSubjects(ctx, a)
	require.NoError(t, err)
	assert.Nil(t, got)
}
