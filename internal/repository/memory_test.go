package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"realestate/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFlags(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	got, err := repo.GetBool(ctx, "u1", "notifications_enabled", true)
	require.NoError(t, err)
	assert.True(t, got, "unset flag returns default")

	require.NoError(t, repo.SetBool(ctx, "u1", "notifications_enabled", false))
	got, err = repo.GetBool(ctx, "u1", "notifications_enabled", true)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = repo.GetBool(ctx, "u2", "notifications_enabled", true)
	require.NoError(t, err)
	assert.True(t, got, "flags are per user")
}

func TestMemoryIncrement(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	n, err := repo.GetInt(ctx, "u1", "documents_count", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = repo.Increment(ctx, "u1", "documents_count", 3)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = repo.Increment(ctx, "u1", "documents_count", 3)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestMemoryIncrementConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Increment(ctx, "u1", "views", 0)
		}()
	}
	wg.Wait()

	n, err := repo.GetInt(ctx, "u1", "views", 0)
	require.NoError(t, err)
	assert.Equal(t, 50, n)
}

func TestMemoryDocuments(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	docs, err := repo.ListDocuments(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, docs)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateDocument(ctx, &model.Document{
			ID:     fmt.Sprintf("d%d", i),
			UserID: "u1",
			Title:  fmt.Sprintf("Doc %d", i),
		}))
	}

	docs, err = repo.ListDocuments(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "d2", docs[0].ID, "newest first")
	assert.Equal(t, "d0", docs[2].ID)
	assert.False(t, docs[0].CreatedAt.IsZero())

	other, err := repo.ListDocuments(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryRecentSearches(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for _, q := range []string{"villa", "flat", "plaza"} {
		require.NoError(t, repo.LogSearch(ctx, "u1", q, 2))
	}

	items, err := repo.RecentSearches(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "plaza", items[0].Query)
	assert.Equal(t, "flat", items[1].Query)
}

func TestMemoryStrings(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	require.NoError(t, repo.SetStrings(ctx, "u1", map[string]string{
		"profile_name":  "Ayesha",
		"profile_phone": "03001234567",
	}))

	got, err := repo.GetStrings(ctx, "u1", []string{"profile_name", "profile_bio"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"profile_name": "Ayesha"}, got)

	got, err = repo.GetStrings(ctx, "u2", []string{"profile_name"})
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, repo.Ping(ctx))
}
