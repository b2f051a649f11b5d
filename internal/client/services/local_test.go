package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskpulse/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) (*LocalStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "local.db")
	s, err := OpenLocalStore(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestLocalStore_SessionRoundTripAcrossReopen(t *testing.T) {
	ctx := context.Background()
	s, path := openStore(t)

	email, session, err := s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Empty(t, email)
	assert.Nil(t, session)

	require.NoError(t, s.SaveSession(ctx, "a@x.io", &models.Session{AccessToken: "at", RefreshToken: "rt"}))
	require.NoError(t, s.Close())

	reopened, err := OpenLocalStore(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	email, session, err = reopened.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", email)
	assert.Equal(t, &models.Session{AccessToken: "at", RefreshToken: "rt"}, session)
}

func TestLocalStore_TasksCache(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t)

	items, at, err := s.CachedTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.True(t, at.IsZero())

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveTasks(ctx, []models.Task{
		{ID: "t1", Title: "one", Priority: "low", CreatedAt: now, UpdatedAt: now},
	}, now))

	items, at, err = s.CachedTasks(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "one", items[0].Title)
	assert.True(t, at.Equal(now))
}

func TestLocalStore_ClearDropsEverything(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t)

	now := time.Now()
	require.NoError(t, s.SaveSession(ctx, "a@x.io", &models.Session{AccessToken: "at"}))
	require.NoError(t, s.SaveTasks(ctx, []models.Task{{ID: "t1", Title: "x", CreatedAt: now, UpdatedAt: now}}, now))

	require.NoError(t, s.Clear(ctx))

	_, session, err := s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)

	items, at, err := s.CachedTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.True(t, at.IsZero())
}

func TestInitDatabase_MigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "twice.db")

	db, err := InitDatabase(ctx, path)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(ctx, db))

	var n int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('metadata', 'tasks')`).Scan(&n))
	assert.Equal(t, 2, n)
	require.NoError(t, db.Close())
}

func TestOpenLocalStore_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "local.db")
	s, err := OpenLocalStore(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.FileExists(t, path)
}

func TestOpenLocalStore_PathBlocked(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := OpenLocalStore(context.Background(), filepath.Join(blocker, "local.db"))
	assert.Error(t, err)
}
