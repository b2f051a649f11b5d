package tasks

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskpulse/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE tasks (
    id          TEXT PRIMARY KEY,
    title       TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    completed   INTEGER NOT NULL DEFAULT 0,
    priority    TEXT NOT NULL DEFAULT 'medium',
    created_at  TIMESTAMP NOT NULL,
    updated_at  TIMESTAMP NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestReplaceAllAndGetAll(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	items := []models.Task{
		{ID: "a", Title: "older", Priority: "low", CreatedAt: base, UpdatedAt: base},
		{ID: "b", Title: "newer", Description: "d", Completed: true, Priority: "high",
			CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(2 * time.Hour)},
	}
	require.NoError(t, r.ReplaceAll(ctx, items))

	got, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.True(t, got[0].Completed)
	assert.Equal(t, "d", got[0].Description)
	assert.True(t, got[0].UpdatedAt.Equal(base.Add(2*time.Hour)))
	assert.Equal(t, "a", got[1].ID)

	require.NoError(t, r.ReplaceAll(ctx, items[:1]))
	got, err = r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "older", got[0].Title)
}

func TestGetAll_EmptyIsNotNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	got, err := r.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReplaceAll_DuplicateIDFails(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	now := time.Now()

	err := r.ReplaceAll(context.Background(), []models.Task{
		{ID: "x", Title: "1", CreatedAt: now, UpdatedAt: now},
		{ID: "x", Title: "2", CreatedAt: now, UpdatedAt: now},
	})
	assert.ErrorContains(t, err, "failed to insert task x")
}

func TestDBErrorsWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	_, err := r.GetAll(context.Background())
	assert.ErrorContains(t, err, "failed to select tasks")
	assert.ErrorContains(t, r.DeleteAll(context.Background()), "failed to delete tasks")
}
