// Package services contains application services for the TaskPulse client.
// This file defines LocalStore, which keeps the CLI session and the last
// fetched task list in a local SQLite database between runs.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskpulse/internal/client/models"
	"github.com/dmitrijs2005/taskpulse/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/taskpulse/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/taskpulse/internal/dbx"
	"github.com/dmitrijs2005/taskpulse/internal/filex"
)

const (
	keySession  = "session"
	keyEmail    = "email"
	keySyncedAt = "tasks_synced_at"
)

// LocalStore is the CLI's on-disk state.
type LocalStore struct {
	db *sql.DB
}

// NewLocalStore wraps an already migrated database, see InitDatabase.
func NewLocalStore(db *sql.DB) *LocalStore {
	return &LocalStore{db: db}
}

// OpenLocalStore opens the database at path, creating it and its directory
// if needed.
func OpenLocalStore(ctx context.Context, path string) (*LocalStore, error) {
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}
	db, err := InitDatabase(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewLocalStore(db), nil
}

func (s *LocalStore) Close() error {
	return s.db.Close()
}

func (s *LocalStore) getMetadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (s *LocalStore) getTasksRepo(db dbx.DBTX) tasks.Repository {
	return tasks.NewSQLiteRepository(db)
}

// SaveSession remembers the logged-in user and their tokens.
func (s *LocalStore) SaveSession(ctx context.Context, email string, session *models.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.getMetadataRepo(tx)
		if err := repo.Set(ctx, keyEmail, []byte(email)); err != nil {
			return err
		}
		return repo.Set(ctx, keySession, raw)
	})
}

// LoadSession returns the saved session, or a nil session if there is none.
func (s *LocalStore) LoadSession(ctx context.Context) (string, *models.Session, error) {
	repo := s.getMetadataRepo(s.db)

	raw, err := repo.Get(ctx, keySession)
	if err != nil || raw == nil {
		return "", nil, err
	}
	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return "", nil, fmt.Errorf("decode session: %w", err)
	}

	email, err := repo.Get(ctx, keyEmail)
	if err != nil {
		return "", nil, err
	}
	return string(email), &session, nil
}

// Clear forgets the session and the cached tasks, so nothing of the previous
// user survives a logout.
func (s *LocalStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.getMetadataRepo(tx).Clear(ctx); err != nil {
			return err
		}
		return s.getTasksRepo(tx).DeleteAll(ctx)
	})
}

// SaveTasks replaces the cached task list and records when it was fetched.
func (s *LocalStore) SaveTasks(ctx context.Context, items []models.Task, at time.Time) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.getTasksRepo(tx).ReplaceAll(ctx, items); err != nil {
			return err
		}
		return s.getMetadataRepo(tx).Set(ctx, keySyncedAt, []byte(at.UTC().Format(time.RFC3339)))
	})
}

// CachedTasks returns the cached task list and when it was fetched. The time
// is zero if nothing was ever cached.
func (s *LocalStore) CachedTasks(ctx context.Context) ([]models.Task, time.Time, error) {
	var syncedAt time.Time

	raw, err := s.getMetadataRepo(s.db).Get(ctx, keySyncedAt)
	if err != nil {
		return nil, syncedAt, err
	}
	if raw != nil {
		if syncedAt, err = time.Parse(time.RFC3339, string(raw)); err != nil {
			return nil, time.Time{}, fmt.Errorf("decode sync time: %w", err)
		}
	}

	items, err := s.getTasksRepo(s.db).GetAll(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	return items, syncedAt, nil
}
