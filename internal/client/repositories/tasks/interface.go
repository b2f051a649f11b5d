package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskpulse/internal/client/models"
)

// Repository is the local copy of the user's task list, as last seen on
// the server.
type Repository interface {
	// ReplaceAll drops every cached task and stores items instead.
	ReplaceAll(ctx context.Context, items []models.Task) error

	// GetAll returns the cached tasks, newest first.
	GetAll(ctx context.Context) ([]models.Task, error)

	// DeleteAll empties the cache.
	DeleteAll(ctx context.Context) error
}
