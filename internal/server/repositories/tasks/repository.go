// Package tasks declares the per-user task repository and its PostgreSQL
// implementation.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskpulse/internal/server/models"
)

// Repository persists tasks. Every method is scoped by the owning user;
// another user's task is reported as common.ErrorNotFound.
type Repository interface {
	List(ctx context.Context, userID string) ([]*models.Task, error)
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	Get(ctx context.Context, userID, id string) (*models.Task, error)
	// Update overwrites the mutable fields of an existing task.
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	// Delete is idempotent.
	Delete(ctx context.Context, userID, id string) error
}
