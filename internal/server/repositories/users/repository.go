// Package users declares the server-side contract for persisting accounts
// and its PostgreSQL implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/taskpulse/internal/server/models"
)

// Repository stores and looks up users.
type Repository interface {
	// Create inserts user and fills in its ID and CreatedAt. A taken email
	// yields common.ErrDuplicateUser.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns common.ErrorNotFound when no user has this email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	GetByID(ctx context.Context, id string) (*models.User, error)
}
