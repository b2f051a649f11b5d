// Package refreshtokens declares the server-side repository contract for
// the per-user refresh record.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taskpulse/internal/server/models"
)

// Repository stores hashed refresh records, at most one per user.
type Repository interface {
	// Replace atomically swaps whatever record rec.UserID holds for rec.
	// ID and CreatedAt are filled in when empty. Concurrent calls for the
	// same user leave exactly one of the records behind.
	Replace(ctx context.Context, rec *models.RefreshToken) error

	// FindByHash returns the record with tokenHash that is still active at
	// now. Expired records are reported as common.ErrorNotFound.
	FindByHash(ctx context.Context, tokenHash string, now time.Time) (*models.RefreshToken, error)

	// DeleteForUser removes every record of userID. Deleting nothing is not
	// an error.
	DeleteForUser(ctx context.Context, userID string) error
}
