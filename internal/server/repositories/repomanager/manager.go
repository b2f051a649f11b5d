// Package repomanager composes the repositories of one store backend and
// exposes its transaction boundary.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/taskpulse/internal/dbx"
	"github.com/dmitrijs2005/taskpulse/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/taskpulse/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskpulse/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error

	// Conn is the non-transactional handle passed to the factories.
	Conn() dbx.DBTX
	// WithTx runs fn atomically where the backend supports it.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error

	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Tasks(db dbx.DBTX) tasks.Repository
}
