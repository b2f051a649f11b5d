package repomanager

import (
	"context"

	"github.com/dmitrijs2005/taskpulse/internal/dbx"
	"github.com/dmitrijs2005/taskpulse/internal/server/repositories/memory"
	"github.com/dmitrijs2005/taskpulse/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/taskpulse/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskpulse/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves every repository from one memory.Store.
// The DBTX arguments are ignored; WithTx gives no isolation beyond the
// per-call atomicity of the store.
type InMemoryRepositoryManager struct {
	store *memory.Store
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{store: memory.NewStore()}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Conn() dbx.DBTX {
	return nil
}

func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return fn(ctx, nil)
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.store.Users()
}

func (m *InMemoryRepositoryManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return m.store.RefreshTokens()
}

func (m *InMemoryRepositoryManager) Tasks(dbx.DBTX) tasks.Repository {
	return m.store.Tasks()
}
