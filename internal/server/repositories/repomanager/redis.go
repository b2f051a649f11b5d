package repomanager

import (
	"github.com/dmitrijs2005/taskpulse/internal/dbx"
	"github.com/dmitrijs2005/taskpulse/internal/server/repositories/redisstore"
	"github.com/dmitrijs2005/taskpulse/internal/server/repositories/refreshtokens"
	"github.com/redis/go-redis/v9"
)

// RedisRefreshManager keeps refresh records in Redis and delegates every
// other repository to the wrapped manager.
type RedisRefreshManager struct {
	RepositoryManager
	refresh *redisstore.RefreshTokensRepository
}

func NewRedisRefreshManager(base RepositoryManager, client redis.UniversalClient) *RedisRefreshManager {
	return &RedisRefreshManager{
		RepositoryManager: base,
		refresh:           redisstore.NewRefreshTokensRepository(client),
	}
}

// RefreshTokens ignores db: Redis writes are never part of a SQL transaction.
func (m *RedisRefreshManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return m.refresh
}
