// Package redisstore keeps refresh records in Redis. Each record lives
// under its own key with a TTL matching its expiry, and a per-user set
// indexes the user's record keys so logout and login can drop them.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskpulse/internal/common"
	"github.com/dmitrijs2005/taskpulse/internal/server/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	recordPrefix = "refresh:"
	userPrefix   = "refresh:user:"

	maxTxRetries = 100
)

type record struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// RefreshTokensRepository implements refreshtokens.Repository on Redis.
type RefreshTokensRepository struct {
	client redis.UniversalClient
}

func NewRefreshTokensRepository(client redis.UniversalClient) *RefreshTokensRepository {
	return &RefreshTokensRepository{client: client}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func recordKey(tokenHash string) string { return recordPrefix + tokenHash }
func userKey(userID string) string      { return userPrefix + userID }

// Replace drops the user's record keys and writes rec in one MULTI/EXEC
// guarded by WATCH on the user's index, retrying when another writer got
// there first.
func (r *RefreshTokensRepository) Replace(ctx context.Context, rec *models.RefreshToken) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(record{ID: rec.ID, UserID: rec.UserID, ExpiresAt: rec.ExpiresAt, CreatedAt: rec.CreatedAt})
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	// an already expired record would never be found, so only the delete runs
	ttl := rec.ExpiresAt.Sub(rec.CreatedAt)
	return r.updateUser(ctx, rec.UserID, func(p redis.Pipeliner) {
		if ttl <= 0 {
			return
		}
		p.Set(ctx, recordKey(rec.TokenHash), payload, ttl)
		p.SAdd(ctx, userKey(rec.UserID), rec.TokenHash)
		p.PExpire(ctx, userKey(rec.UserID), ttl)
	})
}

func (r *RefreshTokensRepository) FindByHash(ctx context.Context, tokenHash string, now time.Time) (*models.RefreshToken, error) {
	b, err := r.client.Get(ctx, recordKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	result := &models.RefreshToken{
		ID:        rec.ID,
		UserID:    rec.UserID,
		TokenHash: tokenHash,
		ExpiresAt: rec.ExpiresAt,
		CreatedAt: rec.CreatedAt,
	}
	// Redis TTLs are coarse; the stored expiry is authoritative.
	if !result.Active(now) {
		return nil, common.ErrorNotFound
	}
	return result, nil
}

func (r *RefreshTokensRepository) DeleteForUser(ctx context.Context, userID string) error {
	return r.updateUser(ctx, userID, func(redis.Pipeliner) {})
}

// updateUser deletes every record of userID and runs the writes queued by
// then in the same transaction.
func (r *RefreshTokensRepository) updateUser(ctx context.Context, userID string, then func(p redis.Pipeliner)) error {
	key := userKey(userID)
	txf := func(tx *redis.Tx) error {
		hashes, err := tx.SMembers(ctx, key).Result()
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			for _, h := range hashes {
				p.Del(ctx, recordKey(h))
			}
			p.Del(ctx, key)
			then(p)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("redis error: %w", err)
		}
		return nil
	}
	return fmt.Errorf("redis error: %w", redis.TxFailedErr)
}
