package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/blogx-api/internal/domain/entity"
	"github.com/oksasatya/blogx-api/pkg/helpers"
)

// RedisStore keeps one session hash per account. Issuing a new session
// replaces the previous one, so older tokens stop validating.
type RedisStore struct {
	Redis *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{Redis: rdb}
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func (s *RedisStore) Save(ctx context.Context, accountID, sessionID string, role entity.Role, ttl time.Duration) error {
	key := helpers.SessionKey(accountID)
	pipe := s.Redis.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, map[string]any{
		"account_id": accountID,
		"sid":        sessionID,
		"role":       string(role),
		"created_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Valid(ctx context.Context, accountID, sessionID string) (bool, error) {
	sid, err := s.Redis.HGet(ctx, helpers.SessionKey(accountID), "sid").Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return sid != "" && sid == sessionID, nil
}

func (s *RedisStore) Delete(ctx context.Context, accountID string) error {
	return helpers.RedisDel(ctx, s.Redis, helpers.SessionKey(accountID))
}
