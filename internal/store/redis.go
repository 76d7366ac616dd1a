package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/robalobadob/binword/internal/game"
)

const (
	sessionKeyPrefix = "session:"

	// DefaultSessionTTL is how long an idle session survives.
	DefaultSessionTTL = 24 * time.Hour
)

// RedisStore keeps each session as a JSON value with a sliding expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps client. A non-positive ttl uses DefaultSessionTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (rs *RedisStore) Load(ctx context.Context, id string) (*game.State, error) {
	key := sessionKeyPrefix + id
	data, err := rs.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var st game.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	// Reading refreshes the expiry so active players are not evicted.
	if err := rs.client.Expire(ctx, key, rs.ttl).Err(); err != nil {
		return nil, fmt.Errorf("touch session %s: %w", id, err)
	}
	return &st, nil
}

func (rs *RedisStore) Save(ctx context.Context, id string, st *game.State) error {
	if st == nil {
		return rs.Clear(ctx, id)
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	return rs.client.Set(ctx, sessionKeyPrefix+id, data, rs.ttl).Err()
}

func (rs *RedisStore) Clear(ctx context.Context, id string) error {
	return rs.client.Del(ctx, sessionKeyPrefix+id).Err()
}
