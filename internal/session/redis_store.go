package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore keeps sessions as JSON values with a sliding TTL.
type RedisStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisStore connects and pings the server before returning.
func NewRedisStore(ctx context.Context, opts *goredis.Options, ttl time.Duration) (*RedisStore, error) {
	rdb := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

// Load reads the session and pushes its expiry out by the TTL, so an active
// visitor keeps the cart as long as the cookie lives.
func (s *RedisStore) Load(ctx context.Context, id string) (*Data, error) {
	raw, err := s.rdb.GetEx(ctx, redisKeyPrefix+id, s.ttl).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	d := newData()
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if d.Cart == nil {
		d.Cart = newData().Cart
	}
	return d, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, data *Data) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, redisKeyPrefix+id, raw, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, redisKeyPrefix+id).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
