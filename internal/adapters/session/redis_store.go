package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/config"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
)

const keyPrefix = "session:"

// RedisClient is the subset of go-redis the store needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisStore keeps each user's selected society in Redis.
type RedisStore struct {
	client RedisClient
	ttl    time.Duration
	cb     *gobreaker.CircuitBreaker
}

var _ ports.SessionStore = (*RedisStore)(nil)

func NewRedisStore(client RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		cb:     config.NewCircuitBreaker("Redis-Session"),
	}
}

func societyKey(userID string) string {
	return keyPrefix + userID + ":society"
}

// SelectedSociety returns "" when the user has not selected a society.
func (s *RedisStore) SelectedSociety(ctx context.Context, userID string) (string, error) {
	result, err := s.cb.Execute(func() (interface{}, error) {
		val, err := s.client.Get(ctx, societyKey(userID)).Result()
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return val, err
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (s *RedisStore) SelectSociety(ctx context.Context, userID, societyID string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, societyKey(userID), societyID, s.ttl).Err()
	})
	return err
}

func (s *RedisStore) ClearSociety(ctx context.Context, userID string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Del(ctx, societyKey(userID)).Err()
	})
	return err
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
