package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"taxrefund-workers/internal/common/config"
)

// RedisClient wraps the Redis client
type RedisClient struct {
	Client *redis.Client
}

// NewRedis creates a new Redis client
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address is required")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return &RedisClient{Client: rdb}, nil
}

// Ping tests the Redis connection
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

// GetClient returns the underlying *redis.Client
func (c *RedisClient) GetClient() *redis.Client {
	return c.Client
}

// releaseScript deletes the lock only if it still holds our token, so an
// expired lock re-acquired by another submission is never removed.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a held in-flight lock.
type Lock struct {
	Key   string
	Token string
}

// SubmissionLocker guards one submission per applicant at a time.
type SubmissionLocker struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewSubmissionLocker(client redis.UniversalClient, prefix string, ttl time.Duration) *SubmissionLocker {
	return &SubmissionLocker{client: client, prefix: prefix, ttl: ttl}
}

// Acquire takes the lock for id with SET NX. ok is false when another
// submission already holds it.
func (l *SubmissionLocker) Acquire(ctx context.Context, id string) (lock *Lock, ok bool, err error) {
	key := l.prefix + id
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !acquired {
		return nil, false, nil
	}
	return &Lock{Key: key, Token: token}, true, nil
}

// Release drops the lock if it is still ours. Releasing a nil lock is a no-op.
func (l *SubmissionLocker) Release(ctx context.Context, lock *Lock) error {
	if lock == nil {
		return nil
	}
	if err := releaseScript.Run(ctx, l.client, []string{lock.Key}, lock.Token).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", lock.Key, err)
	}
	return nil
}
