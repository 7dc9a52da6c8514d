package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultKeyPrefix namespaces checkpoint keys in a shared Redis.
const defaultKeyPrefix = "jobscraper:checkpoint:"

// RedisStore persists checkpoints to Redis, one key per execution.
// Suitable when multiple collector processes share a checkpoint store.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration

	mu     sync.RWMutex
	closed bool
}

// RedisOption configures a RedisStore.
type RedisOption func(*redisOptions)

type redisOptions struct {
	db     int
	prefix string
	ttl    time.Duration
}

// WithRedisDB selects the Redis logical database. Default: 0.
func WithRedisDB(db int) RedisOption {
	return func(o *redisOptions) {
		o.db = db
	}
}

// WithKeyPrefix overrides the key prefix. Default: "jobscraper:checkpoint:".
func WithKeyPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithTTL expires checkpoints after d. Default: no expiry. Resuming an
// execution whose checkpoint expired fails with ErrNotFound.
func WithTTL(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		if d > 0 {
			o.ttl = d
		}
	}
}

// NewRedisStore connects to Redis at addr and verifies the connection.
func NewRedisStore(addr string, opts ...RedisOption) (*RedisStore, error) {
	o := redisOptions{prefix: defaultKeyPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   o.db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &RedisStore{client: client, prefix: o.prefix, ttl: o.ttl}, nil
}

// key maps an execution ID to its Redis key.
func (r *RedisStore) key(executionID string) string {
	return r.prefix + executionID
}

// Save implements Store.
func (r *RedisStore) Save(executionID string, data []byte) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return ErrStoreClosed
	}

	if err := r.client.Set(context.Background(), r.key(executionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

// Load implements Store.
func (r *RedisStore) Load(executionID string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, ErrStoreClosed
	}

	data, err := r.client.Get(context.Background(), r.key(executionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	return data, nil
}

// Delete implements Store.
func (r *RedisStore) Delete(executionID string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return ErrStoreClosed
	}

	if err := r.client.Del(context.Background(), r.key(executionID)).Err(); err != nil {
		return fmt.Errorf("delete checkpoint: %w", err)
	}
	return nil
}

// List implements Store. Timestamps are not tracked by this backend and
// are zero in the returned metadata.
func (r *RedisStore) List() ([]Info, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, ErrStoreClosed
	}

	ctx := context.Background()
	infos := []Info{}

	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		size, err := r.client.StrLen(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("inspect checkpoint %s: %w", key, err)
		}
		infos = append(infos, Info{
			ExecutionID: strings.TrimPrefix(key, r.prefix),
			Size:        size,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}

	sortInfos(infos)
	return infos, nil
}

// Close implements Store.
func (r *RedisStore) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	r.closed = true
	return r.client.Close()
}
