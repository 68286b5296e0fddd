package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"github.com/rpgo/payoff-planner/internal/domain"
)

// DefaultRedisPrefix namespaces scenario keys
const DefaultRedisPrefix = "planner:scenario:"

// RedisStore keeps one JSON document per scenario plus a set of known IDs
type RedisStore struct {
	client *redis.Client
	prefix string
	opts   Options
}

// NewRedisStore connects to addr; the connection is lazy, as with redis.NewClient
func NewRedisStore(addr string, opts Options) *RedisStore {
	return NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: addr}), DefaultRedisPrefix, opts)
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client *redis.Client, prefix string, opts Options) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, opts: opts.withDefaults()}
}

func (r *RedisStore) key(id string) string { return r.prefix + id }
func (r *RedisStore) indexKey() string    { return r.prefix + "index" }

// Save writes the snapshot and records its ID in the index set in one transaction
func (r *RedisStore) Save(ctx context.Context, name string, params domain.ScenarioParams) (string, error) {
	snap, err := newSnapshot(r.opts, name, params)
	if err != nil {
		return "", err
	}
	data, err := encodeJSON(snap)
	if err != nil {
		return "", err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(snap.ID), data, 0)
		pipe.SAdd(ctx, r.indexKey(), snap.ID)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to save scenario %s: %w", snap.ID, err)
	}
	return snap.ID, nil
}

// Load fetches and decodes one snapshot
func (r *RedisStore) Load(ctx context.Context, id string) (domain.Scenario, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Scenario{}, ErrNotFound
	}
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("failed to load scenario %s: %w", id, err)
	}
	return decodeJSON(id, data)
}

// List returns the indexed IDs, sorted
func (r *RedisStore) List(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes the snapshot and its index entry
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.key(id))
		pipe.SRem(ctx, r.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete scenario %s: %w", id, err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases the underlying client
func (r *RedisStore) Close() error {
	return r.client.Close()
}
