package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each collection in one hash: field = document key,
// value = JSON body.
type RedisStore struct {
	client    redis.Cmdable
	keyPrefix string
}

func NewRedisStore(client redis.Cmdable, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (r *RedisStore) hashKey(collection string) string {
	return r.keyPrefix + collection
}

func (r *RedisStore) Get(ctx context.Context, collection, key string) (*Document, error) {
	if err := validateKey(collection, key); err != nil {
		return nil, err
	}

	data, err := r.client.HGet(ctx, r.hashKey(collection), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s/%s: %w", collection, key, err)
	}
	return &Document{ID: key, Data: data}, nil
}

func (r *RedisStore) Set(ctx context.Context, collection, key string, doc Document) error {
	if err := validateKey(collection, key); err != nil {
		return err
	}

	if err := r.client.HSet(ctx, r.hashKey(collection), key, []byte(doc.Data)).Err(); err != nil {
		return fmt.Errorf("redis set %s/%s: %w", collection, key, err)
	}
	return nil
}

func (r *RedisStore) List(ctx context.Context, collection string) ([]Document, error) {
	entries, err := r.client.HGetAll(ctx, r.hashKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list %s: %w", collection, err)
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, Document{ID: id, Data: []byte(entries[id])})
	}
	return docs, nil
}

func (r *RedisStore) ServerTime(ctx context.Context) (time.Time, error) {
	now, err := r.client.Time(ctx).Result()
	if err != nil {
		return time.Time{}, fmt.Errorf("redis server time: %w", err)
	}
	return now.UTC(), nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
