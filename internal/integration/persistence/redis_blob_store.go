// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/backoffice/statement/internal/application/adapter"
)

// redisBlobStore implements the adapter.BlobStore interface on redis strings.
type redisBlobStore struct {
	client *redis.Client
	prefix string
}

// NewRedisBlobStore creates a new redis-backed blob store instance.
// Every key is stored under prefix.
func NewRedisBlobStore(client *redis.Client, prefix string) adapter.BlobStore {
	return &redisBlobStore{
		client: client,
		prefix: prefix,
	}
}

// Get returns the document stored under key.
func (s *redisBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, adapter.ErrBlobNotFound
		}
		return nil, err
	}
	return data, nil
}

// Put stores data under key with no expiry.
func (s *redisBlobStore) Put(ctx context.Context, key string, data []byte) error {
	return s.client.Set(ctx, s.prefix+key, data, 0).Err()
}
