// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned by a BlobStore when a key was never written.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore defines a keyed document store. Each write replaces the whole document.
type BlobStore interface {
	// Get returns the document stored under key, or ErrBlobNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key, replacing any previous document.
	Put(ctx context.Context, key string, data []byte) error
}
