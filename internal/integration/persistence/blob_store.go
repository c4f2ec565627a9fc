// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/backoffice/statement/internal/application/adapter"
	"github.com/backoffice/statement/internal/integration/persistence/model"
)

// blobStore implements the adapter.BlobStore interface on a gorm table.
type blobStore struct {
	db *gorm.DB
}

// NewBlobStore creates a new database-backed blob store instance.
func NewBlobStore(db *gorm.DB) adapter.BlobStore {
	return &blobStore{
		db: db,
	}
}

// Get returns the document stored under key.
func (s *blobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var blob model.StateBlobModel
	result := s.db.WithContext(ctx).Where("blob_key = ?", key).First(&blob)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, adapter.ErrBlobNotFound
		}
		return nil, result.Error
	}
	return blob.Data, nil
}

// Put stores data under key, replacing any previous document.
func (s *blobStore) Put(ctx context.Context, key string, data []byte) error {
	blob := &model.StateBlobModel{
		Key:       key,
		Data:      data,
		UpdatedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blob_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(blob).Error
}
