// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/backoffice/statement/internal/application/adapter"
	"github.com/backoffice/statement/internal/domain/entity"
	"github.com/backoffice/statement/internal/integration/persistence/model"
)

// Storage keys for the statement documents.
const (
	KeyLines   = "statement:lines"
	KeyFeed    = "statement:feed"
	KeyHistory = "statement:history"
)

// ledgerRepository implements the adapter.LedgerRepository interface.
type ledgerRepository struct {
	blobs adapter.BlobStore
}

// NewLedgerRepository creates a new ledger repository instance.
func NewLedgerRepository(blobs adapter.BlobStore) adapter.LedgerRepository {
	return &ledgerRepository{
		blobs: blobs,
	}
}

// LoadLines retrieves the persisted lines.
func (r *ledgerRepository) LoadLines(ctx context.Context) ([]entity.LineItem, error) {
	var docs []model.LineItemDocument
	found, err := loadDocument(ctx, r.blobs, KeyLines, &docs)
	if err != nil || !found {
		return nil, err
	}
	return model.LinesToEntity(docs), nil
}

// SaveLines replaces the persisted lines.
func (r *ledgerRepository) SaveLines(ctx context.Context, lines []entity.LineItem) error {
	return saveDocument(ctx, r.blobs, KeyLines, model.LinesFromEntity(lines))
}

// LoadFeedTotals retrieves the last applied feed totals.
func (r *ledgerRepository) LoadFeedTotals(ctx context.Context) (*entity.FeedTotals, error) {
	var doc model.FeedTotalsDocument
	found, err := loadDocument(ctx, r.blobs, KeyFeed, &doc)
	if err != nil || !found {
		return nil, err
	}
	totals := doc.ToEntity()
	return &totals, nil
}

// SaveFeedTotals replaces the persisted feed totals.
func (r *ledgerRepository) SaveFeedTotals(ctx context.Context, totals entity.FeedTotals) error {
	return saveDocument(ctx, r.blobs, KeyFeed, model.FeedTotalsFromEntity(totals))
}

// historyRepository implements the adapter.HistoryRepository interface.
type historyRepository struct {
	blobs adapter.BlobStore
}

// NewHistoryRepository creates a new history repository instance.
func NewHistoryRepository(blobs adapter.BlobStore) adapter.HistoryRepository {
	return &historyRepository{
		blobs: blobs,
	}
}

// LoadAll retrieves every snapshot in capture order.
func (r *historyRepository) LoadAll(ctx context.Context) ([]*entity.HistorySnapshot, error) {
	var docs []model.HistorySnapshotDocument
	if _, err := loadDocument(ctx, r.blobs, KeyHistory, &docs); err != nil {
		return nil, err
	}

	snapshots := make([]*entity.HistorySnapshot, len(docs))
	for i, d := range docs {
		snapshots[i] = d.ToEntity()
	}
	return snapshots, nil
}

// SaveAll replaces the persisted history.
func (r *historyRepository) SaveAll(ctx context.Context, snapshots []*entity.HistorySnapshot) error {
	docs := make([]model.HistorySnapshotDocument, len(snapshots))
	for i, s := range snapshots {
		docs[i] = model.HistorySnapshotFromEntity(s)
	}
	return saveDocument(ctx, r.blobs, KeyHistory, docs)
}

func loadDocument(ctx context.Context, blobs adapter.BlobStore, key string, out any) (bool, error) {
	data, err := blobs.Get(ctx, key)
	if err != nil {
		if errors.Is(err, adapter.ErrBlobNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func saveDocument(ctx context.Context, blobs adapter.BlobStore, key string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := blobs.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
