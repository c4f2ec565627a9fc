// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/backoffice/statement/internal/domain/entity"
)

// LedgerRepository defines the interface for statement persistence operations.
type LedgerRepository interface {
	// LoadLines retrieves the persisted lines. Returns nil when nothing was saved yet.
	LoadLines(ctx context.Context) ([]entity.LineItem, error)

	// SaveLines replaces the persisted lines.
	SaveLines(ctx context.Context, lines []entity.LineItem) error

	// LoadFeedTotals retrieves the revenue aggregates last applied. Returns nil when absent.
	LoadFeedTotals(ctx context.Context) (*entity.FeedTotals, error)

	// SaveFeedTotals replaces the persisted feed totals.
	SaveFeedTotals(ctx context.Context, totals entity.FeedTotals) error
}

// HistoryRepository defines the interface for snapshot history persistence.
type HistoryRepository interface {
	// LoadAll retrieves every snapshot in capture order. Returns an empty slice when absent.
	LoadAll(ctx context.Context) ([]*entity.HistorySnapshot, error)

	// SaveAll replaces the persisted history.
	SaveAll(ctx context.Context, snapshots []*entity.HistorySnapshot) error
}

// SnapshotIDGenerator issues timestamp-derived snapshot ids.
type SnapshotIDGenerator interface {
	NextID() int64
}
