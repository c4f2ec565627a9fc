// Package history contains the snapshot history use cases.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/backoffice/statement/internal/application/adapter"
	"github.com/backoffice/statement/internal/domain/entity"
	domainerror "github.com/backoffice/statement/internal/domain/error"
)

// HistoryStore owns the snapshot log. Like the ledger store it persists
// the whole log after every change and keeps memory authoritative.
type HistoryStore struct {
	mu        sync.Mutex
	snapshots []*entity.HistorySnapshot
	repo      adapter.HistoryRepository
	logger    *slog.Logger
}

// NewHistoryStore loads the persisted history.
func NewHistoryStore(ctx context.Context, repo adapter.HistoryRepository) (*HistoryStore, error) {
	snapshots, err := repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	return &HistoryStore{
		snapshots: snapshots,
		repo:      repo,
		logger:    slog.With("component", "history_store"),
	}, nil
}

// Append adds a snapshot to the log.
func (s *HistoryStore) Append(ctx context.Context, snapshot *entity.HistorySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = append(s.snapshots, snapshot)
	s.persist(ctx)
}

// List returns every snapshot, newest first.
func (s *HistoryStore) List() []*entity.HistorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*entity.HistorySnapshot, len(s.snapshots))
	copy(out, s.snapshots)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Find returns the snapshot with the given id.
func (s *HistoryStore) Find(id int64) (*entity.HistorySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, snapshot := range s.snapshots {
		if snapshot.ID == id {
			return snapshot, nil
		}
	}
	return nil, domainerror.ErrSnapshotNotFound
}

// Delete removes the snapshot with the given id.
func (s *HistoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, snapshot := range s.snapshots {
		if snapshot.ID == id {
			s.snapshots = append(s.snapshots[:i], s.snapshots[i+1:]...)
			s.persist(ctx)
			return nil
		}
	}
	return domainerror.ErrSnapshotNotFound
}

func (s *HistoryStore) persist(ctx context.Context) {
	if err := s.repo.SaveAll(ctx, s.snapshots); err != nil {
		s.logger.Error("Failed to persist history", "error", err, "snapshots", len(s.snapshots))
	}
}
