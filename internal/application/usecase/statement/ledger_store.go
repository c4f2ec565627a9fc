// Package statement contains the statement ledger use cases.
package statement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/backoffice/statement/internal/application/adapter"
	"github.com/backoffice/statement/internal/domain/entity"
	domainerror "github.com/backoffice/statement/internal/domain/error"
	"github.com/backoffice/statement/internal/domain/valueobject"
)

// StatementView is a consistent read of the live ledger.
type StatementView struct {
	Lines      []entity.LineItem
	Totals     entity.StatementTotals
	FeedTotals entity.FeedTotals
}

// LedgerStore owns the live ledger. Every operation runs as one turn under
// the store lock and the resulting state is persisted before the lock is
// released. Persistence failures are logged; memory stays authoritative.
type LedgerStore struct {
	mu     sync.Mutex
	ledger *entity.Ledger
	repo   adapter.LedgerRepository
	logger *slog.Logger
}

// NewLedgerStore loads the persisted ledger, falling back to the seed
// template when nothing was saved or the saved document is malformed.
func NewLedgerStore(ctx context.Context, repo adapter.LedgerRepository) (*LedgerStore, error) {
	logger := slog.With("component", "ledger_store")

	lines, err := repo.LoadLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger lines: %w", err)
	}
	feed, err := repo.LoadFeedTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed totals: %w", err)
	}

	totals := entity.FeedTotals{}
	if feed != nil {
		totals = *feed
	}

	store := &LedgerStore{repo: repo, logger: logger}

	if lines == nil {
		logger.Info("No persisted ledger found, starting from seed")
		store.ledger = entity.NewSeedLedger()
		store.persist(ctx)
		return store, nil
	}

	ledger, err := entity.NewLedger(lines, totals)
	if err != nil {
		if !errors.Is(err, domainerror.ErrMalformedLedger) {
			return nil, err
		}
		logger.Warn("Persisted ledger is malformed, starting from seed", "error", err)
		store.ledger = entity.NewSeedLedger()
		store.persist(ctx)
		return store, nil
	}

	store.ledger = ledger
	return store, nil
}

// View returns a copy of the current lines together with their totals.
func (s *LedgerStore) View() StatementView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return StatementView{
		Lines:      s.ledger.Lines(),
		Totals:     s.ledger.Totals(),
		FeedTotals: s.ledger.FeedTotals(),
	}
}

// Line returns the line with the given id.
func (s *LedgerStore) Line(id int) (entity.LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Line(id)
}

// Mutate runs fn as one atomic turn. The state is persisted when fn
// reports a change and returns no error.
func (s *LedgerStore) Mutate(ctx context.Context, fn func(l *entity.Ledger) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed, err := fn(s.ledger)
	if err != nil {
		return err
	}
	if changed {
		s.persist(ctx)
	}
	return nil
}

// Upsert applies a patch to an existing line.
func (s *LedgerStore) Upsert(ctx context.Context, id int, patch entity.LinePatch) (entity.LineItem, error) {
	var line entity.LineItem
	err := s.Mutate(ctx, func(l *entity.Ledger) (bool, error) {
		if err := l.Upsert(id, patch); err != nil {
			return false, err
		}
		line, _ = l.Line(id)
		return true, nil
	})
	return line, err
}

// Insert adds a new item at the end of a category block.
func (s *LedgerStore) Insert(ctx context.Context, category entity.LineCategory, item entity.LineItem) (entity.LineItem, error) {
	var line entity.LineItem
	err := s.Mutate(ctx, func(l *entity.Ledger) (bool, error) {
		inserted, err := l.Insert(category, item)
		if err != nil {
			return false, err
		}
		line = inserted
		return true, nil
	})
	return line, err
}

// Remove deletes a user item.
func (s *LedgerStore) Remove(ctx context.Context, id int) (entity.LineItem, error) {
	var line entity.LineItem
	err := s.Mutate(ctx, func(l *entity.Ledger) (bool, error) {
		removed, err := l.Remove(id)
		if err != nil {
			return false, err
		}
		line = removed
		return true, nil
	})
	return line, err
}

// ReplaceAll swaps the whole line set and the feed bookkeeping.
func (s *LedgerStore) ReplaceAll(ctx context.Context, lines []entity.LineItem, feed entity.FeedTotals) error {
	return s.Mutate(ctx, func(l *entity.Ledger) (bool, error) {
		if err := l.ReplaceAll(lines); err != nil {
			return false, err
		}
		l.SetFeedTotals(feed)
		return true, nil
	})
}

// ApplyFeed folds external aggregates into the ledger and returns the
// cost-center buckets that found no line.
func (s *LedgerStore) ApplyFeed(ctx context.Context, agg entity.FeedAggregates) []valueobject.CostCenter {
	var unplaced []valueobject.CostCenter
	_ = s.Mutate(ctx, func(l *entity.Ledger) (bool, error) {
		unplaced = l.ApplyFeed(agg)
		return true, nil
	})
	return unplaced
}

// Capture freezes the current state into a history snapshot.
func (s *LedgerStore) Capture(id int64, capturedAt time.Time) *entity.HistorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return entity.NewHistorySnapshot(id, capturedAt, s.ledger)
}

// persist must be called with the lock held.
func (s *LedgerStore) persist(ctx context.Context) {
	if err := s.repo.SaveLines(ctx, s.ledger.Lines()); err != nil {
		s.logger.Error("Failed to persist ledger lines", "error", err)
	}
	if err := s.repo.SaveFeedTotals(ctx, s.ledger.FeedTotals()); err != nil {
		s.logger.Error("Failed to persist feed totals", "error", err)
	}
}
