package entity

import (
	"time"
)

// HistorySnapshot is an immutable capture of the full statement state.
// Totals are stored as computed at capture time and never recomputed.
type HistorySnapshot struct {
	ID         int64
	Date       time.Time
	Lines      []LineItem
	Totals     StatementTotals
	FeedTotals FeedTotals
}

// NewHistorySnapshot freezes the current ledger state under the given id.
func NewHistorySnapshot(id int64, capturedAt time.Time, ledger *Ledger) *HistorySnapshot {
	return &HistorySnapshot{
		ID:         id,
		Date:       capturedAt.UTC(),
		Lines:      ledger.Lines(),
		Totals:     ledger.Totals(),
		FeedTotals: ledger.FeedTotals(),
	}
}

// LinesCopy returns a copy of the captured lines.
func (s *HistorySnapshot) LinesCopy() []LineItem {
	return cloneLines(s.Lines)
}
