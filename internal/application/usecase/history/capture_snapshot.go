package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/backoffice/statement/internal/application/adapter"
	"github.com/backoffice/statement/internal/application/usecase/statement"
	"github.com/backoffice/statement/internal/domain/entity"
)

// CaptureSnapshotOutput represents the output of a capture.
type CaptureSnapshotOutput struct {
	Snapshot *entity.HistorySnapshot
	Message  string
}

// CaptureSnapshotUseCase handles freezing the live statement into history.
type CaptureSnapshotUseCase struct {
	ledger  *statement.LedgerStore
	history *HistoryStore
	ids     adapter.SnapshotIDGenerator
}

// NewCaptureSnapshotUseCase creates a new CaptureSnapshotUseCase instance.
func NewCaptureSnapshotUseCase(ledger *statement.LedgerStore, history *HistoryStore, ids adapter.SnapshotIDGenerator) *CaptureSnapshotUseCase {
	return &CaptureSnapshotUseCase{
		ledger:  ledger,
		history: history,
		ids:     ids,
	}
}

// Execute captures the current lines and totals.
func (uc *CaptureSnapshotUseCase) Execute(ctx context.Context) (*CaptureSnapshotOutput, error) {
	snapshot := uc.ledger.Capture(uc.ids.NextID(), time.Now())
	uc.history.Append(ctx, snapshot)
	slog.Info("Snapshot captured", "snapshot_id", snapshot.ID, "captured_by", entity.ActorFromContext(ctx).Label())

	return &CaptureSnapshotOutput{
		Snapshot: snapshot,
		Message:  "Snapshot saved",
	}, nil
}
