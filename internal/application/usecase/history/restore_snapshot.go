package history

import (
	"context"
	"log/slog"

	"github.com/backoffice/statement/internal/application/usecase/statement"
	"github.com/backoffice/statement/internal/domain/entity"
	domainerror "github.com/backoffice/statement/internal/domain/error"
)

// RestoreSnapshotInput represents the input for a restore.
type RestoreSnapshotInput struct {
	ID int64
}

// RestoreSnapshotOutput represents the restored statement.
type RestoreSnapshotOutput struct {
	Lines   []entity.LineItem
	Totals  entity.StatementTotals
	Message string
}

// RestoreSnapshotUseCase handles replacing the live ledger with a snapshot.
// The snapshot itself, including its stored totals, is left untouched.
type RestoreSnapshotUseCase struct {
	ledger  *statement.LedgerStore
	history *HistoryStore
}

// NewRestoreSnapshotUseCase creates a new RestoreSnapshotUseCase instance.
func NewRestoreSnapshotUseCase(ledger *statement.LedgerStore, history *HistoryStore) *RestoreSnapshotUseCase {
	return &RestoreSnapshotUseCase{
		ledger:  ledger,
		history: history,
	}
}

// Execute performs the restore.
func (uc *RestoreSnapshotUseCase) Execute(ctx context.Context, input RestoreSnapshotInput) (*RestoreSnapshotOutput, error) {
	snapshot, err := uc.history.Find(input.ID)
	if err != nil {
		return nil, domainerror.WrapStatementError(err, "snapshot not found")
	}

	if err := uc.ledger.ReplaceAll(ctx, snapshot.LinesCopy(), snapshot.FeedTotals); err != nil {
		return nil, domainerror.WrapStatementError(err, "failed to restore snapshot")
	}

	slog.Info("Snapshot restored", "snapshot_id", snapshot.ID, "restored_by", entity.ActorFromContext(ctx).Label())

	view := uc.ledger.View()
	return &RestoreSnapshotOutput{
		Lines:   view.Lines,
		Totals:  view.Totals,
		Message: "Snapshot restored",
	}, nil
}
