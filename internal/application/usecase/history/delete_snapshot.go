package history

import (
	"context"
	"log/slog"

	"github.com/backoffice/statement/internal/domain/entity"
	domainerror "github.com/backoffice/statement/internal/domain/error"
)

// DeleteSnapshotInput represents the input for deleting a snapshot.
type DeleteSnapshotInput struct {
	ID int64
}

// DeleteSnapshotOutput represents the output of a deletion.
type DeleteSnapshotOutput struct {
	Message string
}

// DeleteSnapshotUseCase handles removing a snapshot. The live ledger is never touched.
type DeleteSnapshotUseCase struct {
	history *HistoryStore
}

// NewDeleteSnapshotUseCase creates a new DeleteSnapshotUseCase instance.
func NewDeleteSnapshotUseCase(history *HistoryStore) *DeleteSnapshotUseCase {
	return &DeleteSnapshotUseCase{
		history: history,
	}
}

// Execute performs the deletion.
func (uc *DeleteSnapshotUseCase) Execute(ctx context.Context, input DeleteSnapshotInput) (*DeleteSnapshotOutput, error) {
	if err := uc.history.Delete(ctx, input.ID); err != nil {
		return nil, domainerror.WrapStatementError(err, "snapshot not found")
	}
	slog.Info("Snapshot deleted", "snapshot_id", input.ID, "deleted_by", entity.ActorFromContext(ctx).Label())
	return &DeleteSnapshotOutput{Message: "Snapshot deleted"}, nil
}
