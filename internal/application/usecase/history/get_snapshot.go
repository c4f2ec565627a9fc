package history

import (
	"context"

	"github.com/backoffice/statement/internal/domain/entity"
	domainerror "github.com/backoffice/statement/internal/domain/error"
)

// GetSnapshotInput represents the input for reading a snapshot.
type GetSnapshotInput struct {
	ID int64
}

// GetSnapshotOutput represents a single snapshot.
type GetSnapshotOutput struct {
	Snapshot *entity.HistorySnapshot
}

// GetSnapshotUseCase handles reading a single snapshot.
type GetSnapshotUseCase struct {
	history *HistoryStore
}

// NewGetSnapshotUseCase creates a new GetSnapshotUseCase instance.
func NewGetSnapshotUseCase(history *HistoryStore) *GetSnapshotUseCase {
	return &GetSnapshotUseCase{
		history: history,
	}
}

// Execute returns the snapshot.
func (uc *GetSnapshotUseCase) Execute(ctx context.Context, input GetSnapshotInput) (*GetSnapshotOutput, error) {
	snapshot, err := uc.history.Find(input.ID)
	if err != nil {
		return nil, domainerror.WrapStatementError(err, "snapshot not found")
	}
	return &GetSnapshotOutput{Snapshot: snapshot}, nil
}
