package history

import (
	"context"

	"github.com/backoffice/statement/internal/domain/entity"
)

// ListSnapshotsOutput represents the history log.
type ListSnapshotsOutput struct {
	Snapshots []*entity.HistorySnapshot
}

// ListSnapshotsUseCase handles listing the history log.
type ListSnapshotsUseCase struct {
	history *HistoryStore
}

// NewListSnapshotsUseCase creates a new ListSnapshotsUseCase instance.
func NewListSnapshotsUseCase(history *HistoryStore) *ListSnapshotsUseCase {
	return &ListSnapshotsUseCase{
		history: history,
	}
}

// Execute returns every snapshot, newest first.
func (uc *ListSnapshotsUseCase) Execute(ctx context.Context) (*ListSnapshotsOutput, error) {
	return &ListSnapshotsOutput{
		Snapshots: uc.history.List(),
	}, nil
}
