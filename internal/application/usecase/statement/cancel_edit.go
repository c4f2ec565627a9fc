package statement

import (
	"context"

	"github.com/google/uuid"

	domainerror "github.com/backoffice/statement/internal/domain/error"
)

// CancelEditInput represents the input for discarding a held edit.
type CancelEditInput struct {
	EditID uuid.UUID
}

// CancelEditOutput represents the output of a discarded edit.
type CancelEditOutput struct {
	Message string
}

// CancelEditUseCase handles discarding a held edit.
type CancelEditUseCase struct {
	gate *EditGate
}

// NewCancelEditUseCase creates a new CancelEditUseCase instance.
func NewCancelEditUseCase(gate *EditGate) *CancelEditUseCase {
	return &CancelEditUseCase{
		gate: gate,
	}
}

// Execute discards the held edit.
func (uc *CancelEditUseCase) Execute(ctx context.Context, input CancelEditInput) (*CancelEditOutput, error) {
	if err := uc.gate.Cancel(input.EditID); err != nil {
		return nil, domainerror.WrapStatementError(err, "failed to cancel edit")
	}
	return &CancelEditOutput{Message: "Edit cancelled"}, nil
}
