package statement

import (
	"context"

	"github.com/backoffice/statement/internal/domain/entity"
)

// GetPendingEditOutput represents the gate status.
type GetPendingEditOutput struct {
	PendingEdit *entity.PendingEdit
	State       entity.GateState
}

// GetPendingEditUseCase handles reading the edit gate.
type GetPendingEditUseCase struct {
	gate *EditGate
}

// NewGetPendingEditUseCase creates a new GetPendingEditUseCase instance.
func NewGetPendingEditUseCase(gate *EditGate) *GetPendingEditUseCase {
	return &GetPendingEditUseCase{
		gate: gate,
	}
}

// Execute returns the held edit, if any.
func (uc *GetPendingEditUseCase) Execute(ctx context.Context) (*GetPendingEditOutput, error) {
	pending, state := uc.gate.Pending()
	return &GetPendingEditOutput{
		PendingEdit: pending,
		State:       state,
	}, nil
}
