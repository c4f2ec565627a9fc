package statement

import (
	"context"

	"github.com/backoffice/statement/internal/domain/entity"
)

// GetStatementOutput represents the current statement.
type GetStatementOutput struct {
	Lines       []entity.LineItem
	Totals      entity.StatementTotals
	FeedTotals  entity.FeedTotals
	PendingEdit *entity.PendingEdit
	GateState   entity.GateState
}

// GetStatementUseCase handles reading the live statement.
type GetStatementUseCase struct {
	store *LedgerStore
	gate  *EditGate
}

// NewGetStatementUseCase creates a new GetStatementUseCase instance.
func NewGetStatementUseCase(store *LedgerStore, gate *EditGate) *GetStatementUseCase {
	return &GetStatementUseCase{
		store: store,
		gate:  gate,
	}
}

// Execute returns the lines, totals and gate state.
func (uc *GetStatementUseCase) Execute(ctx context.Context) (*GetStatementOutput, error) {
	view := uc.store.View()
	pending, state := uc.gate.Pending()

	return &GetStatementOutput{
		Lines:       view.Lines,
		Totals:      view.Totals,
		FeedTotals:  view.FeedTotals,
		PendingEdit: pending,
		GateState:   state,
	}, nil
}
