package statement

import (
	"context"

	"github.com/backoffice/statement/internal/domain/entity"
	domainerror "github.com/backoffice/statement/internal/domain/error"
	"github.com/backoffice/statement/internal/domain/valueobject"
)

// EditLineValueInput represents the input for a value edit.
// Value accepts anything the monetary normalizer understands.
type EditLineValueInput struct {
	LineID int
	Value  any
}

// EditLineValueOutput represents the output of a value edit.
// Exactly one of Line or PendingEdit is set.
type EditLineValueOutput struct {
	Line        *entity.LineItem
	PendingEdit *entity.PendingEdit
	Totals      entity.StatementTotals
	Message     string
}

// EditLineValueUseCase handles value edits. Revenue is protected and goes
// through the edit gate; every other editable line is applied directly.
type EditLineValueUseCase struct {
	store *LedgerStore
	gate  *EditGate
}

// NewEditLineValueUseCase creates a new EditLineValueUseCase instance.
func NewEditLineValueUseCase(store *LedgerStore, gate *EditGate) *EditLineValueUseCase {
	return &EditLineValueUseCase{
		store: store,
		gate:  gate,
	}
}

// Execute performs the value edit.
func (uc *EditLineValueUseCase) Execute(ctx context.Context, input EditLineValueInput) (*EditLineValueOutput, error) {
	amount := valueobject.NormalizeAmount(input.Value)
	output := &EditLineValueOutput{}

	err := uc.store.Mutate(ctx, func(l *entity.Ledger) (bool, error) {
		line, ok := l.Line(input.LineID)
		if !ok {
			return false, domainerror.ErrLineNotFound
		}

		if line.Key == entity.LineKeyRevenue {
			output.PendingEdit = uc.gate.Request(entity.ActorFromContext(ctx), line, entity.EditFieldValue, amount, "")
			output.Message = "Revenue edits require confirmation"
			output.Totals = l.Totals()
			return false, nil
		}

		if err := l.Upsert(line.ID, entity.LinePatch{Value: &amount}); err != nil {
			return false, err
		}
		updated, _ := l.Line(line.ID)
		output.Line = &updated
		output.Totals = l.Totals()
		output.Message = "Value updated"
		return true, nil
	})
	if err != nil {
		return nil, domainerror.WrapStatementError(err, "failed to edit line value")
	}

	return output, nil
}

// IsPending reports whether the edit is waiting for confirmation.
func (o *EditLineValueOutput) IsPending() bool {
	return o.PendingEdit != nil
}

