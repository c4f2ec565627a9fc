package statement

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/backoffice/statement/internal/domain/entity"
	domainerror "github.com/backoffice/statement/internal/domain/error"
)

// EditLineDescriptionInput represents the input for a description edit.
type EditLineDescriptionInput struct {
	LineID      int
	Description string
}

// EditLineDescriptionOutput represents the held description edit.
type EditLineDescriptionOutput struct {
	PendingEdit *entity.PendingEdit
	Message     string
}

// EditLineDescriptionUseCase handles description edits. Descriptions are
// always protected, so the edit is only held until confirmed.
type EditLineDescriptionUseCase struct {
	store *LedgerStore
	gate  *EditGate
}

// NewEditLineDescriptionUseCase creates a new EditLineDescriptionUseCase instance.
func NewEditLineDescriptionUseCase(store *LedgerStore, gate *EditGate) *EditLineDescriptionUseCase {
	return &EditLineDescriptionUseCase{
		store: store,
		gate:  gate,
	}
}

// Execute validates the edit and hands it to the gate.
func (uc *EditLineDescriptionUseCase) Execute(ctx context.Context, input EditLineDescriptionInput) (*EditLineDescriptionOutput, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domainerror.NewStatementError(
			domainerror.ErrCodeEmptyDescription,
			"description is required",
			domainerror.ErrEmptyDescription,
		)
	}

	var pending *entity.PendingEdit
	err := uc.store.Mutate(ctx, func(l *entity.Ledger) (bool, error) {
		line, ok := l.Line(input.LineID)
		if !ok {
			return false, domainerror.ErrLineNotFound
		}
		if line.IsSpacer() {
			return false, domainerror.ErrLineNotEditable
		}
		pending = uc.gate.Request(entity.ActorFromContext(ctx), line, entity.EditFieldDescription, decimal.Zero, description)
		return false, nil
	})
	if err != nil {
		return nil, domainerror.WrapStatementError(err, "failed to edit line description")
	}

	return &EditLineDescriptionOutput{
		PendingEdit: pending,
		Message:     "Description edits require confirmation",
	}, nil
}
