package statement

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/backoffice/statement/internal/domain/entity"
	domainerror "github.com/backoffice/statement/internal/domain/error"
)

// ConfirmEditInput represents the input for confirming a held edit.
type ConfirmEditInput struct {
	EditID     uuid.UUID
	Credential string
}

// ConfirmEditOutput represents the output of a confirmed edit.
type ConfirmEditOutput struct {
	Edit    *entity.PendingEdit
	Line    entity.LineItem
	Totals  entity.StatementTotals
	Message string
}

// ConfirmEditUseCase handles releasing a held edit with the gate credential.
type ConfirmEditUseCase struct {
	store *LedgerStore
	gate  *EditGate
}

// NewConfirmEditUseCase creates a new ConfirmEditUseCase instance.
func NewConfirmEditUseCase(store *LedgerStore, gate *EditGate) *ConfirmEditUseCase {
	return &ConfirmEditUseCase{
		store: store,
		gate:  gate,
	}
}

// Execute verifies the credential and applies the held edit.
// A wrong credential discards the edit and leaves the ledger untouched.
func (uc *ConfirmEditUseCase) Execute(ctx context.Context, input ConfirmEditInput) (*ConfirmEditOutput, error) {
	actor := entity.ActorFromContext(ctx)
	edit, err := uc.gate.Authorize(input.EditID, input.Credential)
	if err != nil {
		if errors.Is(err, domainerror.ErrInvalidCredential) {
			slog.Warn("Edit confirmation rejected", "edit_id", input.EditID, "confirmed_by", actor.Label())
		}
		return nil, domainerror.WrapStatementError(err, "failed to confirm edit")
	}

	output := &ConfirmEditOutput{Edit: edit}
	err = uc.store.Mutate(ctx, func(l *entity.Ledger) (bool, error) {
		line, ok := l.Line(edit.LineID)
		if !ok || !edit.Targets(line) {
			slog.Warn("Confirmed edit dropped, line moved",
				"edit_id", edit.ID,
				"line_id", edit.LineID,
				"requested_by", edit.RequestedBy.Label(),
			)
			return false, domainerror.ErrLineNotFound
		}
		if err := l.Upsert(line.ID, edit.Patch()); err != nil {
			return false, err
		}
		output.Line, _ = l.Line(line.ID)
		output.Totals = l.Totals()
		return true, nil
	})
	if err != nil {
		return nil, domainerror.WrapStatementError(err, "failed to apply confirmed edit")
	}

	slog.Info("Protected edit applied",
		"edit_id", edit.ID,
		"line_id", edit.LineID,
		"field", edit.Field,
		"requested_by", edit.RequestedBy.Label(),
		"confirmed_by", actor.Label(),
	)
	output.Message = "Edit confirmed"
	return output, nil
}
