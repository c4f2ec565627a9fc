package statement

import (
	"context"

	"github.com/backoffice/statement/internal/domain/entity"
	domainerror "github.com/backoffice/statement/internal/domain/error"
)

// RemoveItemInput represents the input for removing an item.
type RemoveItemInput struct {
	LineID int
}

// RemoveItemOutput represents the output of removing an item.
type RemoveItemOutput struct {
	Removed entity.LineItem
	Totals  entity.StatementTotals
	Message string
}

// RemoveItemUseCase handles removing user items.
type RemoveItemUseCase struct {
	store *LedgerStore
}

// NewRemoveItemUseCase creates a new RemoveItemUseCase instance.
func NewRemoveItemUseCase(store *LedgerStore) *RemoveItemUseCase {
	return &RemoveItemUseCase{
		store: store,
	}
}

// Execute performs the removal.
func (uc *RemoveItemUseCase) Execute(ctx context.Context, input RemoveItemInput) (*RemoveItemOutput, error) {
	output := &RemoveItemOutput{}
	err := uc.store.Mutate(ctx, func(l *entity.Ledger) (bool, error) {
		removed, err := l.Remove(input.LineID)
		if err != nil {
			return false, err
		}
		output.Removed = removed
		output.Totals = l.Totals()
		return true, nil
	})
	if err != nil {
		return nil, domainerror.WrapStatementError(err, "failed to remove item")
	}

	output.Message = "Item removed"
	return output, nil
}
