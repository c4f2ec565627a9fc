package statement

import (
	"context"

	"github.com/backoffice/statement/internal/domain/entity"
	domainerror "github.com/backoffice/statement/internal/domain/error"
	"github.com/backoffice/statement/internal/domain/valueobject"
)

// AddItemInput represents the input for adding an item.
type AddItemInput struct {
	Category    entity.LineCategory
	Description string
	Value       any
	Bold        bool
}

// AddItemOutput represents the output of adding an item.
type AddItemOutput struct {
	Line    entity.LineItem
	Totals  entity.StatementTotals
	Message string
}

// AddItemUseCase handles inserting items into the closing and reserve blocks.
type AddItemUseCase struct {
	store *LedgerStore
}

// NewAddItemUseCase creates a new AddItemUseCase instance.
func NewAddItemUseCase(store *LedgerStore) *AddItemUseCase {
	return &AddItemUseCase{
		store: store,
	}
}

// Execute performs the insertion.
func (uc *AddItemUseCase) Execute(ctx context.Context, input AddItemInput) (*AddItemOutput, error) {
	if !entity.IsValidCategory(input.Category) {
		return nil, domainerror.NewStatementError(
			domainerror.ErrCodeInvalidCategory,
			"category must be 'CLOSING' or 'RESERVE'",
			domainerror.ErrInvalidCategory,
		)
	}

	output := &AddItemOutput{}
	err := uc.store.Mutate(ctx, func(l *entity.Ledger) (bool, error) {
		line, err := l.Insert(input.Category, entity.LineItem{
			Description: input.Description,
			Value:       valueobject.NormalizeCost(input.Value),
			Bold:        input.Bold,
		})
		if err != nil {
			return false, err
		}
		output.Line = line
		output.Totals = l.Totals()
		return true, nil
	})
	if err != nil {
		return nil, domainerror.WrapStatementError(err, "failed to add item")
	}

	output.Message = "Item added"
	return output, nil
}
