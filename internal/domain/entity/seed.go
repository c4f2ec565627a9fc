package entity

import (
	"github.com/shopspring/decimal"

	"github.com/backoffice/statement/internal/domain/valueobject"
)

// SeedLines returns the fixed template the statement starts from on first run.
func SeedLines() []LineItem {
	lines := []LineItem{
		{Key: LineKeyRevenue, Kind: LineKindHeader, Description: "Receita Bruta", Editable: true, Category: CategoryRevenue, Bold: true},
		{Key: LineKeyExtras, Kind: LineKindItem, Description: "Extras", Editable: true, Category: CategoryRevenue},
		{Kind: LineKindSpacer},
		{Key: LineKeyClosingHeader, Kind: LineKindHeader, Description: "Custos de Fechamento", Category: CategoryClosing, Bold: true},
	}

	for _, center := range valueobject.CostCenters() {
		lines = append(lines, LineItem{
			Key:         center.LineKey(),
			Kind:        LineKindItem,
			Description: center.LineDescription(),
			Editable:    true,
			Category:    CategoryClosing,
		})
	}

	lines = append(lines,
		LineItem{Kind: LineKindSpacer},
		LineItem{Key: LineKeyReserveHeader, Kind: LineKindHeader, Description: "Reservas", Category: CategoryReserve, Bold: true},
		LineItem{Kind: LineKindItem, Description: "Reserva de Emergência", Editable: true, Category: CategoryReserve},
		LineItem{Kind: LineKindItem, Description: "Investimentos", Editable: true, Category: CategoryReserve},
		LineItem{Kind: LineKindItem, Description: "Bônus da Equipe", Editable: true, Category: CategoryReserve},
		LineItem{Kind: LineKindItem, Description: "Provisão 13º Salário", Editable: true, Category: CategoryReserve},
		LineItem{Kind: LineKindItem, Description: "Provisão de Férias", Editable: true, Category: CategoryReserve},
		LineItem{Kind: LineKindItem, Description: "Fundo de Treinamento", Editable: true, Category: CategoryReserve},
		LineItem{Kind: LineKindSpacer},
		LineItem{Key: LineKeyProfit, Kind: LineKindFooter, Description: "Lucro Líquido", Bold: true},
	)

	for i := range lines {
		lines[i].ID = i + 1
		lines[i].Value = decimal.Zero
		lines[i].Percentage = decimal.Zero
	}
	return lines
}
