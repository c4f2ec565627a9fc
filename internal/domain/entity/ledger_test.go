package entity

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	domainerror "github.com/backoffice/statement/internal/domain/error"
	"github.com/backoffice/statement/internal/domain/valueobject"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setValue(t *testing.T, l *Ledger, id int, value string) {
	t.Helper()
	v := dec(value)
	if err := l.Upsert(id, LinePatch{Value: &v}); err != nil {
		t.Fatalf("failed to set value of line %d: %v", id, err)
	}
}

func lineByKey(t *testing.T, l *Ledger, key string) LineItem {
	t.Helper()
	line, ok := l.LineByKey(key)
	if !ok {
		t.Fatalf("expected line with key %q", key)
	}
	return line
}

func sameLines(a, b []LineItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.ID != y.ID || x.Key != y.Key || x.Kind != y.Kind || x.Description != y.Description ||
			x.Editable != y.Editable || x.Category != y.Category || x.Bold != y.Bold ||
			!x.Value.Equal(y.Value) || !x.Percentage.Equal(y.Percentage) {
			return false
		}
	}
	return true
}

// populated returns the seed ledger with revenue 130000 (10000 of extras)
// and a handful of costs.
func populated(t *testing.T) *Ledger {
	t.Helper()
	l := NewSeedLedger()
	setValue(t, l, 1, "120000")
	setValue(t, l, 2, "10000")
	setValue(t, l, 5, "40000")
	setValue(t, l, 7, "-12000")
	setValue(t, l, 8, "5000")
	setValue(t, l, 17, "3000")
	return l
}

func TestNewSeedLedger(t *testing.T) {
	l := NewSeedLedger()
	lines := l.Lines()

	if len(lines) != 24 {
		t.Fatalf("expected 24 seed lines, got %d", len(lines))
	}

	footers := 0
	for i, line := range lines {
		if line.ID != i+1 {
			t.Errorf("expected id %d at position %d, got %d", i+1, i, line.ID)
		}
		if line.IsFooter() {
			footers++
		}
	}
	if footers != 1 {
		t.Errorf("expected exactly one footer, got %d", footers)
	}

	profit := lineByKey(t, l, LineKeyProfit)
	if !profit.Value.IsZero() || !profit.Percentage.IsZero() {
		t.Errorf("expected zero profit and margin on seed, got %s / %s", profit.Value, profit.Percentage)
	}
}

func TestLedger_ExtrasCascade(t *testing.T) {
	l := NewSeedLedger()
	setValue(t, l, 1, "120000")
	setValue(t, l, 2, "10000")

	if got := lineByKey(t, l, LineKeyRevenue).Value; !got.Equal(dec("130000")) {
		t.Fatalf("expected revenue 130000 after folding extras, got %s", got)
	}

	setValue(t, l, 2, "15000")

	if got := lineByKey(t, l, LineKeyRevenue).Value; !got.Equal(dec("135000")) {
		t.Errorf("expected revenue 135000, got %s", got)
	}
	if got := lineByKey(t, l, LineKeyExtras).Value; !got.Equal(dec("15000")) {
		t.Errorf("expected extras 15000, got %s", got)
	}
}

func TestLedger_ProfitFormula(t *testing.T) {
	l := populated(t)

	revenue := lineByKey(t, l, LineKeyRevenue).Value.Abs()
	costs := decimal.Zero
	extrasIdx := -1
	lines := l.Lines()
	for i, line := range lines {
		if line.Key == LineKeyExtras {
			extrasIdx = i
		}
	}
	for _, line := range lines[extrasIdx+1:] {
		if line.IsSpacer() || line.IsFooter() {
			continue
		}
		costs = costs.Add(line.Value.Abs())
	}

	profit := lineByKey(t, l, LineKeyProfit)
	expected := revenue.Sub(costs)
	if !profit.Value.Equal(expected) {
		t.Errorf("expected profit %s, got %s", expected, profit.Value)
	}
	if !profit.Value.Equal(dec("70000")) {
		t.Errorf("expected profit 70000, got %s", profit.Value)
	}

	expectedMargin := expected.Div(revenue).Mul(decimal.NewFromInt(100)).Round(2)
	if !profit.Percentage.Equal(expectedMargin) {
		t.Errorf("expected margin %s, got %s", expectedMargin, profit.Percentage)
	}
}

func TestLedger_ZeroRevenueMargin(t *testing.T) {
	l := NewSeedLedger()
	setValue(t, l, 5, "1000")

	profit := lineByKey(t, l, LineKeyProfit)
	if !profit.Percentage.IsZero() {
		t.Errorf("expected 0%% margin with zero revenue, got %s", profit.Percentage)
	}
	if !profit.Value.Equal(dec("-1000")) {
		t.Errorf("expected profit -1000, got %s", profit.Value)
	}
}

func TestLedger_RecomputeIsIdempotent(t *testing.T) {
	l := populated(t)
	before := l.Lines()

	l.Recompute()
	l.Recompute()

	if !sameLines(before, l.Lines()) {
		t.Error("expected recompute to leave an already consistent ledger unchanged")
	}
}

func TestLedger_SignInvariant(t *testing.T) {
	l := populated(t)
	if _, err := l.Insert(CategoryReserve, LineItem{Description: "Fundo Novo", Value: dec("2500")}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	l.ApplyFeed(FeedAggregates{
		FeeTotal:    dec("1000"),
		CostCenters: map[valueobject.CostCenter]decimal.Decimal{valueobject.CostCenterRent: dec("700")},
	})

	passedExtras := false
	for _, line := range l.Lines() {
		if line.Key == LineKeyExtras {
			passedExtras = true
			if line.Value.IsNegative() {
				t.Errorf("expected extras to be non-negative, got %s", line.Value)
			}
			continue
		}
		if !passedExtras || line.IsSpacer() || line.IsFooter() {
			continue
		}
		if line.Value.IsPositive() {
			t.Errorf("expected line %d (%s) to be <= 0, got %s", line.ID, line.Description, line.Value)
		}
	}
}

func TestLedger_RemoveReindexes(t *testing.T) {
	l := NewSeedLedger()
	before := l.Lines()

	removed, err := l.Remove(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed.Description != before[6].Description {
		t.Errorf("expected to remove %q, got %q", before[6].Description, removed.Description)
	}

	after := l.Lines()
	if len(after) != 23 {
		t.Fatalf("expected 23 lines, got %d", len(after))
	}

	expectedOrder := append(append([]LineItem{}, before[:6]...), before[7:]...)
	for i, line := range after {
		if line.ID != i+1 {
			t.Errorf("expected contiguous id %d, got %d", i+1, line.ID)
		}
		if line.Description != expectedOrder[i].Description {
			t.Errorf("expected %q at position %d, got %q", expectedOrder[i].Description, i, line.Description)
		}
	}
}

func TestLedger_RemoveProtectedLines(t *testing.T) {
	tests := []struct {
		name string
		key  string
		kind LineKind
	}{
		{name: "revenue header", key: LineKeyRevenue},
		{name: "extras item", key: LineKeyExtras},
		{name: "closing header", key: LineKeyClosingHeader},
		{name: "profit footer", key: LineKeyProfit},
		{name: "spacer", kind: LineKindSpacer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := populated(t)
			before := l.Lines()

			id := 0
			for _, line := range before {
				if (tt.key != "" && line.Key == tt.key) || (tt.kind != "" && line.Kind == tt.kind) {
					id = line.ID
					break
				}
			}

			_, err := l.Remove(id)
			if !errors.Is(err, domainerror.ErrLineNotRemovable) {
				t.Errorf("expected ErrLineNotRemovable, got %v", err)
			}
			if !sameLines(before, l.Lines()) {
				t.Error("expected ledger to be unchanged after a rejected removal")
			}
		})
	}
}

func TestLedger_Insert(t *testing.T) {
	t.Run("appends at the end of the category block", func(t *testing.T) {
		l := populated(t)
		item, err := l.Insert(CategoryClosing, LineItem{Description: "  Contabilidade  ", Value: dec("800")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.ID != 15 {
			t.Errorf("expected new item at id 15, got %d", item.ID)
		}
		if item.Description != "Contabilidade" {
			t.Errorf("expected trimmed description, got %q", item.Description)
		}
		if !item.Value.Equal(dec("-800")) {
			t.Errorf("expected value -800, got %s", item.Value)
		}

		lines := l.Lines()
		if len(lines) != 25 {
			t.Fatalf("expected 25 lines, got %d", len(lines))
		}
		if !lines[15].IsSpacer() {
			t.Errorf("expected the spacer to follow the inserted item")
		}
		if !lineByKey(t, l, LineKeyProfit).Value.Equal(dec("69200")) {
			t.Errorf("expected profit to account for the new item, got %s", lineByKey(t, l, LineKeyProfit).Value)
		}
	})

	t.Run("rejects empty description", func(t *testing.T) {
		l := populated(t)
		_, err := l.Insert(CategoryReserve, LineItem{Description: "   "})
		if !errors.Is(err, domainerror.ErrEmptyDescription) {
			t.Errorf("expected ErrEmptyDescription, got %v", err)
		}
	})

	t.Run("rejects revenue and unknown categories", func(t *testing.T) {
		l := populated(t)
		for _, c := range []LineCategory{CategoryRevenue, CategoryNone, "BONUS"} {
			if _, err := l.Insert(c, LineItem{Description: "x"}); !errors.Is(err, domainerror.ErrInvalidCategory) {
				t.Errorf("expected ErrInvalidCategory for %q, got %v", c, err)
			}
		}
	})
}

func TestLedger_Upsert(t *testing.T) {
	t.Run("footer value is engine-owned", func(t *testing.T) {
		l := populated(t)
		v := dec("1")
		if err := l.Upsert(24, LinePatch{Value: &v}); !errors.Is(err, domainerror.ErrLineNotEditable) {
			t.Errorf("expected ErrLineNotEditable, got %v", err)
		}
	})

	t.Run("spacer is never editable", func(t *testing.T) {
		l := populated(t)
		desc := "x"
		if err := l.Upsert(3, LinePatch{Description: &desc}); !errors.Is(err, domainerror.ErrLineNotEditable) {
			t.Errorf("expected ErrLineNotEditable, got %v", err)
		}
	})

	t.Run("category header value is not editable", func(t *testing.T) {
		l := populated(t)
		v := dec("10")
		if err := l.Upsert(4, LinePatch{Value: &v}); !errors.Is(err, domainerror.ErrLineNotEditable) {
			t.Errorf("expected ErrLineNotEditable, got %v", err)
		}
	})

	t.Run("unknown line", func(t *testing.T) {
		l := populated(t)
		v := dec("10")
		if err := l.Upsert(99, LinePatch{Value: &v}); !errors.Is(err, domainerror.ErrLineNotFound) {
			t.Errorf("expected ErrLineNotFound, got %v", err)
		}
	})

	t.Run("revenue edit becomes the new baseline", func(t *testing.T) {
		l := populated(t)
		setValue(t, l, 1, "-200000")
		if got := lineByKey(t, l, LineKeyRevenue).Value; !got.Equal(dec("200000")) {
			t.Errorf("expected revenue magnitude 200000, got %s", got)
		}
		setValue(t, l, 2, "12000")
		if got := lineByKey(t, l, LineKeyRevenue).Value; !got.Equal(dec("202000")) {
			t.Errorf("expected revenue 202000 after extras delta, got %s", got)
		}
	})
}

func TestLedger_ApplyFeed(t *testing.T) {
	t.Run("revenue moves by the delta of fed totals", func(t *testing.T) {
		l := populated(t)

		l.ApplyFeed(FeedAggregates{FeeTotal: dec("5000"), LossTotal: dec("1000")})
		if got := lineByKey(t, l, LineKeyRevenue).Value; !got.Equal(dec("134000")) {
			t.Fatalf("expected revenue 134000, got %s", got)
		}

		l.ApplyFeed(FeedAggregates{FeeTotal: dec("5000"), LossTotal: dec("1000")})
		if got := lineByKey(t, l, LineKeyRevenue).Value; !got.Equal(dec("134000")) {
			t.Errorf("expected unchanged aggregates to be a no-op, got %s", got)
		}

		l.ApplyFeed(FeedAggregates{FeeTotal: dec("8000"), LossTotal: dec("500")})
		if got := lineByKey(t, l, LineKeyRevenue).Value; !got.Equal(dec("137500")) {
			t.Errorf("expected revenue 137500, got %s", got)
		}
	})

	t.Run("cost centers overwrite their lines", func(t *testing.T) {
		l := populated(t)
		l.ApplyFeed(FeedAggregates{CostCenters: map[valueobject.CostCenter]decimal.Decimal{
			valueobject.CostCenterRent:  dec("6000"),
			valueobject.CostCenterOther: dec("-250"),
		}})

		if got := lineByKey(t, l, valueobject.CostCenterRent.LineKey()).Value; !got.Equal(dec("-6000")) {
			t.Errorf("expected rent -6000, got %s", got)
		}
		if got := lineByKey(t, l, valueobject.CostCenterOther.LineKey()).Value; !got.Equal(dec("-250")) {
			t.Errorf("expected other -250, got %s", got)
		}
		if got := lineByKey(t, l, valueobject.CostCenterPayroll.LineKey()).Value; !got.IsZero() {
			t.Errorf("expected payroll reset to 0, got %s", got)
		}
	})

	t.Run("removed bucket folds into other", func(t *testing.T) {
		l := populated(t)
		rent := lineByKey(t, l, valueobject.CostCenterRent.LineKey())
		if _, err := l.Remove(rent.ID); err != nil {
			t.Fatalf("remove failed: %v", err)
		}

		unplaced := l.ApplyFeed(FeedAggregates{CostCenters: map[valueobject.CostCenter]decimal.Decimal{
			valueobject.CostCenterRent:  dec("6000"),
			valueobject.CostCenterOther: dec("250"),
		}})
		if len(unplaced) != 0 {
			t.Errorf("expected no unplaced buckets, got %v", unplaced)
		}
		if got := lineByKey(t, l, valueobject.CostCenterOther.LineKey()).Value; !got.Equal(dec("-6250")) {
			t.Errorf("expected other -6250, got %s", got)
		}
	})
}

func TestNewLedger_ValidatesStructure(t *testing.T) {
	t.Run("two footers", func(t *testing.T) {
		lines := SeedLines()
		lines = append(lines, LineItem{Kind: LineKindFooter})
		if _, err := NewLedger(lines, FeedTotals{}); !errors.Is(err, domainerror.ErrMalformedLedger) {
			t.Errorf("expected ErrMalformedLedger, got %v", err)
		}
	})

	t.Run("missing extras", func(t *testing.T) {
		lines := SeedLines()
		lines = append(lines[:1], lines[2:]...)
		if _, err := NewLedger(lines, FeedTotals{}); !errors.Is(err, domainerror.ErrMalformedLedger) {
			t.Errorf("expected ErrMalformedLedger, got %v", err)
		}
	})

	t.Run("reindexes sparse ids", func(t *testing.T) {
		lines := SeedLines()
		for i := range lines {
			lines[i].ID = (i + 1) * 10
		}
		l, err := NewLedger(lines, FeedTotals{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, line := range l.Lines() {
			if line.ID != i+1 {
				t.Errorf("expected id %d, got %d", i+1, line.ID)
			}
		}
	})
}

func TestLedger_Totals(t *testing.T) {
	l := populated(t)
	totals := l.Totals()

	if !totals.Revenue.Equal(dec("130000")) {
		t.Errorf("expected revenue 130000, got %s", totals.Revenue)
	}
	if !totals.Closing.Equal(dec("-57000")) {
		t.Errorf("expected closing -57000, got %s", totals.Closing)
	}
	if !totals.Reserve.Equal(dec("-3000")) {
		t.Errorf("expected reserve -3000, got %s", totals.Reserve)
	}
	if !totals.Profit.Equal(dec("70000")) {
		t.Errorf("expected profit 70000, got %s", totals.Profit)
	}
}
