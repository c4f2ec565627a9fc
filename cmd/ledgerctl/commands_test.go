package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/backoffice/statement/internal/domain/entity"
)

func TestWriteLines(t *testing.T) {
	ledger := entity.NewSeedLedger()
	value := decimal.NewFromInt(1500)
	if err := ledger.Upsert(2, entity.LinePatch{Value: &value}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var buf bytes.Buffer
	writeLines(&buf, ledger.Lines())
	out := buf.String()

	if !strings.Contains(out, "Extras") || !strings.Contains(out, "1.500,00") {
		t.Errorf("expected the Extras line with its value, got %q", out)
	}
	if !strings.Contains(out, "(100.00%)") {
		t.Errorf("expected the profit margin, got %q", out)
	}
}

func TestWriteTotals(t *testing.T) {
	var buf bytes.Buffer
	writeTotals(&buf, entity.StatementTotals{
		Revenue: decimal.NewFromInt(10000),
		Closing: decimal.NewFromInt(-2000),
		Reserve: decimal.Zero,
		Profit:  decimal.NewFromInt(8000),
		Margin:  decimal.NewFromInt(80),
	})

	if !strings.Contains(buf.String(), "(80.00%)") {
		t.Errorf("expected margin 80.00%%, got %q", buf.String())
	}
}
