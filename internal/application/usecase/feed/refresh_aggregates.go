// Package feed contains the external aggregate feed use cases.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice/statement/internal/application/adapter"
	"github.com/backoffice/statement/internal/application/usecase/statement"
	"github.com/backoffice/statement/internal/domain/entity"
	domainerror "github.com/backoffice/statement/internal/domain/error"
	"github.com/backoffice/statement/internal/domain/valueobject"
)

// RefreshAggregatesOutput represents the result of a refresh.
type RefreshAggregatesOutput struct {
	FeeTotal    decimal.Decimal
	LossTotal   decimal.Decimal
	CostCenters map[valueobject.CostCenter]decimal.Decimal
	Totals      entity.StatementTotals
	Message     string
}

// RefreshAggregatesUseCase pulls the external sums and folds them into the
// ledger. A failed pull keeps the last known values and leaves a notice.
type RefreshAggregatesUseCase struct {
	source   adapter.AggregateSource
	store    *statement.LedgerStore
	notifier adapter.Notifier
	cutoff   time.Time
}

// NewRefreshAggregatesUseCase creates a new RefreshAggregatesUseCase instance.
func NewRefreshAggregatesUseCase(
	source adapter.AggregateSource,
	store *statement.LedgerStore,
	notifier adapter.Notifier,
	cutoff time.Time,
) *RefreshAggregatesUseCase {
	return &RefreshAggregatesUseCase{
		source:   source,
		store:    store,
		notifier: notifier,
		cutoff:   cutoff,
	}
}

// Execute performs one refresh.
func (uc *RefreshAggregatesUseCase) Execute(ctx context.Context) (*RefreshAggregatesOutput, error) {
	fees, err := uc.source.ApprovedProposalFees(ctx, uc.cutoff)
	if err != nil {
		return nil, uc.fail(ctx, "approved proposal fees", err)
	}
	losses, err := uc.source.ExitProposalLosses(ctx, uc.cutoff)
	if err != nil {
		return nil, uc.fail(ctx, "exit proposal losses", err)
	}
	costs, err := uc.source.CostEntries(ctx)
	if err != nil {
		return nil, uc.fail(ctx, "cost entries", err)
	}

	// A response that lands after cancellation is stale.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	agg := entity.FeedAggregates{
		FeeTotal:    sumCredits(fees),
		LossTotal:   sumCredits(losses),
		CostCenters: sumCostCenters(costs),
	}

	unplaced := uc.store.ApplyFeed(ctx, agg)
	if len(unplaced) > 0 {
		names := make([]string, len(unplaced))
		for i, center := range unplaced {
			names[i] = string(center)
		}
		uc.notify(ctx, entity.NoticeLevelInfo, "Some cost centers have no line on the statement: "+strings.Join(names, ", "))
	}

	slog.Info("Aggregates refreshed",
		"fee_total", agg.FeeTotal.String(),
		"loss_total", agg.LossTotal.String(),
		"cost_rows", len(costs),
	)

	return &RefreshAggregatesOutput{
		FeeTotal:    agg.FeeTotal,
		LossTotal:   agg.LossTotal,
		CostCenters: agg.CostCenters,
		Totals:      uc.store.View().Totals,
		Message:     "Aggregates refreshed",
	}, nil
}

func (uc *RefreshAggregatesUseCase) fail(ctx context.Context, query string, err error) error {
	slog.Error("Failed to refresh aggregates", "query", query, "error", err)
	uc.notify(ctx, entity.NoticeLevelError, "Could not load "+query+"; showing the last known values")
	return domainerror.NewStatementError(
		domainerror.ErrCodeFeedUnavailable,
		"aggregate feed unavailable",
		fmt.Errorf("%w: %s: %v", domainerror.ErrFeedUnavailable, query, err),
	)
}

func (uc *RefreshAggregatesUseCase) notify(ctx context.Context, level entity.NoticeLevel, message string) {
	if uc.notifier == nil {
		return
	}
	uc.notifier.Notify(ctx, entity.NewNotice(level, message))
}

func sumCredits(raw []string) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range raw {
		total = total.Add(valueobject.NormalizeCredit(amount))
	}
	return total
}

func sumCostCenters(rows []adapter.CostRecord) map[valueobject.CostCenter]decimal.Decimal {
	totals := make(map[valueobject.CostCenter]decimal.Decimal, len(valueobject.CostCenters()))
	for _, center := range valueobject.CostCenters() {
		totals[center] = decimal.Zero
	}
	for _, row := range rows {
		center := valueobject.ClassifyCostCenter(row.CostCenter)
		totals[center] = totals[center].Add(valueobject.NormalizeCost(row.Amount).Abs())
	}
	return totals
}
