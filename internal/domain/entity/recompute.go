package entity

import (
	"github.com/shopspring/decimal"

	"github.com/backoffice/statement/internal/domain/valueobject"
)

var hundred = decimal.NewFromInt(100)

// FeedAggregates are the externally computed sums pulled by the aggregate feed.
type FeedAggregates struct {
	FeeTotal    decimal.Decimal
	LossTotal   decimal.Decimal
	CostCenters map[valueobject.CostCenter]decimal.Decimal
}

// Recompute restores the statement invariants: sign conventions on every
// line after Revenue, and the profit footer with its margin. It is
// idempotent.
func (l *Ledger) Recompute() {
	revenueIdx := l.indexOfKey(LineKeyRevenue)
	extrasIdx := l.indexOfKey(LineKeyExtras)
	if revenueIdx < 0 || extrasIdx < 0 {
		return
	}

	for i := revenueIdx + 1; i < len(l.lines); i++ {
		line := &l.lines[i]
		if line.IsSpacer() || line.IsFooter() {
			continue
		}
		if i == extrasIdx {
			line.Value = line.Value.Abs()
			continue
		}
		line.Value = line.Value.Abs().Neg()
	}

	revenue := l.lines[revenueIdx].Value.Abs()
	costs := decimal.Zero
	for i := extrasIdx + 1; i < len(l.lines); i++ {
		line := l.lines[i]
		if line.IsSpacer() || line.IsFooter() {
			continue
		}
		costs = costs.Add(line.Value.Abs())
	}

	profit := revenue.Sub(costs)
	margin := decimal.Zero
	if !revenue.IsZero() {
		margin = profit.Div(revenue).Mul(hundred).Round(2)
	}

	for i := range l.lines {
		if l.lines[i].IsFooter() {
			l.lines[i].Value = profit
			l.lines[i].Percentage = margin
		}
	}
}

// setExtras replaces the Extras value and carries the delta into Revenue,
// preserving whatever baseline was already folded into it.
func (l *Ledger) setExtras(extras decimal.Decimal) {
	revenueIdx := l.indexOfKey(LineKeyRevenue)
	extrasIdx := l.indexOfKey(LineKeyExtras)
	if revenueIdx < 0 || extrasIdx < 0 {
		return
	}
	previous := l.lines[extrasIdx].Value
	l.lines[revenueIdx].Value = l.lines[revenueIdx].Value.Sub(previous).Add(extras)
	l.lines[extrasIdx].Value = extras
}

// ApplyFeed folds a fresh set of external aggregates into the ledger.
// Revenue moves by the difference against the totals folded last time,
// so re-applying unchanged aggregates is a no-op. Cost-center totals
// overwrite their lines; a bucket whose line was removed falls back to
// the Other line. Buckets that found no line at all are returned.
func (l *Ledger) ApplyFeed(agg FeedAggregates) []valueobject.CostCenter {
	fees := agg.FeeTotal.Abs()
	losses := agg.LossTotal.Abs()

	if idx := l.indexOfKey(LineKeyRevenue); idx >= 0 {
		l.lines[idx].Value = l.lines[idx].Value.
			Sub(l.feed.FeeTotal).
			Add(l.feed.LossTotal).
			Add(fees).
			Sub(losses)
		l.feed = FeedTotals{FeeTotal: fees, LossTotal: losses}
	}

	var unplaced []valueobject.CostCenter
	if agg.CostCenters != nil {
		targets := make(map[int]decimal.Decimal)
		otherIdx := l.indexOfKey(valueobject.CostCenterOther.LineKey())

		for _, center := range valueobject.CostCenters() {
			total := agg.CostCenters[center].Abs()
			idx := l.indexOfKey(center.LineKey())
			if idx < 0 {
				idx = otherIdx
			}
			if idx < 0 {
				if !total.IsZero() {
					unplaced = append(unplaced, center)
				}
				continue
			}
			targets[idx] = targets[idx].Add(total)
		}

		for idx, total := range targets {
			l.lines[idx].Value = total.Neg()
		}
	}

	l.reindex()
	l.Recompute()
	return unplaced
}
