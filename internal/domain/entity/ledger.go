package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	domainerror "github.com/backoffice/statement/internal/domain/error"
)

// FeedTotals are the revenue aggregates last folded into the Revenue line.
type FeedTotals struct {
	FeeTotal  decimal.Decimal
	LossTotal decimal.Decimal
}

// StatementTotals are the computed totals of a ledger state.
type StatementTotals struct {
	Revenue decimal.Decimal
	Closing decimal.Decimal
	Reserve decimal.Decimal
	Profit  decimal.Decimal
	Margin  decimal.Decimal
}

// Ledger is the ordered set of statement lines. Every mutating method
// re-issues dense ids and ends with Recompute, so callers always observe
// a state that satisfies the statement invariants.
type Ledger struct {
	lines []LineItem
	feed  FeedTotals
}

// NewLedger builds a ledger from persisted lines and feed totals.
func NewLedger(lines []LineItem, feed FeedTotals) (*Ledger, error) {
	l := &Ledger{feed: feed}
	if err := l.ReplaceAll(lines); err != nil {
		return nil, err
	}
	return l, nil
}

// NewSeedLedger builds a ledger from the fixed seed template.
func NewSeedLedger() *Ledger {
	l := &Ledger{lines: SeedLines()}
	l.reindex()
	l.Recompute()
	return l
}

// Lines returns a copy of the current lines in display order.
func (l *Ledger) Lines() []LineItem {
	return cloneLines(l.lines)
}

// FeedTotals returns the revenue aggregates last applied by the feed.
func (l *Ledger) FeedTotals() FeedTotals {
	return l.feed
}

// SetFeedTotals overrides the feed bookkeeping, used when restoring a snapshot.
func (l *Ledger) SetFeedTotals(feed FeedTotals) {
	l.feed = feed
}

// Line returns the line with the given id.
func (l *Ledger) Line(id int) (LineItem, bool) {
	idx := l.indexOf(id)
	if idx < 0 {
		return LineItem{}, false
	}
	return l.lines[idx], true
}

// LineByKey returns the line carrying the given key.
func (l *Ledger) LineByKey(key string) (LineItem, bool) {
	idx := l.indexOfKey(key)
	if idx < 0 {
		return LineItem{}, false
	}
	return l.lines[idx], true
}

// ReplaceAll swaps the whole line set after validating its structure.
func (l *Ledger) ReplaceAll(lines []LineItem) error {
	if err := validateStructure(lines); err != nil {
		return err
	}
	l.lines = cloneLines(lines)
	l.reindex()
	l.Recompute()
	return nil
}

// Upsert applies a patch to an existing line. Value changes on Extras
// cascade into Revenue; the profit footer only accepts description patches.
func (l *Ledger) Upsert(id int, patch LinePatch) error {
	idx := l.indexOf(id)
	if idx < 0 {
		return domainerror.ErrLineNotFound
	}
	line := l.lines[idx]

	if line.IsSpacer() {
		return domainerror.ErrLineNotEditable
	}
	if patch.Value != nil && (line.IsFooter() || !line.Editable) {
		return domainerror.ErrLineNotEditable
	}

	if patch.Description != nil {
		desc := strings.TrimSpace(*patch.Description)
		if desc == "" {
			return domainerror.ErrEmptyDescription
		}
		l.lines[idx].Description = desc
	}

	if patch.Value != nil {
		switch line.Key {
		case LineKeyExtras:
			l.setExtras(patch.Value.Abs())
		case LineKeyRevenue:
			l.lines[idx].Value = patch.Value.Abs()
		default:
			l.lines[idx].Value = patch.Value.Abs().Neg()
		}
	}

	l.reindex()
	l.Recompute()
	return nil
}

// Insert appends a new item at the end of the given category block and
// returns it with its assigned id.
func (l *Ledger) Insert(category LineCategory, item LineItem) (LineItem, error) {
	if category != CategoryClosing && category != CategoryReserve {
		return LineItem{}, domainerror.ErrInvalidCategory
	}
	desc := strings.TrimSpace(item.Description)
	if desc == "" {
		return LineItem{}, domainerror.ErrEmptyDescription
	}

	last := -1
	for i, line := range l.lines {
		if line.Category == category {
			last = i
		}
	}
	if last < 0 {
		return LineItem{}, domainerror.ErrInvalidCategory
	}

	newLine := LineItem{
		Kind:        LineKindItem,
		Description: desc,
		Value:       item.Value.Abs().Neg(),
		Editable:    true,
		Category:    category,
		Bold:        item.Bold,
	}

	pos := last + 1
	l.lines = append(l.lines, LineItem{})
	copy(l.lines[pos+1:], l.lines[pos:])
	l.lines[pos] = newLine

	l.reindex()
	l.Recompute()
	return l.lines[pos], nil
}

// Remove deletes a user item. Headers, spacers, the footer and the Extras
// line are structural and cannot be removed.
func (l *Ledger) Remove(id int) (LineItem, error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return LineItem{}, domainerror.ErrLineNotFound
	}
	removed := l.lines[idx]
	if !removed.IsRemovable() {
		return LineItem{}, domainerror.ErrLineNotRemovable
	}

	l.lines = append(l.lines[:idx], l.lines[idx+1:]...)
	l.reindex()
	l.Recompute()
	return removed, nil
}

// Totals returns the category subtotals and profit of the current state.
func (l *Ledger) Totals() StatementTotals {
	totals := StatementTotals{
		Revenue: decimal.Zero,
		Closing: decimal.Zero,
		Reserve: decimal.Zero,
		Profit:  decimal.Zero,
		Margin:  decimal.Zero,
	}
	for _, line := range l.lines {
		switch {
		case line.Key == LineKeyRevenue:
			totals.Revenue = line.Value
		case line.IsFooter():
			totals.Profit = line.Value
			totals.Margin = line.Percentage
		case line.Category == CategoryClosing:
			totals.Closing = totals.Closing.Add(line.Value)
		case line.Category == CategoryReserve:
			totals.Reserve = totals.Reserve.Add(line.Value)
		}
	}
	return totals
}

func (l *Ledger) reindex() {
	for i := range l.lines {
		l.lines[i].ID = i + 1
	}
}

func (l *Ledger) indexOf(id int) int {
	for i, line := range l.lines {
		if line.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) indexOfKey(key string) int {
	if key == "" {
		return -1
	}
	for i, line := range l.lines {
		if line.Key == key {
			return i
		}
	}
	return -1
}

func validateStructure(lines []LineItem) error {
	footers, revenue, extras := 0, -1, -1
	for i, line := range lines {
		switch line.Kind {
		case LineKindHeader, LineKindItem, LineKindSpacer:
		case LineKindFooter:
			footers++
		default:
			return fmt.Errorf("%w: unknown kind %q", domainerror.ErrMalformedLedger, line.Kind)
		}
		switch line.Key {
		case LineKeyRevenue:
			if revenue >= 0 {
				return fmt.Errorf("%w: duplicate revenue line", domainerror.ErrMalformedLedger)
			}
			revenue = i
		case LineKeyExtras:
			if extras >= 0 {
				return fmt.Errorf("%w: duplicate extras line", domainerror.ErrMalformedLedger)
			}
			extras = i
		}
	}
	if footers != 1 {
		return fmt.Errorf("%w: expected exactly one footer, found %d", domainerror.ErrMalformedLedger, footers)
	}
	if revenue < 0 || extras < 0 || extras < revenue {
		return fmt.Errorf("%w: revenue and extras lines are required in that order", domainerror.ErrMalformedLedger)
	}
	return nil
}

func cloneLines(lines []LineItem) []LineItem {
	out := make([]LineItem, len(lines))
	copy(out, lines)
	return out
}
