// Package entity defines the core business entities for the domain layer.
package entity

import (
	"github.com/shopspring/decimal"
)

// LineKind represents the structural role of a statement line.
type LineKind string

const (
	LineKindHeader LineKind = "header"
	LineKindItem   LineKind = "item"
	LineKindFooter LineKind = "footer"
	LineKindSpacer LineKind = "spacer"
)

// LineCategory represents the statement block a line belongs to.
type LineCategory string

const (
	CategoryRevenue LineCategory = "REVENUE"
	CategoryClosing LineCategory = "CLOSING"
	CategoryReserve LineCategory = "RESERVE"
	CategoryNone    LineCategory = ""
)

// Well-known line keys. Keys are stable across description edits and
// are how the engine addresses the lines it computes or feeds.
const (
	LineKeyRevenue       = "revenue"
	LineKeyExtras        = "extras"
	LineKeyProfit        = "profit"
	LineKeyClosingHeader = "header:closing"
	LineKeyReserveHeader = "header:reserve"
)

// LineItem represents one row of the financial statement.
type LineItem struct {
	ID          int
	Key         string
	Kind        LineKind
	Description string
	Value       decimal.Decimal
	Editable    bool
	Category    LineCategory
	Bold        bool
	Percentage  decimal.Decimal
}

// LinePatch describes a partial update of a line. Nil fields are left untouched.
type LinePatch struct {
	Description *string
	Value       *decimal.Decimal
}

// IsSpacer reports whether the line is a visual separator.
func (l LineItem) IsSpacer() bool {
	return l.Kind == LineKindSpacer
}

// IsFooter reports whether the line is the computed profit line.
func (l LineItem) IsFooter() bool {
	return l.Kind == LineKindFooter
}

// IsRemovable reports whether a user may delete the line.
func (l LineItem) IsRemovable() bool {
	return l.Kind == LineKindItem && l.Key != LineKeyExtras
}

// IsValidCategory reports whether c names one of the statement blocks.
func IsValidCategory(c LineCategory) bool {
	return c == CategoryRevenue || c == CategoryClosing || c == CategoryReserve
}
