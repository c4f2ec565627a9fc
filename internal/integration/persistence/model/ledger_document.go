// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice/statement/internal/domain/entity"
)

// LineItemDocument is the stored JSON form of a statement line.
type LineItemDocument struct {
	ID          int             `json:"id"`
	Key         string          `json:"key,omitempty"`
	Kind        string          `json:"type"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	Editable    bool            `json:"editable"`
	Category    string          `json:"category,omitempty"`
	Bold        bool            `json:"isBold,omitempty"`
	Percentage  decimal.Decimal `json:"percentage"`
}

// FeedTotalsDocument is the stored JSON form of the last applied feed totals.
type FeedTotalsDocument struct {
	FeeTotal  decimal.Decimal `json:"feeTotal"`
	LossTotal decimal.Decimal `json:"lossTotal"`
}

// HistorySnapshotDocument is the stored JSON form of a history entry.
type HistorySnapshotDocument struct {
	ID           int64              `json:"id"`
	Date         time.Time          `json:"date"`
	Lines        []LineItemDocument `json:"lines"`
	RevenueTotal decimal.Decimal    `json:"revenueTotal"`
	ClosingTotal decimal.Decimal    `json:"closingTotal"`
	ReserveTotal decimal.Decimal    `json:"reserveTotal"`
	Profit       decimal.Decimal    `json:"profit"`
	Margin       decimal.Decimal    `json:"margin"`
	FeedTotals   FeedTotalsDocument `json:"feedTotals"`
}

// ToEntity converts a LineItemDocument to a domain LineItem.
func (d LineItemDocument) ToEntity() entity.LineItem {
	return entity.LineItem{
		ID:          d.ID,
		Key:         d.Key,
		Kind:        entity.LineKind(d.Kind),
		Description: d.Description,
		Value:       d.Value,
		Editable:    d.Editable,
		Category:    entity.LineCategory(d.Category),
		Bold:        d.Bold,
		Percentage:  d.Percentage,
	}
}

// LineItemFromEntity creates a LineItemDocument from a domain LineItem.
func LineItemFromEntity(line entity.LineItem) LineItemDocument {
	return LineItemDocument{
		ID:          line.ID,
		Key:         line.Key,
		Kind:        string(line.Kind),
		Description: line.Description,
		Value:       line.Value,
		Editable:    line.Editable,
		Category:    string(line.Category),
		Bold:        line.Bold,
		Percentage:  line.Percentage,
	}
}

// LinesToEntity converts stored lines to domain lines.
func LinesToEntity(docs []LineItemDocument) []entity.LineItem {
	lines := make([]entity.LineItem, len(docs))
	for i, d := range docs {
		lines[i] = d.ToEntity()
	}
	return lines
}

// LinesFromEntity converts domain lines to stored lines.
func LinesFromEntity(lines []entity.LineItem) []LineItemDocument {
	docs := make([]LineItemDocument, len(lines))
	for i, line := range lines {
		docs[i] = LineItemFromEntity(line)
	}
	return docs
}

// ToEntity converts a FeedTotalsDocument to domain feed totals.
func (d FeedTotalsDocument) ToEntity() entity.FeedTotals {
	return entity.FeedTotals{
		FeeTotal:  d.FeeTotal,
		LossTotal: d.LossTotal,
	}
}

// FeedTotalsFromEntity creates a FeedTotalsDocument from domain feed totals.
func FeedTotalsFromEntity(totals entity.FeedTotals) FeedTotalsDocument {
	return FeedTotalsDocument{
		FeeTotal:  totals.FeeTotal,
		LossTotal: totals.LossTotal,
	}
}

// ToEntity converts a HistorySnapshotDocument to a domain HistorySnapshot.
func (d HistorySnapshotDocument) ToEntity() *entity.HistorySnapshot {
	return &entity.HistorySnapshot{
		ID:    d.ID,
		Date:  d.Date,
		Lines: LinesToEntity(d.Lines),
		Totals: entity.StatementTotals{
			Revenue: d.RevenueTotal,
			Closing: d.ClosingTotal,
			Reserve: d.ReserveTotal,
			Profit:  d.Profit,
			Margin:  d.Margin,
		},
		FeedTotals: d.FeedTotals.ToEntity(),
	}
}

// HistorySnapshotFromEntity creates a HistorySnapshotDocument from a domain HistorySnapshot.
func HistorySnapshotFromEntity(snapshot *entity.HistorySnapshot) HistorySnapshotDocument {
	return HistorySnapshotDocument{
		ID:           snapshot.ID,
		Date:         snapshot.Date,
		Lines:        LinesFromEntity(snapshot.Lines),
		RevenueTotal: snapshot.Totals.Revenue,
		ClosingTotal: snapshot.Totals.Closing,
		ReserveTotal: snapshot.Totals.Reserve,
		Profit:       snapshot.Totals.Profit,
		Margin:       snapshot.Totals.Margin,
		FeedTotals:   FeedTotalsFromEntity(snapshot.FeedTotals),
	}
}
