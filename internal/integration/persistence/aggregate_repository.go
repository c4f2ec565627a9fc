// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"github.com/backoffice/statement/internal/application/adapter"
	"github.com/backoffice/statement/internal/integration/persistence/model"
)

// aggregateRepository implements the adapter.AggregateSource interface over
// the collaborator tables. It only reads.
type aggregateRepository struct {
	db *gorm.DB
}

// NewAggregateRepository creates a new aggregate repository instance.
func NewAggregateRepository(db *gorm.DB) adapter.AggregateSource {
	return &aggregateRepository{
		db: db,
	}
}

// ApprovedProposalFees returns the raw fee amounts of approved proposals starting on or after cutoff.
func (r *aggregateRepository) ApprovedProposalFees(ctx context.Context, cutoff time.Time) ([]string, error) {
	var fees []sql.NullString
	result := r.db.WithContext(ctx).
		Model(&model.ProposalModel{}).
		Where("status = ? AND start_date >= ?", model.ProposalStatusApproved, cutoff).
		Pluck("fee", &fees)
	if result.Error != nil {
		return nil, result.Error
	}
	return nonNull(fees), nil
}

// ExitProposalLosses returns the raw loss amounts of exit proposals with a baseline on or after cutoff.
func (r *aggregateRepository) ExitProposalLosses(ctx context.Context, cutoff time.Time) ([]string, error) {
	var losses []sql.NullString
	result := r.db.WithContext(ctx).
		Model(&model.ExitProposalModel{}).
		Where("baseline_date >= ?", cutoff).
		Pluck("loss_value", &losses)
	if result.Error != nil {
		return nil, result.Error
	}
	return nonNull(losses), nil
}

// CostEntries returns every raw cost row.
func (r *aggregateRepository) CostEntries(ctx context.Context) ([]adapter.CostRecord, error) {
	var entries []model.CostEntryModel
	result := r.db.WithContext(ctx).
		Select("cost_center", "amount").
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	records := make([]adapter.CostRecord, len(entries))
	for i, e := range entries {
		records[i] = adapter.CostRecord{
			CostCenter: deref(e.CostCenter),
			Amount:     deref(e.Amount),
		}
	}
	return records, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonNull(values []sql.NullString) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v.Valid {
			out = append(out, v.String)
		}
	}
	return out
}
