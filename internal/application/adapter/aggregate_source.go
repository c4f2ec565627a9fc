// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"
)

// CostRecord is one raw cost row read from the collaborator data store.
// Amount is kept as stored; normalization happens in the use case.
type CostRecord struct {
	CostCenter string
	Amount     string
}

// AggregateSource defines the read-only queries the aggregate feed runs.
type AggregateSource interface {
	// ApprovedProposalFees returns the raw fee amounts of approved proposals starting on or after cutoff.
	ApprovedProposalFees(ctx context.Context, cutoff time.Time) ([]string, error)

	// ExitProposalLosses returns the raw loss amounts of exit proposals with a baseline on or after cutoff.
	ExitProposalLosses(ctx context.Context, cutoff time.Time) ([]string, error)

	// CostEntries returns every raw cost row.
	CostEntries(ctx context.Context) ([]CostRecord, error)
}

// ChangeNotifier delivers a signal whenever the collaborator data changes.
type ChangeNotifier interface {
	// Subscribe returns a channel that receives one value per change.
	// The channel is closed once ctx is done.
	Subscribe(ctx context.Context) (<-chan struct{}, error)
}
