// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"strconv"
	"time"

	"github.com/backoffice/statement/internal/domain/entity"
)

// SnapshotSummaryResponse represents a history entry without its lines.
// Ids are strings because they exceed the safe integer range of JavaScript.
type SnapshotSummaryResponse struct {
	ID     string         `json:"id"`
	Date   string         `json:"date"`
	Totals TotalsResponse `json:"totals"`
}

// SnapshotResponse represents a full history entry.
type SnapshotResponse struct {
	SnapshotSummaryResponse
	Lines []LineItemResponse `json:"lines"`
}

// SnapshotListResponse represents the history log.
type SnapshotListResponse struct {
	Snapshots []SnapshotSummaryResponse `json:"snapshots"`
}

// CaptureSnapshotResponse represents the outcome of a capture.
type CaptureSnapshotResponse struct {
	Message  string           `json:"message"`
	Snapshot SnapshotResponse `json:"snapshot"`
}

// RestoreSnapshotResponse represents the outcome of a restore.
type RestoreSnapshotResponse struct {
	Message string             `json:"message"`
	Lines   []LineItemResponse `json:"lines"`
	Totals  TotalsResponse     `json:"totals"`
}

// ToSnapshotSummaryResponse converts a snapshot to a SnapshotSummaryResponse DTO.
func ToSnapshotSummaryResponse(s *entity.HistorySnapshot) SnapshotSummaryResponse {
	return SnapshotSummaryResponse{
		ID:     strconv.FormatInt(s.ID, 10),
		Date:   s.Date.Format(time.RFC3339),
		Totals: ToTotalsResponse(s.Totals),
	}
}

// ToSnapshotResponse converts a snapshot to a SnapshotResponse DTO.
func ToSnapshotResponse(s *entity.HistorySnapshot) SnapshotResponse {
	return SnapshotResponse{
		SnapshotSummaryResponse: ToSnapshotSummaryResponse(s),
		Lines:                   ToLineItemResponses(s.Lines),
	}
}

// ToSnapshotListResponse converts snapshots to a SnapshotListResponse DTO.
func ToSnapshotListResponse(snapshots []*entity.HistorySnapshot) SnapshotListResponse {
	responses := make([]SnapshotSummaryResponse, len(snapshots))
	for i, s := range snapshots {
		responses[i] = ToSnapshotSummaryResponse(s)
	}
	return SnapshotListResponse{Snapshots: responses}
}
