// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice/statement/internal/domain/entity"
	"github.com/backoffice/statement/internal/domain/valueobject"
)

// EditValueRequest represents the request body for editing a line value.
type EditValueRequest struct {
	Value RawAmount `json:"value"`
}

// EditDescriptionRequest represents the request body for editing a line description.
type EditDescriptionRequest struct {
	Description string `json:"description" binding:"required"`
}

// AddItemRequest represents the request body for adding an item.
type AddItemRequest struct {
	Category    string    `json:"category" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Value       RawAmount `json:"value"`
	IsBold      bool      `json:"isBold"`
}

// ConfirmEditRequest represents the request body for confirming a held edit.
type ConfirmEditRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// LineItemResponse represents a statement line in API responses.
type LineItemResponse struct {
	ID             int              `json:"id"`
	Key            string           `json:"key,omitempty"`
	Type           string           `json:"type"`
	Description    string           `json:"description"`
	Value          decimal.Decimal  `json:"value"`
	ValueFormatted string           `json:"valueFormatted"`
	Editable       bool             `json:"editable"`
	Category       string           `json:"category,omitempty"`
	IsBold         bool             `json:"isBold"`
	Percentage     *decimal.Decimal `json:"percentage,omitempty"`
}

// TotalsResponse represents the statement totals in API responses.
type TotalsResponse struct {
	Revenue          decimal.Decimal `json:"revenue"`
	Closing          decimal.Decimal `json:"closing"`
	Reserve          decimal.Decimal `json:"reserve"`
	Profit           decimal.Decimal `json:"profit"`
	Margin           decimal.Decimal `json:"margin"`
	RevenueFormatted string          `json:"revenueFormatted"`
	ClosingFormatted string          `json:"closingFormatted"`
	ReserveFormatted string          `json:"reserveFormatted"`
	ProfitFormatted  string          `json:"profitFormatted"`
}

// FeedTotalsResponse represents the revenue aggregates last applied by the feed.
type FeedTotalsResponse struct {
	FeeTotal  decimal.Decimal `json:"feeTotal"`
	LossTotal decimal.Decimal `json:"lossTotal"`
}

// PendingEditResponse represents a held protected edit.
type PendingEditResponse struct {
	ID          string           `json:"id"`
	LineID      int              `json:"lineId"`
	Field       string           `json:"field"`
	Value       *decimal.Decimal `json:"value,omitempty"`
	Description string           `json:"description,omitempty"`
	RequestedBy string           `json:"requestedBy,omitempty"`
	RequestedAt string           `json:"requestedAt"`
	ExpiresAt   string           `json:"expiresAt"`
}

// StatementResponse represents the full statement.
type StatementResponse struct {
	Lines       []LineItemResponse   `json:"lines"`
	Totals      TotalsResponse       `json:"totals"`
	FeedTotals  FeedTotalsResponse   `json:"feedTotals"`
	GateState   string               `json:"gateState"`
	PendingEdit *PendingEditResponse `json:"pendingEdit,omitempty"`
}

// EditResponse represents the outcome of an edit: applied or held.
type EditResponse struct {
	Status      string               `json:"status"`
	Message     string               `json:"message"`
	Line        *LineItemResponse    `json:"line,omitempty"`
	PendingEdit *PendingEditResponse `json:"pendingEdit,omitempty"`
	Totals      *TotalsResponse      `json:"totals,omitempty"`
}

// RemoveItemResponse represents the outcome of a removal.
type RemoveItemResponse struct {
	Message string           `json:"message"`
	Removed LineItemResponse `json:"removed"`
	Totals  TotalsResponse   `json:"totals"`
}

// GateStatusResponse represents the state of the edit gate.
type GateStatusResponse struct {
	State       string               `json:"state"`
	PendingEdit *PendingEditResponse `json:"pendingEdit,omitempty"`
}

// RefreshResponse represents the outcome of a manual feed refresh.
type RefreshResponse struct {
	Message     string                     `json:"message"`
	FeeTotal    decimal.Decimal            `json:"feeTotal"`
	LossTotal   decimal.Decimal            `json:"lossTotal"`
	CostCenters map[string]decimal.Decimal `json:"costCenters"`
	Totals      TotalsResponse             `json:"totals"`
}

// NoticeResponse represents a user notice.
type NoticeResponse struct {
	ID        string `json:"id"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

// NoticeListResponse represents the notice inbox.
type NoticeListResponse struct {
	Notices []NoticeResponse `json:"notices"`
}

// ToLineItemResponse converts a domain LineItem to a LineItemResponse DTO.
func ToLineItemResponse(line entity.LineItem) LineItemResponse {
	resp := LineItemResponse{
		ID:             line.ID,
		Key:            line.Key,
		Type:           string(line.Kind),
		Description:    line.Description,
		Value:          line.Value,
		ValueFormatted: FormatBRL(line.Value),
		Editable:       line.Editable,
		Category:       string(line.Category),
		IsBold:         line.Bold,
	}
	if line.IsFooter() {
		percentage := line.Percentage
		resp.Percentage = &percentage
	}
	if line.IsSpacer() {
		resp.ValueFormatted = ""
	}
	return resp
}

// ToLineItemResponses converts domain lines to LineItemResponse DTOs.
func ToLineItemResponses(lines []entity.LineItem) []LineItemResponse {
	responses := make([]LineItemResponse, len(lines))
	for i, line := range lines {
		responses[i] = ToLineItemResponse(line)
	}
	return responses
}

// ToTotalsResponse converts domain totals to a TotalsResponse DTO.
func ToTotalsResponse(totals entity.StatementTotals) TotalsResponse {
	return TotalsResponse{
		Revenue:          totals.Revenue,
		Closing:          totals.Closing,
		Reserve:          totals.Reserve,
		Profit:           totals.Profit,
		Margin:           totals.Margin,
		RevenueFormatted: FormatBRL(totals.Revenue),
		ClosingFormatted: FormatBRL(totals.Closing),
		ReserveFormatted: FormatBRL(totals.Reserve),
		ProfitFormatted:  FormatBRL(totals.Profit),
	}
}

// ToFeedTotalsResponse converts domain feed totals to a FeedTotalsResponse DTO.
func ToFeedTotalsResponse(totals entity.FeedTotals) FeedTotalsResponse {
	return FeedTotalsResponse{
		FeeTotal:  totals.FeeTotal,
		LossTotal: totals.LossTotal,
	}
}

// ToPendingEditResponse converts a held edit to a PendingEditResponse DTO.
func ToPendingEditResponse(edit *entity.PendingEdit) *PendingEditResponse {
	if edit == nil {
		return nil
	}
	resp := &PendingEditResponse{
		ID:          edit.ID.String(),
		LineID:      edit.LineID,
		Field:       string(edit.Field),
		RequestedBy: edit.RequestedBy.Email,
		RequestedAt: edit.RequestedAt.Format(time.RFC3339),
		ExpiresAt:   edit.ExpiresAt.Format(time.RFC3339),
	}
	if edit.Field == entity.EditFieldValue {
		value := edit.Value
		resp.Value = &value
	} else {
		resp.Description = edit.Description
	}
	return resp
}

// ToCostCenterTotals converts cost-center totals to a string-keyed map.
func ToCostCenterTotals(totals map[valueobject.CostCenter]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(totals))
	for center, total := range totals {
		out[string(center)] = total
	}
	return out
}

// ToNoticeListResponse converts notices to a NoticeListResponse DTO.
func ToNoticeListResponse(notices []*entity.Notice) NoticeListResponse {
	responses := make([]NoticeResponse, len(notices))
	for i, n := range notices {
		responses[i] = NoticeResponse{
			ID:        n.ID.String(),
			Level:     string(n.Level),
			Message:   n.Message,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
	}
	return NoticeListResponse{Notices: responses}
}
