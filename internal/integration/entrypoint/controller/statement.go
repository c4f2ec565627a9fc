// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/backoffice/statement/internal/application/usecase/feed"
	"github.com/backoffice/statement/internal/application/usecase/statement"
	"github.com/backoffice/statement/internal/domain/entity"
	domainerror "github.com/backoffice/statement/internal/domain/error"
	"github.com/backoffice/statement/internal/integration/entrypoint/dto"
)

// StatementController handles statement endpoints.
type StatementController struct {
	getUseCase             *statement.GetStatementUseCase
	editValueUseCase       *statement.EditLineValueUseCase
	editDescriptionUseCase *statement.EditLineDescriptionUseCase
	addItemUseCase         *statement.AddItemUseCase
	removeItemUseCase      *statement.RemoveItemUseCase
	getPendingUseCase      *statement.GetPendingEditUseCase
	confirmUseCase         *statement.ConfirmEditUseCase
	cancelUseCase          *statement.CancelEditUseCase
	refreshUseCase         *feed.RefreshAggregatesUseCase
	noticesUseCase         *feed.ListNoticesUseCase
}

// NewStatementController creates a new statement controller instance.
// refreshUseCase may be nil when no aggregate source is configured.
func NewStatementController(
	getUseCase *statement.GetStatementUseCase,
	editValueUseCase *statement.EditLineValueUseCase,
	editDescriptionUseCase *statement.EditLineDescriptionUseCase,
	addItemUseCase *statement.AddItemUseCase,
	removeItemUseCase *statement.RemoveItemUseCase,
	getPendingUseCase *statement.GetPendingEditUseCase,
	confirmUseCase *statement.ConfirmEditUseCase,
	cancelUseCase *statement.CancelEditUseCase,
	refreshUseCase *feed.RefreshAggregatesUseCase,
	noticesUseCase *feed.ListNoticesUseCase,
) *StatementController {
	return &StatementController{
		getUseCase:             getUseCase,
		editValueUseCase:       editValueUseCase,
		editDescriptionUseCase: editDescriptionUseCase,
		addItemUseCase:         addItemUseCase,
		removeItemUseCase:      removeItemUseCase,
		getPendingUseCase:      getPendingUseCase,
		confirmUseCase:         confirmUseCase,
		cancelUseCase:          cancelUseCase,
		refreshUseCase:         refreshUseCase,
		noticesUseCase:         noticesUseCase,
	}
}

// Get handles GET /statement requests.
func (c *StatementController) Get(ctx *gin.Context) {
	output, err := c.getUseCase.Execute(ctx.Request.Context())
	if err != nil {
		handleStatementError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.StatementResponse{
		Lines:       dto.ToLineItemResponses(output.Lines),
		Totals:      dto.ToTotalsResponse(output.Totals),
		FeedTotals:  dto.ToFeedTotalsResponse(output.FeedTotals),
		GateState:   string(output.GateState),
		PendingEdit: dto.ToPendingEditResponse(output.PendingEdit),
	})
}

// EditValue handles PATCH /statement/lines/:id/value requests.
// Protected lines answer 202 with the held edit.
func (c *StatementController) EditValue(ctx *gin.Context) {
	lineID, ok := parseLineID(ctx)
	if !ok {
		return
	}

	var req dto.EditValueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), domainerror.ErrCodeMissingFields)
		return
	}
	if !req.Value.IsSet() {
		badRequest(ctx, "Value is required", domainerror.ErrCodeMissingFields)
		return
	}

	output, err := c.editValueUseCase.Execute(ctx.Request.Context(), statement.EditLineValueInput{
		LineID: lineID,
		Value:  req.Value.Value(),
	})
	if err != nil {
		handleStatementError(ctx, err)
		return
	}

	if output.IsPending() {
		ctx.JSON(http.StatusAccepted, dto.EditResponse{
			Status:      "pending",
			Message:     output.Message,
			PendingEdit: dto.ToPendingEditResponse(output.PendingEdit),
		})
		return
	}

	line := dto.ToLineItemResponse(*output.Line)
	totals := dto.ToTotalsResponse(output.Totals)
	ctx.JSON(http.StatusOK, dto.EditResponse{
		Status:  "applied",
		Message: output.Message,
		Line:    &line,
		Totals:  &totals,
	})
}

// EditDescription handles PATCH /statement/lines/:id/description requests.
func (c *StatementController) EditDescription(ctx *gin.Context) {
	lineID, ok := parseLineID(ctx)
	if !ok {
		return
	}

	var req dto.EditDescriptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), domainerror.ErrCodeMissingFields)
		return
	}

	output, err := c.editDescriptionUseCase.Execute(ctx.Request.Context(), statement.EditLineDescriptionInput{
		LineID:      lineID,
		Description: req.Description,
	})
	if err != nil {
		handleStatementError(ctx, err)
		return
	}

	ctx.JSON(http.StatusAccepted, dto.EditResponse{
		Status:      "pending",
		Message:     output.Message,
		PendingEdit: dto.ToPendingEditResponse(output.PendingEdit),
	})
}

// AddItem handles POST /statement/lines requests.
func (c *StatementController) AddItem(ctx *gin.Context) {
	var req dto.AddItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), domainerror.ErrCodeMissingFields)
		return
	}

	output, err := c.addItemUseCase.Execute(ctx.Request.Context(), statement.AddItemInput{
		Category:    entity.LineCategory(strings.ToUpper(strings.TrimSpace(req.Category))),
		Description: req.Description,
		Value:       req.Value.Value(),
		Bold:        req.IsBold,
	})
	if err != nil {
		handleStatementError(ctx, err)
		return
	}

	line := dto.ToLineItemResponse(output.Line)
	totals := dto.ToTotalsResponse(output.Totals)
	ctx.JSON(http.StatusCreated, dto.EditResponse{
		Status:  "applied",
		Message: output.Message,
		Line:    &line,
		Totals:  &totals,
	})
}

// RemoveItem handles DELETE /statement/lines/:id requests.
func (c *StatementController) RemoveItem(ctx *gin.Context) {
	lineID, ok := parseLineID(ctx)
	if !ok {
		return
	}

	output, err := c.removeItemUseCase.Execute(ctx.Request.Context(), statement.RemoveItemInput{LineID: lineID})
	if err != nil {
		handleStatementError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RemoveItemResponse{
		Message: output.Message,
		Removed: dto.ToLineItemResponse(output.Removed),
		Totals:  dto.ToTotalsResponse(output.Totals),
	})
}

// GetPendingEdit handles GET /statement/pending-edit requests.
func (c *StatementController) GetPendingEdit(ctx *gin.Context) {
	output, err := c.getPendingUseCase.Execute(ctx.Request.Context())
	if err != nil {
		handleStatementError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.GateStatusResponse{
		State:       string(output.State),
		PendingEdit: dto.ToPendingEditResponse(output.PendingEdit),
	})
}

// ConfirmEdit handles POST /statement/pending-edit/:id/confirm requests.
func (c *StatementController) ConfirmEdit(ctx *gin.Context) {
	editID, ok := parseEditID(ctx)
	if !ok {
		return
	}

	var req dto.ConfirmEditRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), domainerror.ErrCodeMissingFields)
		return
	}

	output, err := c.confirmUseCase.Execute(ctx.Request.Context(), statement.ConfirmEditInput{
		EditID:     editID,
		Credential: req.Credential,
	})
	if err != nil {
		handleStatementError(ctx, err)
		return
	}

	line := dto.ToLineItemResponse(output.Line)
	totals := dto.ToTotalsResponse(output.Totals)
	ctx.JSON(http.StatusOK, dto.EditResponse{
		Status:  "applied",
		Message: output.Message,
		Line:    &line,
		Totals:  &totals,
	})
}

// CancelEdit handles DELETE /statement/pending-edit/:id requests.
func (c *StatementController) CancelEdit(ctx *gin.Context) {
	editID, ok := parseEditID(ctx)
	if !ok {
		return
	}

	output, err := c.cancelUseCase.Execute(ctx.Request.Context(), statement.CancelEditInput{EditID: editID})
	if err != nil {
		handleStatementError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: output.Message})
}

// Refresh handles POST /statement/refresh requests.
func (c *StatementController) Refresh(ctx *gin.Context) {
	if c.refreshUseCase == nil {
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error: "Aggregate feed is not configured",
			Code:  string(domainerror.ErrCodeFeedUnavailable),
		})
		return
	}

	output, err := c.refreshUseCase.Execute(ctx.Request.Context())
	if err != nil {
		handleStatementError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RefreshResponse{
		Message:     output.Message,
		FeeTotal:    output.FeeTotal,
		LossTotal:   output.LossTotal,
		CostCenters: dto.ToCostCenterTotals(output.CostCenters),
		Totals:      dto.ToTotalsResponse(output.Totals),
	})
}

// Notices handles GET /statement/notices requests.
func (c *StatementController) Notices(ctx *gin.Context) {
	input := feed.ListNoticesInput{}
	if raw := ctx.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(ctx, "Invalid limit", domainerror.ErrCodeMissingFields)
			return
		}
		input.Limit = limit
	}

	output, err := c.noticesUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleStatementError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToNoticeListResponse(output.Notices))
}

func parseEditID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{
			Error: "No pending edit with this ID",
			Code:  string(domainerror.ErrCodeNoPendingEdit),
		})
		return uuid.Nil, false
	}
	return id, true
}
