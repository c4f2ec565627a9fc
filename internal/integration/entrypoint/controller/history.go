// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/backoffice/statement/internal/application/usecase/history"
	domainerror "github.com/backoffice/statement/internal/domain/error"
	"github.com/backoffice/statement/internal/integration/entrypoint/dto"
)

// HistoryController handles snapshot history endpoints.
type HistoryController struct {
	captureUseCase *history.CaptureSnapshotUseCase
	listUseCase    *history.ListSnapshotsUseCase
	getUseCase     *history.GetSnapshotUseCase
	restoreUseCase *history.RestoreSnapshotUseCase
	deleteUseCase  *history.DeleteSnapshotUseCase
}

// NewHistoryController creates a new history controller instance.
func NewHistoryController(
	captureUseCase *history.CaptureSnapshotUseCase,
	listUseCase *history.ListSnapshotsUseCase,
	getUseCase *history.GetSnapshotUseCase,
	restoreUseCase *history.RestoreSnapshotUseCase,
	deleteUseCase *history.DeleteSnapshotUseCase,
) *HistoryController {
	return &HistoryController{
		captureUseCase: captureUseCase,
		listUseCase:    listUseCase,
		getUseCase:     getUseCase,
		restoreUseCase: restoreUseCase,
		deleteUseCase:  deleteUseCase,
	}
}

// Capture handles POST /statement/history requests.
func (c *HistoryController) Capture(ctx *gin.Context) {
	output, err := c.captureUseCase.Execute(ctx.Request.Context())
	if err != nil {
		handleStatementError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CaptureSnapshotResponse{
		Message:  output.Message,
		Snapshot: dto.ToSnapshotResponse(output.Snapshot),
	})
}

// List handles GET /statement/history requests.
func (c *HistoryController) List(ctx *gin.Context) {
	output, err := c.listUseCase.Execute(ctx.Request.Context())
	if err != nil {
		handleStatementError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSnapshotListResponse(output.Snapshots))
}

// Get handles GET /statement/history/:id requests.
func (c *HistoryController) Get(ctx *gin.Context) {
	id, ok := parseSnapshotID(ctx)
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), history.GetSnapshotInput{ID: id})
	if err != nil {
		handleStatementError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSnapshotResponse(output.Snapshot))
}

// Restore handles POST /statement/history/:id/restore requests.
func (c *HistoryController) Restore(ctx *gin.Context) {
	id, ok := parseSnapshotID(ctx)
	if !ok {
		return
	}

	output, err := c.restoreUseCase.Execute(ctx.Request.Context(), history.RestoreSnapshotInput{ID: id})
	if err != nil {
		handleStatementError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RestoreSnapshotResponse{
		Message: output.Message,
		Lines:   dto.ToLineItemResponses(output.Lines),
		Totals:  dto.ToTotalsResponse(output.Totals),
	})
}

// Delete handles DELETE /statement/history/:id requests.
func (c *HistoryController) Delete(ctx *gin.Context) {
	id, ok := parseSnapshotID(ctx)
	if !ok {
		return
	}

	if _, err := c.deleteUseCase.Execute(ctx.Request.Context(), history.DeleteSnapshotInput{ID: id}); err != nil {
		handleStatementError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func parseSnapshotID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		badRequest(ctx, "Invalid snapshot ID", domainerror.ErrCodeInvalidSnapshotID)
		return 0, false
	}
	return id, true
}
