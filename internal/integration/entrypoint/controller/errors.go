package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainerror "github.com/backoffice/statement/internal/domain/error"
	"github.com/backoffice/statement/internal/integration/entrypoint/dto"
)

// handleStatementError handles statement errors and returns appropriate HTTP responses.
func handleStatementError(ctx *gin.Context, err error) {
	var stmErr *domainerror.StatementError
	if errors.As(err, &stmErr) {
		statusCode := getStatusCodeForStatementError(stmErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: stmErr.Message,
			Code:  string(stmErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForStatementError maps statement error codes to HTTP status codes.
func getStatusCodeForStatementError(code domainerror.StatementErrorCode) int {
	switch code {
	case domainerror.ErrCodeLineNotFound, domainerror.ErrCodeSnapshotNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeLineNotRemovable, domainerror.ErrCodeInvalidCredential:
		return http.StatusForbidden
	case domainerror.ErrCodeNoPendingEdit:
		return http.StatusConflict
	case domainerror.ErrCodePendingEditExpired:
		return http.StatusGone
	case domainerror.ErrCodeMalformedLedger:
		return http.StatusUnprocessableEntity
	case domainerror.ErrCodeLineNotEditable,
		domainerror.ErrCodeEmptyDescription,
		domainerror.ErrCodeInvalidCategory,
		domainerror.ErrCodeMissingFields,
		domainerror.ErrCodeInvalidLineID,
		domainerror.ErrCodeInvalidSnapshotID:
		return http.StatusBadRequest
	case domainerror.ErrCodeFeedUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// badRequest writes a 400 response with the given statement error code.
func badRequest(ctx *gin.Context, message string, code domainerror.StatementErrorCode) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: message,
		Code:  string(code),
	})
}

// parseLineID reads the :id path parameter as a line id.
func parseLineID(ctx *gin.Context) (int, bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		badRequest(ctx, "Invalid line ID", domainerror.ErrCodeInvalidLineID)
		return 0, false
	}
	return id, true
}
