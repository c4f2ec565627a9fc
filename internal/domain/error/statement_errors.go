// Package error defines domain-specific errors for the statement engine.
package error

import "errors"

// Statement domain errors.
var (
	// ErrLineNotFound is returned when no line carries the requested id.
	ErrLineNotFound = errors.New("line not found")

	// ErrLineNotRemovable is returned when removing a header, spacer or footer line.
	ErrLineNotRemovable = errors.New("operation not permitted")

	// ErrLineNotEditable is returned when editing the value of a line that is not editable.
	ErrLineNotEditable = errors.New("line is not editable")

	// ErrEmptyDescription is returned when a description is blank.
	ErrEmptyDescription = errors.New("description is required")

	// ErrInvalidCategory is returned when an item targets an unknown or closed category.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrMalformedLedger is returned when a replacement line set breaks the structural invariants.
	ErrMalformedLedger = errors.New("malformed ledger")
)

// Edit gate errors.
var (
	// ErrNoPendingEdit is returned when confirming or cancelling an edit that is not pending.
	ErrNoPendingEdit = errors.New("no pending edit")

	// ErrPendingEditExpired is returned when the pending edit outlived its confirmation window.
	ErrPendingEditExpired = errors.New("pending edit expired")

	// ErrInvalidCredential is returned when the confirmation credential does not match.
	ErrInvalidCredential = errors.New("invalid credential")
)

// History errors.
var (
	// ErrSnapshotNotFound is returned when a snapshot id is unknown.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// Feed errors.
var (
	// ErrFeedUnavailable is returned when the aggregate source cannot be read.
	ErrFeedUnavailable = errors.New("aggregate feed unavailable")
)

// StatementErrorCode defines error codes for statement errors.
// Format: STM-XXYYYY where XX is category and YYYY is specific error.
type StatementErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeLineNotFound     StatementErrorCode = "STM-010001"
	ErrCodeLineNotRemovable StatementErrorCode = "STM-010002"
	ErrCodeLineNotEditable  StatementErrorCode = "STM-010003"
	ErrCodeEmptyDescription StatementErrorCode = "STM-010004"
	ErrCodeInvalidCategory  StatementErrorCode = "STM-010005"
	ErrCodeMalformedLedger  StatementErrorCode = "STM-010006"
	ErrCodeMissingFields    StatementErrorCode = "STM-010007"
	ErrCodeInvalidLineID    StatementErrorCode = "STM-010008"

	// Gate errors (02XXXX)
	ErrCodeNoPendingEdit      StatementErrorCode = "STM-020001"
	ErrCodePendingEditExpired StatementErrorCode = "STM-020002"
	ErrCodeInvalidCredential  StatementErrorCode = "STM-020003"

	// History errors (03XXXX)
	ErrCodeSnapshotNotFound  StatementErrorCode = "STM-030001"
	ErrCodeInvalidSnapshotID StatementErrorCode = "STM-030002"

	// Feed errors (04XXXX)
	ErrCodeFeedUnavailable StatementErrorCode = "STM-040001"
)

// StatementError represents a statement error with code and message.
type StatementError struct {
	Code    StatementErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *StatementError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *StatementError) Unwrap() error {
	return e.Err
}

// NewStatementError creates a new StatementError with the given code and message.
func NewStatementError(code StatementErrorCode, message string, err error) *StatementError {
	return &StatementError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// codeBySentinel maps sentinel errors to their public codes.
var codeBySentinel = []struct {
	err  error
	code StatementErrorCode
}{
	{ErrLineNotFound, ErrCodeLineNotFound},
	{ErrLineNotRemovable, ErrCodeLineNotRemovable},
	{ErrLineNotEditable, ErrCodeLineNotEditable},
	{ErrEmptyDescription, ErrCodeEmptyDescription},
	{ErrInvalidCategory, ErrCodeInvalidCategory},
	{ErrMalformedLedger, ErrCodeMalformedLedger},
	{ErrNoPendingEdit, ErrCodeNoPendingEdit},
	{ErrPendingEditExpired, ErrCodePendingEditExpired},
	{ErrInvalidCredential, ErrCodeInvalidCredential},
	{ErrSnapshotNotFound, ErrCodeSnapshotNotFound},
	{ErrFeedUnavailable, ErrCodeFeedUnavailable},
}

// WrapStatementError turns a sentinel error into a coded StatementError.
// Errors that are already coded, or unknown, are returned unchanged.
func WrapStatementError(err error, message string) error {
	if err == nil {
		return nil
	}
	var stmErr *StatementError
	if errors.As(err, &stmErr) {
		return err
	}
	for _, entry := range codeBySentinel {
		if errors.Is(err, entry.err) {
			return NewStatementError(entry.code, message, err)
		}
	}
	return err
}
