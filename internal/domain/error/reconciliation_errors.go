// Package error defines domain-specific errors for the reconciliation service.
package error

import "errors"

// Reconciliation domain errors.
var (
	// ErrMovementNotFound is returned when a bank movement is not found for the tenant.
	ErrMovementNotFound = errors.New("bank movement not found")

	// ErrMovementAlreadyReconciled is returned when confirming a match for a reconciled movement.
	ErrMovementAlreadyReconciled = errors.New("bank movement already reconciled")

	// ErrCandidateNotFound is returned when the confirmed candidate does not exist or is closed.
	ErrCandidateNotFound = errors.New("reconciliation candidate not found")

	// ErrInvalidCandidateKind is returned for an unknown candidate kind.
	ErrInvalidCandidateKind = errors.New("invalid candidate kind")

	// ErrPatternNotFound is returned when a reconciliation pattern is not found.
	ErrPatternNotFound = errors.New("reconciliation pattern not found")

	// ErrPatternConflict is returned when an active pattern with the same fragment already exists.
	ErrPatternConflict = errors.New("reconciliation pattern already exists")

	// ErrInvalidReconciliationType is returned for an unknown reconciliation type.
	ErrInvalidReconciliationType = errors.New("invalid reconciliation type")

	// ErrMatchTargetRequired is returned when a confirmation names neither a candidate nor a pattern.
	ErrMatchTargetRequired = errors.New("candidate or pattern is required")

	// ErrInvalidScoringProfile is returned when scoring weights are inconsistent.
	ErrInvalidScoringProfile = errors.New("invalid scoring profile")

	// ErrTooManyMovements is returned when a bulk request exceeds the batch size.
	ErrTooManyMovements = errors.New("too many movements in request")
)

// ReconciliationErrorCode defines error codes for reconciliation errors.
// Format: REC-XXYYYY where XX is category and YYYY is specific error.
type ReconciliationErrorCode string

const (
	// Lookup errors (01XXXX)
	ErrCodeMovementNotFound  ReconciliationErrorCode = "REC-010001"
	ErrCodeCandidateNotFound ReconciliationErrorCode = "REC-010002"
	ErrCodePatternNotFound   ReconciliationErrorCode = "REC-010003"

	// Validation errors (02XXXX)
	ErrCodeInvalidCandidateKind      ReconciliationErrorCode = "REC-020001"
	ErrCodeInvalidReconciliationType ReconciliationErrorCode = "REC-020002"
	ErrCodeMatchTargetRequired       ReconciliationErrorCode = "REC-020003"
	ErrCodeInvalidMovementID         ReconciliationErrorCode = "REC-020004"
	ErrCodeInvalidRequest            ReconciliationErrorCode = "REC-020005"
	ErrCodeTooManyMovements          ReconciliationErrorCode = "REC-020006"

	// State errors (03XXXX)
	ErrCodeMovementAlreadyReconciled ReconciliationErrorCode = "REC-030001"
	ErrCodePatternConflict           ReconciliationErrorCode = "REC-030002"

	// Infrastructure errors (09XXXX)
	ErrCodeReconciliationInternal ReconciliationErrorCode = "REC-090001"
)

// ReconciliationError represents a reconciliation error with code and message.
type ReconciliationError struct {
	Code    ReconciliationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ReconciliationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

// NewReconciliationError creates a new ReconciliationError with the given code and message.
func NewReconciliationError(code ReconciliationErrorCode, message string, err error) *ReconciliationError {
	return &ReconciliationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
