// Package reconciliation contains bank reconciliation matching use cases.
package reconciliation

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/decor-finance/backend/internal/application/adapter"
	"github.com/decor-finance/backend/internal/domain/entity"
	domainerror "github.com/decor-finance/backend/internal/domain/error"
)

// loadMovement fetches a tenant's movement, mapping lookup failures to coded errors.
func loadMovement(ctx context.Context, repo adapter.MovementRepository, tenantID, movementID uuid.UUID) (*entity.BankMovement, error) {
	movement, err := repo.FindByID(ctx, tenantID, movementID)
	if err != nil {
		if errors.Is(err, domainerror.ErrMovementNotFound) {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeMovementNotFound,
				"Bank movement not found",
				domainerror.ErrMovementNotFound,
			)
		}
		return nil, internalError("Failed to load bank movement", err)
	}
	return movement, nil
}

// loadCandidate fetches one open record as a candidate.
func loadCandidate(ctx context.Context, repo adapter.CandidateRepository, tenantID uuid.UUID, kind entity.CandidateKind, id uuid.UUID) (*entity.Candidate, error) {
	if !kind.IsValid() {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidCandidateKind,
			"Invalid candidate kind. Must be 'receivable_installment', 'payable' or 'quote'",
			domainerror.ErrInvalidCandidateKind,
		)
	}

	candidate, err := repo.FindCandidate(ctx, tenantID, kind, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrCandidateNotFound) {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeCandidateNotFound,
				"Candidate not found or no longer open",
				domainerror.ErrCandidateNotFound,
			)
		}
		return nil, internalError("Failed to load candidate", err)
	}
	return candidate, nil
}

// patternError maps pattern store failures to coded errors.
func patternError(err error) error {
	switch {
	case errors.Is(err, domainerror.ErrPatternNotFound):
		return domainerror.NewReconciliationError(
			domainerror.ErrCodePatternNotFound,
			"Reconciliation pattern not found",
			domainerror.ErrPatternNotFound,
		)
	case errors.Is(err, domainerror.ErrPatternConflict):
		return domainerror.NewReconciliationError(
			domainerror.ErrCodePatternConflict,
			"An active pattern with the same fragment already exists",
			domainerror.ErrPatternConflict,
		)
	case errors.Is(err, domainerror.ErrInvalidReconciliationType):
		return domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidReconciliationType,
			"Invalid reconciliation type",
			domainerror.ErrInvalidReconciliationType,
		)
	}
	return internalError("Reconciliation pattern operation failed", err)
}

func internalError(message string, err error) error {
	return domainerror.NewReconciliationError(domainerror.ErrCodeReconciliationInternal, message, err)
}
