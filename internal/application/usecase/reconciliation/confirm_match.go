// Package reconciliation contains bank reconciliation matching use cases.
package reconciliation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/decor-finance/backend/internal/application/adapter"
	"github.com/decor-finance/backend/internal/domain/entity"
	domainerror "github.com/decor-finance/backend/internal/domain/error"
)

// ConfirmMatchInput represents a user confirming how a movement is reconciled.
// The target is a candidate (kind and ID), a learned pattern, or just a
// reconciliation type for movements without an open record (e.g. bank fees).
type ConfirmMatchInput struct {
	TenantID           uuid.UUID
	MovementID         uuid.UUID
	CandidateKind      *entity.CandidateKind
	CandidateID        *uuid.UUID
	PatternID          *uuid.UUID
	ReconciliationType *entity.ReconciliationType
	CategoryID         *uuid.UUID
	EntryType          *string
}

// ConfirmMatchOutput represents the result of a confirmed match.
type ConfirmMatchOutput struct {
	Movement  *entity.BankMovement
	Candidate *entity.Candidate
	Pattern   *entity.ReconciliationPattern // Nil when the description had no keywords
}

// ConfirmMatchUseCase handles confirming a reconciliation and learning from it.
type ConfirmMatchUseCase struct {
	movementRepo  adapter.MovementRepository
	candidateRepo adapter.CandidateRepository
	engine        *SuggestionEngine
	clock         adapter.Clock
}

// NewConfirmMatchUseCase creates a new ConfirmMatchUseCase instance.
func NewConfirmMatchUseCase(
	movementRepo adapter.MovementRepository,
	candidateRepo adapter.CandidateRepository,
	engine *SuggestionEngine,
	clock adapter.Clock,
) *ConfirmMatchUseCase {
	if clock == nil {
		clock = adapter.SystemClock{}
	}
	return &ConfirmMatchUseCase{
		movementRepo:  movementRepo,
		candidateRepo: candidateRepo,
		engine:        engine,
		clock:         clock,
	}
}

// Execute flags the movement as reconciled and then reinforces the pattern for its description.
func (uc *ConfirmMatchUseCase) Execute(ctx context.Context, input ConfirmMatchInput) (*ConfirmMatchOutput, error) {
	movement, err := loadMovement(ctx, uc.movementRepo, input.TenantID, input.MovementID)
	if err != nil {
		return nil, err
	}

	if movement.Reconciled {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeMovementAlreadyReconciled,
			"Bank movement is already reconciled",
			domainerror.ErrMovementAlreadyReconciled,
		)
	}

	link, candidate, categoryID, entryType, err := uc.resolveTarget(ctx, input)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With(
		"tenantID", input.TenantID.String(),
		"movementID", input.MovementID.String(),
		"reconciliationType", link.Type,
	)

	// The movement is committed first so a failed mark never leaves a learned pattern behind.
	link.PatternID = input.PatternID
	movement.MarkReconciled(link, uc.clock.Now())
	if err := uc.movementRepo.MarkReconciled(ctx, movement); err != nil {
		if errors.Is(err, domainerror.ErrMovementAlreadyReconciled) {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeMovementAlreadyReconciled,
				"Bank movement is already reconciled",
				domainerror.ErrMovementAlreadyReconciled,
			)
		}
		logger.Error("Failed to mark movement reconciled", "error", err.Error())
		return nil, internalError("Failed to update bank movement", err)
	}

	pattern, err := uc.engine.ConfirmMatch(ctx, movement, link.Type, categoryID, entryType)
	if err != nil {
		// The reconciliation stands; only the learning step is lost.
		logger.Error("Failed to reinforce pattern", "error", err.Error())
		pattern = nil
	}

	logger.Info("Reconciliation confirmed")

	return &ConfirmMatchOutput{
		Movement:  movement,
		Candidate: candidate,
		Pattern:   pattern,
	}, nil
}

// resolveTarget works out the reconciliation type, link and learning attributes of the confirmation.
func (uc *ConfirmMatchUseCase) resolveTarget(ctx context.Context, input ConfirmMatchInput) (entity.ReconciliationLink, *entity.Candidate, *uuid.UUID, *string, error) {
	link := entity.ReconciliationLink{}
	categoryID, entryType := input.CategoryID, input.EntryType

	var candidate *entity.Candidate
	switch {
	case input.PatternID != nil:
		pattern, err := uc.engine.Patterns().Get(ctx, input.TenantID, *input.PatternID)
		if err != nil {
			return link, nil, nil, nil, patternError(err)
		}
		if !pattern.Active {
			return link, nil, nil, nil, patternError(domainerror.ErrPatternNotFound)
		}
		link.Type = pattern.ReconciliationType
		if categoryID == nil {
			categoryID = pattern.CategoryID
		}
		if entryType == nil {
			entryType = pattern.EntryType
		}

	case input.CandidateKind != nil || input.CandidateID != nil:
		if input.CandidateKind == nil || input.CandidateID == nil {
			return link, nil, nil, nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeMatchTargetRequired,
				"Candidate kind and candidate ID must be given together",
				domainerror.ErrMatchTargetRequired,
			)
		}
		found, err := loadCandidate(ctx, uc.candidateRepo, input.TenantID, *input.CandidateKind, *input.CandidateID)
		if err != nil {
			return link, nil, nil, nil, err
		}
		candidate = found
		link.Type = found.Kind.ReconciliationType()
		link.Kind = &found.Kind
		link.RecordID = &found.ID

	case input.ReconciliationType == nil:
		return link, nil, nil, nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeMatchTargetRequired,
			"A candidate, a pattern or a reconciliation type is required",
			domainerror.ErrMatchTargetRequired,
		)
	}

	if input.ReconciliationType != nil {
		link.Type = *input.ReconciliationType
	}
	if !link.Type.IsValid() {
		return link, nil, nil, nil, patternError(domainerror.ErrInvalidReconciliationType)
	}

	return link, candidate, categoryID, entryType, nil
}
