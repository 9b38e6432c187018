// Package reconciliation contains bank reconciliation matching use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/decor-finance/backend/internal/application/adapter"
	"github.com/decor-finance/backend/internal/domain/entity"
)

// SuggestCandidatesInput represents the input for suggesting candidates for a movement.
type SuggestCandidatesInput struct {
	TenantID   uuid.UUID
	MovementID uuid.UUID
}

// SuggestCandidatesOutput represents the ranked candidates for a movement.
type SuggestCandidatesOutput struct {
	Movement    *entity.BankMovement
	Suggestions CandidateSuggestions
}

// SuggestCandidatesUseCase handles suggesting open records for a bank movement.
type SuggestCandidatesUseCase struct {
	movementRepo adapter.MovementRepository
	engine       *SuggestionEngine
}

// NewSuggestCandidatesUseCase creates a new SuggestCandidatesUseCase instance.
func NewSuggestCandidatesUseCase(movementRepo adapter.MovementRepository, engine *SuggestionEngine) *SuggestCandidatesUseCase {
	return &SuggestCandidatesUseCase{
		movementRepo: movementRepo,
		engine:       engine,
	}
}

// Execute loads the movement and ranks candidates per kind.
func (uc *SuggestCandidatesUseCase) Execute(ctx context.Context, input SuggestCandidatesInput) (*SuggestCandidatesOutput, error) {
	movement, err := loadMovement(ctx, uc.movementRepo, input.TenantID, input.MovementID)
	if err != nil {
		return nil, err
	}

	return &SuggestCandidatesOutput{
		Movement:    movement,
		Suggestions: uc.engine.SuggestCandidates(ctx, movement),
	}, nil
}
