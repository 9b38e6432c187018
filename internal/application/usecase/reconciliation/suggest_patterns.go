// Package reconciliation contains bank reconciliation matching use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/decor-finance/backend/internal/application/adapter"
	"github.com/decor-finance/backend/internal/domain/entity"
)

// SuggestPatternsInput represents the input for suggesting learned patterns for a movement.
type SuggestPatternsInput struct {
	TenantID   uuid.UUID
	MovementID uuid.UUID
}

// SuggestPatternsOutput represents the pattern suggestions for a movement.
type SuggestPatternsOutput struct {
	Movement    *entity.BankMovement
	Suggestions []PatternSuggestion
}

// SuggestPatternsUseCase handles suggesting learned patterns for a bank movement.
type SuggestPatternsUseCase struct {
	movementRepo adapter.MovementRepository
	engine       *SuggestionEngine
}

// NewSuggestPatternsUseCase creates a new SuggestPatternsUseCase instance.
func NewSuggestPatternsUseCase(movementRepo adapter.MovementRepository, engine *SuggestionEngine) *SuggestPatternsUseCase {
	return &SuggestPatternsUseCase{
		movementRepo: movementRepo,
		engine:       engine,
	}
}

// Execute loads the movement and returns up to three pattern suggestions.
func (uc *SuggestPatternsUseCase) Execute(ctx context.Context, input SuggestPatternsInput) (*SuggestPatternsOutput, error) {
	movement, err := loadMovement(ctx, uc.movementRepo, input.TenantID, input.MovementID)
	if err != nil {
		return nil, err
	}

	suggestions, err := uc.engine.SuggestPattern(ctx, movement)
	if err != nil {
		return nil, patternError(err)
	}

	return &SuggestPatternsOutput{
		Movement:    movement,
		Suggestions: suggestions,
	}, nil
}
