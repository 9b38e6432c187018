// Package reconciliation contains bank reconciliation matching use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/decor-finance/backend/internal/domain/entity"
)

// RejectSuggestionInput represents the input for rejecting a pattern suggestion.
type RejectSuggestionInput struct {
	TenantID  uuid.UUID
	PatternID uuid.UUID
}

// RejectSuggestionOutput represents the deactivated pattern.
type RejectSuggestionOutput struct {
	Pattern *entity.ReconciliationPattern
}

// RejectSuggestionUseCase handles rejecting a learned pattern.
type RejectSuggestionUseCase struct {
	engine *SuggestionEngine
}

// NewRejectSuggestionUseCase creates a new RejectSuggestionUseCase instance.
func NewRejectSuggestionUseCase(engine *SuggestionEngine) *RejectSuggestionUseCase {
	return &RejectSuggestionUseCase{
		engine: engine,
	}
}

// Execute deactivates the pattern. Rejecting an inactive pattern is a no-op.
func (uc *RejectSuggestionUseCase) Execute(ctx context.Context, input RejectSuggestionInput) (*RejectSuggestionOutput, error) {
	pattern, err := uc.engine.RejectSuggestion(ctx, input.TenantID, input.PatternID)
	if err != nil {
		return nil, patternError(err)
	}
	return &RejectSuggestionOutput{Pattern: pattern}, nil
}
