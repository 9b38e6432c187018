// Package reconciliation contains bank reconciliation matching use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/decor-finance/backend/internal/domain/entity"
)

// ListPatternsInput represents the input for listing learned patterns.
type ListPatternsInput struct {
	TenantID uuid.UUID
}

// ListPatternsOutput represents the tenant's active patterns.
type ListPatternsOutput struct {
	Patterns []*entity.ReconciliationPattern
}

// ListPatternsUseCase handles listing active patterns.
type ListPatternsUseCase struct {
	engine *SuggestionEngine
}

// NewListPatternsUseCase creates a new ListPatternsUseCase instance.
func NewListPatternsUseCase(engine *SuggestionEngine) *ListPatternsUseCase {
	return &ListPatternsUseCase{engine: engine}
}

// Execute returns active patterns in evaluation order.
func (uc *ListPatternsUseCase) Execute(ctx context.Context, input ListPatternsInput) (*ListPatternsOutput, error) {
	patterns, err := uc.engine.Patterns().ListActive(ctx, input.TenantID)
	if err != nil {
		return nil, patternError(err)
	}
	return &ListPatternsOutput{Patterns: patterns}, nil
}

// GetPatternHistoryInput represents the input for a pattern audit trail.
type GetPatternHistoryInput struct {
	TenantID  uuid.UUID
	PatternID uuid.UUID
}

// GetPatternHistoryOutput represents the audit trail of a pattern.
type GetPatternHistoryOutput struct {
	Events []*entity.PatternEvent
}

// GetPatternHistoryUseCase handles reading a pattern audit trail.
type GetPatternHistoryUseCase struct {
	engine *SuggestionEngine
}

// NewGetPatternHistoryUseCase creates a new GetPatternHistoryUseCase instance.
func NewGetPatternHistoryUseCase(engine *SuggestionEngine) *GetPatternHistoryUseCase {
	return &GetPatternHistoryUseCase{engine: engine}
}

// Execute returns the pattern events, oldest first.
func (uc *GetPatternHistoryUseCase) Execute(ctx context.Context, input GetPatternHistoryInput) (*GetPatternHistoryOutput, error) {
	events, err := uc.engine.Patterns().History(ctx, input.TenantID, input.PatternID)
	if err != nil {
		return nil, patternError(err)
	}
	return &GetPatternHistoryOutput{Events: events}, nil
}
