// Package reconciliation contains bank reconciliation matching use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/decor-finance/backend/internal/application/adapter"
	"github.com/decor-finance/backend/internal/domain/entity"
	"github.com/decor-finance/backend/internal/domain/valueobject"
)

// ExplainMatchInput represents the input for scoring one movement against one record.
type ExplainMatchInput struct {
	TenantID      uuid.UUID
	MovementID    uuid.UUID
	CandidateKind entity.CandidateKind
	CandidateID   uuid.UUID
}

// ExplainMatchOutput represents the score breakdown of the pair.
type ExplainMatchOutput struct {
	Movement  *entity.BankMovement
	Candidate *entity.Candidate
	Result    valueobject.SimilarityResult
}

// ExplainMatchUseCase handles scoring a user-chosen pair.
type ExplainMatchUseCase struct {
	movementRepo  adapter.MovementRepository
	candidateRepo adapter.CandidateRepository
	engine        *SuggestionEngine
}

// NewExplainMatchUseCase creates a new ExplainMatchUseCase instance.
func NewExplainMatchUseCase(
	movementRepo adapter.MovementRepository,
	candidateRepo adapter.CandidateRepository,
	engine *SuggestionEngine,
) *ExplainMatchUseCase {
	return &ExplainMatchUseCase{
		movementRepo:  movementRepo,
		candidateRepo: candidateRepo,
		engine:        engine,
	}
}

// Execute loads both sides and scores them.
func (uc *ExplainMatchUseCase) Execute(ctx context.Context, input ExplainMatchInput) (*ExplainMatchOutput, error) {
	movement, err := loadMovement(ctx, uc.movementRepo, input.TenantID, input.MovementID)
	if err != nil {
		return nil, err
	}

	candidate, err := loadCandidate(ctx, uc.candidateRepo, input.TenantID, input.CandidateKind, input.CandidateID)
	if err != nil {
		return nil, err
	}

	return &ExplainMatchOutput{
		Movement:  movement,
		Candidate: candidate,
		Result:    uc.engine.Explain(movement, *candidate),
	}, nil
}
