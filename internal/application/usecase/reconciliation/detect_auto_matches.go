// Package reconciliation contains bank reconciliation matching use cases.
package reconciliation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/decor-finance/backend/internal/application/adapter"
	"github.com/decor-finance/backend/internal/domain/entity"
	domainerror "github.com/decor-finance/backend/internal/domain/error"
)

// DefaultAutoMatchBatchSize caps movements evaluated per request.
const DefaultAutoMatchBatchSize = 500

// DetectAutoMatchesInput represents the input for bulk auto-match detection.
// Without MovementIDs the tenant's pending movements are evaluated.
type DetectAutoMatchesInput struct {
	TenantID    uuid.UUID
	MovementIDs []uuid.UUID
}

// DetectAutoMatchesOutput represents the high-confidence matches found.
type DetectAutoMatchesOutput struct {
	Evaluated int
	Matches   []AutoMatch
}

// DetectAutoMatchesUseCase handles bulk detection of pattern auto-matches.
type DetectAutoMatchesUseCase struct {
	movementRepo adapter.MovementRepository
	engine       *SuggestionEngine
	batchSize    int
}

// NewDetectAutoMatchesUseCase creates a new DetectAutoMatchesUseCase instance.
func NewDetectAutoMatchesUseCase(movementRepo adapter.MovementRepository, engine *SuggestionEngine, batchSize int) *DetectAutoMatchesUseCase {
	if batchSize <= 0 {
		batchSize = DefaultAutoMatchBatchSize
	}
	return &DetectAutoMatchesUseCase{
		movementRepo: movementRepo,
		engine:       engine,
		batchSize:    batchSize,
	}
}

// Execute loads the requested movements and detects auto-matches among them.
func (uc *DetectAutoMatchesUseCase) Execute(ctx context.Context, input DetectAutoMatchesInput) (*DetectAutoMatchesOutput, error) {
	if len(input.MovementIDs) > uc.batchSize {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeTooManyMovements,
			"Too many movements in a single request",
			domainerror.ErrTooManyMovements,
		)
	}

	startTime := time.Now()
	logger := slog.Default().With("tenantID", input.TenantID.String())

	var (
		movements []*entity.BankMovement
		err       error
	)
	if len(input.MovementIDs) > 0 {
		movements, err = uc.movementRepo.FindByIDs(ctx, input.TenantID, input.MovementIDs)
	} else {
		movements, err = uc.movementRepo.FindPending(ctx, input.TenantID, uc.batchSize)
	}
	if err != nil {
		logger.Error("Failed to load movements for auto-match", "error", err.Error())
		return nil, internalError("Failed to load bank movements", err)
	}

	matches, err := uc.engine.DetectAutoMatches(ctx, input.TenantID, movements)
	if err != nil {
		logger.Error("Auto-match detection failed", "error", err.Error())
		return nil, patternError(err)
	}

	logger.Info("Auto-match detection completed",
		"movementCount", len(movements),
		"matchCount", len(matches),
		"duration", time.Since(startTime).String(),
	)

	return &DetectAutoMatchesOutput{
		Evaluated: len(movements),
		Matches:   matches,
	}, nil
}
