// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/decor-finance/backend/internal/domain/entity"
)

// PatternRepository defines the interface for reconciliation pattern persistence.
// Every write stores the pattern together with its audit event.
type PatternRepository interface {
	// Create stores a new pattern. Returns ErrPatternConflict when an active pattern
	// with the same tenant, fragment and type already exists.
	Create(ctx context.Context, pattern *entity.ReconciliationPattern, event *entity.PatternEvent) error

	// Update stores the new state of an existing pattern.
	Update(ctx context.Context, pattern *entity.ReconciliationPattern, event *entity.PatternEvent) error

	// FindByID retrieves a pattern of the tenant, active or not. Returns ErrPatternNotFound when missing.
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.ReconciliationPattern, error)

	// FindActiveByFragment returns the active pattern for the fragment and type, or nil.
	FindActiveByFragment(ctx context.Context, tenantID uuid.UUID, fragment string, reconciliationType entity.ReconciliationType) (*entity.ReconciliationPattern, error)

	// FindActive returns the tenant's active patterns ordered by times used desc,
	// confidence desc, then creation time.
	FindActive(ctx context.Context, tenantID uuid.UUID) ([]*entity.ReconciliationPattern, error)

	// ListEvents returns the audit trail of a pattern, oldest first.
	ListEvents(ctx context.Context, tenantID, patternID uuid.UUID) ([]*entity.PatternEvent, error)
}
