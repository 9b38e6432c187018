// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/decor-finance/backend/internal/domain/entity"
)

// MovementRepository defines the interface for bank movement persistence operations.
// Movements are imported elsewhere; this service reads them and flags reconciliation.
type MovementRepository interface {
	// FindByID retrieves a movement of the tenant. Returns ErrMovementNotFound when missing.
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.BankMovement, error)

	// FindByIDs retrieves the tenant's movements with the given IDs, in the order given.
	// Unknown IDs are skipped.
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*entity.BankMovement, error)

	// FindPending retrieves movements that are neither reconciled nor ignored, oldest first.
	FindPending(ctx context.Context, tenantID uuid.UUID, limit int) ([]*entity.BankMovement, error)

	// MarkReconciled persists the reconciliation flag and link of a single movement.
	MarkReconciled(ctx context.Context, movement *entity.BankMovement) error
}
