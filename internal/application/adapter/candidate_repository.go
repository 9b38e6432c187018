// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/decor-finance/backend/internal/domain/entity"
)

// CandidateRepository provides read-only, tenant-scoped access to open financial records.
type CandidateRepository interface {
	// FindOpenReceivableInstallments returns pending, partial or overdue installments, soonest due first.
	FindOpenReceivableInstallments(ctx context.Context, tenantID uuid.UUID, limit int) ([]*entity.ReceivableInstallment, error)

	// FindOpenPayables returns pending or overdue payables, soonest due first.
	FindOpenPayables(ctx context.Context, tenantID uuid.UUID, limit int) ([]*entity.Payable, error)

	// FindOpenQuotes returns quotes awaiting payment, most recently updated first.
	FindOpenQuotes(ctx context.Context, tenantID uuid.UUID, limit int) ([]*entity.Quote, error)

	// FindCandidate loads one open record as a candidate. Returns ErrCandidateNotFound
	// when the record is missing or no longer open.
	FindCandidate(ctx context.Context, tenantID uuid.UUID, kind entity.CandidateKind, id uuid.UUID) (*entity.Candidate, error)
}
