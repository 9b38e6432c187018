// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/decor-finance/backend/internal/application/adapter"
	"github.com/decor-finance/backend/internal/domain/entity"
	domainerror "github.com/decor-finance/backend/internal/domain/error"
	"github.com/decor-finance/backend/internal/integration/persistence/model"
)

// candidateRepository implements the adapter.CandidateRepository interface.
type candidateRepository struct {
	db *gorm.DB
}

// NewCandidateRepository creates a new candidate repository instance.
func NewCandidateRepository(db *gorm.DB) adapter.CandidateRepository {
	return &candidateRepository{
		db: db,
	}
}

// FindOpenReceivableInstallments retrieves unpaid installments, earliest due first.
func (r *candidateRepository) FindOpenReceivableInstallments(ctx context.Context, tenantID uuid.UUID, limit int) ([]*entity.ReceivableInstallment, error) {
	var installmentModels []model.ReceivableInstallmentModel
	result := r.db.WithContext(ctx).
		Preload("Receivable.Quote").
		Where("tenant_id = ? AND status IN ?", tenantID, installmentStatusStrings(entity.OpenInstallmentStatuses())).
		Order("due_date ASC, id ASC").
		Limit(limit).
		Find(&installmentModels)
	if result.Error != nil {
		return nil, result.Error
	}

	installments := make([]*entity.ReceivableInstallment, len(installmentModels))
	for i := range installmentModels {
		installments[i] = installmentModels[i].ToEntity()
	}
	return installments, nil
}

// FindOpenPayables retrieves unpaid supplier payables, earliest due first.
func (r *candidateRepository) FindOpenPayables(ctx context.Context, tenantID uuid.UUID, limit int) ([]*entity.Payable, error) {
	var payableModels []model.PayableModel
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status IN ?", tenantID, payableStatusStrings(entity.OpenPayableStatuses())).
		Order("due_date ASC, id ASC").
		Limit(limit).
		Find(&payableModels)
	if result.Error != nil {
		return nil, result.Error
	}

	payables := make([]*entity.Payable, len(payableModels))
	for i := range payableModels {
		payables[i] = payableModels[i].ToEntity()
	}
	return payables, nil
}

// FindOpenQuotes retrieves quotes awaiting payment, most recently updated first.
func (r *candidateRepository) FindOpenQuotes(ctx context.Context, tenantID uuid.UUID, limit int) ([]*entity.Quote, error) {
	var quoteModels []model.QuoteModel
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status IN ?", tenantID, quoteStatusStrings(entity.AwaitingPaymentQuoteStatuses())).
		Order("updated_at DESC, id ASC").
		Limit(limit).
		Find(&quoteModels)
	if result.Error != nil {
		return nil, result.Error
	}

	quotes := make([]*entity.Quote, len(quoteModels))
	for i := range quoteModels {
		quotes[i] = quoteModels[i].ToEntity()
	}
	return quotes, nil
}

// FindCandidate retrieves one open record of the given kind as a candidate.
func (r *candidateRepository) FindCandidate(ctx context.Context, tenantID uuid.UUID, kind entity.CandidateKind, id uuid.UUID) (*entity.Candidate, error) {
	db := r.db.WithContext(ctx)

	var (
		candidate entity.Candidate
		err       error
	)
	switch kind {
	case entity.CandidateKindReceivable:
		var m model.ReceivableInstallmentModel
		err = db.Preload("Receivable.Quote").
			Where("id = ? AND tenant_id = ? AND status IN ?", id, tenantID, installmentStatusStrings(entity.OpenInstallmentStatuses())).
			First(&m).Error
		if err == nil {
			candidate = m.ToEntity().ToCandidate()
		}
	case entity.CandidateKindPayable:
		var m model.PayableModel
		err = db.Where("id = ? AND tenant_id = ? AND status IN ?", id, tenantID, payableStatusStrings(entity.OpenPayableStatuses())).
			First(&m).Error
		if err == nil {
			candidate = m.ToEntity().ToCandidate()
		}
	case entity.CandidateKindQuote:
		var m model.QuoteModel
		err = db.Where("id = ? AND tenant_id = ? AND status IN ?", id, tenantID, quoteStatusStrings(entity.AwaitingPaymentQuoteStatuses())).
			First(&m).Error
		if err == nil {
			candidate = m.ToEntity().ToCandidate()
		}
	default:
		return nil, domainerror.ErrInvalidCandidateKind
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCandidateNotFound
		}
		return nil, err
	}
	return &candidate, nil
}

func installmentStatusStrings(statuses []entity.InstallmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func payableStatusStrings(statuses []entity.PayableStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func quoteStatusStrings(statuses []entity.QuoteStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
