// Package reconciliation contains bank reconciliation matching use cases.
package reconciliation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/decor-finance/backend/internal/application/adapter"
	"github.com/decor-finance/backend/internal/domain/entity"
	"github.com/decor-finance/backend/internal/domain/valueobject"
)

// Default caps on how many open records each provider loads per request.
const (
	DefaultReceivableLimit = 100
	DefaultPayableLimit    = 100
	DefaultQuoteLimit      = 50
)

// CandidateProvider loads one kind of open record for scoring.
type CandidateProvider interface {
	Kind() entity.CandidateKind
	Eligible(direction entity.Direction) bool
	Profile() valueobject.ScoringProfile
	Fetch(ctx context.Context, tenantID uuid.UUID) ([]entity.Candidate, error)
}

// ProviderLimits caps the records loaded by each provider.
type ProviderLimits struct {
	Receivables int
	Payables    int
	Quotes      int
}

// NewCandidateProviders builds the receivable, payable and quote providers.
func NewCandidateProviders(repo adapter.CandidateRepository, limits ProviderLimits) []CandidateProvider {
	return []CandidateProvider{
		NewReceivableProvider(repo, limits.Receivables),
		NewPayableProvider(repo, limits.Payables),
		NewQuoteProvider(repo, limits.Quotes),
	}
}

// ValidateProfiles checks the scoring profile of every provider and the profile used by Explain.
func ValidateProfiles(providers []CandidateProvider) error {
	profiles := make([]valueobject.ScoringProfile, 0, len(providers)+1)
	for _, p := range providers {
		profiles = append(profiles, p.Profile())
	}
	profiles = append(profiles, valueobject.BudgetProfile())

	for _, profile := range profiles {
		if err := profile.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// receivableProvider offers open receivable installments for credits.
type receivableProvider struct {
	repo  adapter.CandidateRepository
	limit int
}

// NewReceivableProvider creates a provider of open receivable installments.
func NewReceivableProvider(repo adapter.CandidateRepository, limit int) CandidateProvider {
	if limit <= 0 {
		limit = DefaultReceivableLimit
	}
	return &receivableProvider{repo: repo, limit: limit}
}

func (p *receivableProvider) Kind() entity.CandidateKind { return entity.CandidateKindReceivable }

func (p *receivableProvider) Eligible(direction entity.Direction) bool {
	return direction == entity.DirectionCredit
}

func (p *receivableProvider) Profile() valueobject.ScoringProfile {
	return valueobject.InstallmentProfile()
}

func (p *receivableProvider) Fetch(ctx context.Context, tenantID uuid.UUID) ([]entity.Candidate, error) {
	installments, err := p.repo.FindOpenReceivableInstallments(ctx, tenantID, p.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load open installments: %w", err)
	}

	candidates := make([]entity.Candidate, 0, min(len(installments), p.limit))
	for _, installment := range installments {
		if !installment.Status.IsOpen() {
			continue
		}
		candidates = append(candidates, installment.ToCandidate())
		if len(candidates) == p.limit {
			break
		}
	}
	return candidates, nil
}

// payableProvider offers open supplier payables for debits.
type payableProvider struct {
	repo  adapter.CandidateRepository
	limit int
}

// NewPayableProvider creates a provider of open supplier payables.
func NewPayableProvider(repo adapter.CandidateRepository, limit int) CandidateProvider {
	if limit <= 0 {
		limit = DefaultPayableLimit
	}
	return &payableProvider{repo: repo, limit: limit}
}

func (p *payableProvider) Kind() entity.CandidateKind { return entity.CandidateKindPayable }

func (p *payableProvider) Eligible(direction entity.Direction) bool {
	return direction == entity.DirectionDebit
}

func (p *payableProvider) Profile() valueobject.ScoringProfile {
	return valueobject.PayableProfile()
}

func (p *payableProvider) Fetch(ctx context.Context, tenantID uuid.UUID) ([]entity.Candidate, error) {
	payables, err := p.repo.FindOpenPayables(ctx, tenantID, p.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load open payables: %w", err)
	}

	candidates := make([]entity.Candidate, 0, min(len(payables), p.limit))
	for _, payable := range payables {
		candidates = append(candidates, payable.ToCandidate())
		if len(candidates) == p.limit {
			break
		}
	}
	return candidates, nil
}

// quoteProvider offers quotes awaiting payment in either direction.
// Debits cover refunds of deposits on cancelled work.
type quoteProvider struct {
	repo  adapter.CandidateRepository
	limit int
}

// NewQuoteProvider creates a provider of quotes awaiting payment.
func NewQuoteProvider(repo adapter.CandidateRepository, limit int) CandidateProvider {
	if limit <= 0 {
		limit = DefaultQuoteLimit
	}
	return &quoteProvider{repo: repo, limit: limit}
}

func (p *quoteProvider) Kind() entity.CandidateKind { return entity.CandidateKindQuote }

func (p *quoteProvider) Eligible(direction entity.Direction) bool {
	return direction.IsValid()
}

func (p *quoteProvider) Profile() valueobject.ScoringProfile {
	return valueobject.QuoteProfile()
}

func (p *quoteProvider) Fetch(ctx context.Context, tenantID uuid.UUID) ([]entity.Candidate, error) {
	quotes, err := p.repo.FindOpenQuotes(ctx, tenantID, p.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load open quotes: %w", err)
	}

	candidates := make([]entity.Candidate, 0, min(len(quotes), p.limit))
	for _, quote := range quotes {
		candidates = append(candidates, quote.ToCandidate())
		if len(candidates) == p.limit {
			break
		}
	}
	return candidates, nil
}
