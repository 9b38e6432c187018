// Package valueobject contains domain value objects for the reconciliation system.
package valueobject

import (
	"fmt"
	"math"

	domainerror "github.com/decor-finance/backend/internal/domain/error"
)

const (
	// DefaultValueTolerance is the relative difference still treated as a near-exact amount.
	DefaultValueTolerance = 0.05

	weightSumEpsilon = 0.0001
)

// ScoringProfile holds the weights and limits used to score candidates in one matching context.
type ScoringProfile struct {
	Name        string
	TextWeight  float64
	ValueWeight float64
	DateWeight  float64

	// BestOfTextSources scores text against both the candidate description and
	// display name and keeps the higher of the two.
	BestOfTextSources bool

	ValueTolerance float64
	MinScore       int // Composite scores below this are not suggested
	MaxResults     int // Top-N kept per context
}

// InstallmentProfile scores receivable installments: value dominant, best-of text.
func InstallmentProfile() ScoringProfile {
	return ScoringProfile{
		Name:              "installment",
		TextWeight:        0.4,
		ValueWeight:       0.6,
		BestOfTextSources: true,
		ValueTolerance:    DefaultValueTolerance,
		MinScore:          30,
		MaxResults:        5,
	}
}

// PayableProfile scores supplier payables with the same blend as installments.
func PayableProfile() ScoringProfile {
	return ScoringProfile{
		Name:              "payable",
		TextWeight:        0.4,
		ValueWeight:       0.6,
		BestOfTextSources: true,
		ValueTolerance:    DefaultValueTolerance,
		MinScore:          30,
		MaxResults:        3,
	}
}

// QuoteProfile scores quotes awaiting payment by client name and open balance.
func QuoteProfile() ScoringProfile {
	return ScoringProfile{
		Name:           "quote",
		TextWeight:     0.6,
		ValueWeight:    0.4,
		ValueTolerance: DefaultValueTolerance,
		MinScore:       25,
		MaxResults:     3,
	}
}

// BudgetProfile is the general-purpose context: name, value and date all count.
func BudgetProfile() ScoringProfile {
	return ScoringProfile{
		Name:           "budget",
		TextWeight:     0.5,
		ValueWeight:    0.35,
		DateWeight:     0.15,
		ValueTolerance: DefaultValueTolerance,
		MinScore:       25,
		MaxResults:     3,
	}
}

// Validate checks the weights are non-negative and sum to 1.
func (p ScoringProfile) Validate() error {
	if p.TextWeight < 0 || p.ValueWeight < 0 || p.DateWeight < 0 {
		return fmt.Errorf("%w: %s has a negative weight", domainerror.ErrInvalidScoringProfile, p.Name)
	}

	sum := p.TextWeight + p.ValueWeight + p.DateWeight
	if math.Abs(sum-1.0) > weightSumEpsilon {
		return fmt.Errorf("%w: %s weights sum to %.4f", domainerror.ErrInvalidScoringProfile, p.Name, sum)
	}

	if p.ValueTolerance <= 0 || p.ValueTolerance >= 0.20 {
		return fmt.Errorf("%w: %s value tolerance %.4f out of range", domainerror.ErrInvalidScoringProfile, p.Name, p.ValueTolerance)
	}

	if p.MaxResults <= 0 {
		return fmt.Errorf("%w: %s must keep at least one result", domainerror.ErrInvalidScoringProfile, p.Name)
	}

	return nil
}
