// Package reconciliation contains bank reconciliation matching use cases.
package reconciliation

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/decor-finance/backend/internal/domain/entity"
	"github.com/decor-finance/backend/internal/domain/matching"
	"github.com/decor-finance/backend/internal/domain/valueobject"
)

// Suggestion is a scored candidate for a movement.
type Suggestion struct {
	Candidate entity.Candidate
	Result    valueobject.SimilarityResult
}

// CandidateSuggestions groups ranked suggestions per candidate kind.
// A provider that failed leaves its list empty and records the error in Failures.
type CandidateSuggestions struct {
	Receivables []Suggestion
	Payables    []Suggestion
	Quotes      []Suggestion
	Failures    map[entity.CandidateKind]error
}

func newCandidateSuggestions() CandidateSuggestions {
	return CandidateSuggestions{
		Receivables: []Suggestion{},
		Payables:    []Suggestion{},
		Quotes:      []Suggestion{},
		Failures:    map[entity.CandidateKind]error{},
	}
}

func (s *CandidateSuggestions) set(kind entity.CandidateKind, suggestions []Suggestion) {
	switch kind {
	case entity.CandidateKindReceivable:
		s.Receivables = suggestions
	case entity.CandidateKindPayable:
		s.Payables = suggestions
	case entity.CandidateKindQuote:
		s.Quotes = suggestions
	}
}

// SuggestionEngine orchestrates candidate providers, scorers and the pattern store.
type SuggestionEngine struct {
	providers []CandidateProvider
	patterns  *PatternStore
}

// NewSuggestionEngine creates a new SuggestionEngine.
func NewSuggestionEngine(patterns *PatternStore, providers ...CandidateProvider) *SuggestionEngine {
	return &SuggestionEngine{
		providers: providers,
		patterns:  patterns,
	}
}

// Patterns returns the engine's pattern store.
func (e *SuggestionEngine) Patterns() *PatternStore {
	return e.patterns
}

// SuggestCandidates scores the open records of every provider eligible for the
// movement direction. Providers are queried concurrently; one failing does not
// hide the others' results. Malformed movements yield an empty result.
func (e *SuggestionEngine) SuggestCandidates(ctx context.Context, movement *entity.BankMovement) CandidateSuggestions {
	result := newCandidateSuggestions()
	if !movement.IsMatchable() {
		slog.Default().Warn("Skipping candidate suggestion for malformed movement")
		return result
	}

	logger := slog.Default().With("tenantID", movement.TenantID.String(), "movementID", movement.ID.String())
	direction := movement.ResolvedDirection()

	eligible := make([]CandidateProvider, 0, len(e.providers))
	for _, p := range e.providers {
		if p.Eligible(direction) {
			eligible = append(eligible, p)
		}
	}

	ranked := make([][]Suggestion, len(eligible))
	failures := make([]error, len(eligible))

	// Errors are captured per provider instead of returned, so the group never cancels.
	var g errgroup.Group
	for i, provider := range eligible {
		g.Go(func() error {
			candidates, err := provider.Fetch(ctx, movement.TenantID)
			if err != nil {
				failures[i] = err
				return nil
			}
			ranked[i] = RankCandidates(movement, candidates, provider.Profile())
			return nil
		})
	}
	_ = g.Wait()

	for i, provider := range eligible {
		if failures[i] != nil {
			logger.Warn("Candidate provider failed", "kind", provider.Kind(), "error", failures[i].Error())
			result.Failures[provider.Kind()] = failures[i]
			continue
		}
		result.set(provider.Kind(), ranked[i])
	}

	return result
}

// SuggestPattern returns learned patterns matching the movement description.
func (e *SuggestionEngine) SuggestPattern(ctx context.Context, movement *entity.BankMovement) ([]PatternSuggestion, error) {
	if !movement.IsMatchable() {
		return []PatternSuggestion{}, nil
	}
	return e.patterns.FindSuggestionsByPattern(ctx, movement.TenantID, movement.Description, movement.ResolvedDirection())
}

// DetectAutoMatches finds high-confidence pattern matches for a batch of movements.
func (e *SuggestionEngine) DetectAutoMatches(ctx context.Context, tenantID uuid.UUID, movements []*entity.BankMovement) ([]AutoMatch, error) {
	return e.patterns.DetectHighConfidenceMatches(ctx, tenantID, movements)
}

// ConfirmMatch learns from a confirmed reconciliation of the movement.
func (e *SuggestionEngine) ConfirmMatch(
	ctx context.Context,
	movement *entity.BankMovement,
	reconciliationType entity.ReconciliationType,
	categoryID *uuid.UUID,
	entryType *string,
) (*entity.ReconciliationPattern, error) {
	return e.patterns.Reinforce(ctx, ReinforceInput{
		TenantID:           movement.TenantID,
		Description:        movement.Description,
		ReconciliationType: reconciliationType,
		CategoryID:         categoryID,
		EntryType:          entryType,
	})
}

// RejectSuggestion deactivates a pattern the user rejected.
func (e *SuggestionEngine) RejectSuggestion(ctx context.Context, tenantID, patternID uuid.UUID) (*entity.ReconciliationPattern, error) {
	return e.patterns.Deactivate(ctx, tenantID, patternID)
}

// Explain scores a single movement and candidate in the general budget context.
func (e *SuggestionEngine) Explain(movement *entity.BankMovement, candidate entity.Candidate) valueobject.SimilarityResult {
	return matching.Score(movement, candidate, valueobject.BudgetProfile())
}

// RankCandidates scores candidates, drops those below the profile floor and keeps
// the top results by composite score. Ties go to the earlier reference date, then ID.
func RankCandidates(movement *entity.BankMovement, candidates []entity.Candidate, profile valueobject.ScoringProfile) []Suggestion {
	suggestions := make([]Suggestion, 0, len(candidates))
	for _, candidate := range candidates {
		result := matching.Score(movement, candidate, profile)
		if result.CompositeScore < profile.MinScore {
			continue
		}
		suggestions = append(suggestions, Suggestion{Candidate: candidate, Result: result})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Result.CompositeScore != b.Result.CompositeScore {
			return a.Result.CompositeScore > b.Result.CompositeScore
		}
		if !a.Candidate.ReferenceDate.Equal(b.Candidate.ReferenceDate) {
			return a.Candidate.ReferenceDate.Before(b.Candidate.ReferenceDate)
		}
		return a.Candidate.ID.String() < b.Candidate.ID.String()
	})

	if profile.MaxResults > 0 && len(suggestions) > profile.MaxResults {
		suggestions = suggestions[:profile.MaxResults]
	}
	return suggestions
}
