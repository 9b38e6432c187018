// Package reconciliation contains bank reconciliation matching use cases.
package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/decor-finance/backend/internal/application/adapter"
	"github.com/decor-finance/backend/internal/domain/entity"
	domainerror "github.com/decor-finance/backend/internal/domain/error"
	"github.com/decor-finance/backend/internal/domain/matching"
)

const (
	// FragmentKeywordCount is how many keywords make up a learned fragment.
	FragmentKeywordCount = 5

	// PatternMinRawScore discards weaker pattern matches from suggestions.
	PatternMinRawScore = 30

	// PatternAutoMatchScore is the raw text score that triggers an automatic match.
	PatternAutoMatchScore = 70

	// MaxPatternSuggestions caps pattern suggestions per movement.
	MaxPatternSuggestions = 3

	defaultDetectionWorkers = 8
)

// PatternSuggestion is a learned pattern proposed for a movement.
type PatternSuggestion struct {
	Pattern  *entity.ReconciliationPattern
	RawScore int // Text similarity between description and fragment
	Score    int // Raw score blended with the pattern confidence
}

// AutoMatch pairs a movement with the pattern that matched it with high confidence.
type AutoMatch struct {
	Movement *entity.BankMovement
	Pattern  *entity.ReconciliationPattern
	Score    int
}

// ReinforceInput describes a confirmed reconciliation to learn from.
type ReinforceInput struct {
	TenantID           uuid.UUID
	Description        string
	ReconciliationType entity.ReconciliationType
	CategoryID         *uuid.UUID
	EntryType          *string
}

// PatternStore learns description fragments from confirmed reconciliations.
type PatternStore struct {
	repo    adapter.PatternRepository
	clock   adapter.Clock
	workers int
}

// NewPatternStore creates a new PatternStore. workers bounds bulk detection concurrency.
func NewPatternStore(repo adapter.PatternRepository, clock adapter.Clock, workers int) *PatternStore {
	if clock == nil {
		clock = adapter.SystemClock{}
	}
	if workers <= 0 {
		workers = defaultDetectionWorkers
	}
	return &PatternStore{
		repo:    repo,
		clock:   clock,
		workers: workers,
	}
}

// FindSuggestionsByPattern returns up to three active patterns matching the description,
// restricted to types compatible with the direction.
func (s *PatternStore) FindSuggestionsByPattern(ctx context.Context, tenantID uuid.UUID, description string, direction entity.Direction) ([]PatternSuggestion, error) {
	if strings.TrimSpace(description) == "" {
		return []PatternSuggestion{}, nil
	}

	patterns, err := s.activePatterns(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	suggestions := make([]PatternSuggestion, 0)
	for _, p := range patterns {
		if !p.ReconciliationType.AcceptsDirection(direction) {
			continue
		}
		raw := matching.TextSimilarity(description, p.DescriptionFragment)
		if raw < PatternMinRawScore {
			continue
		}
		suggestions = append(suggestions, PatternSuggestion{
			Pattern:  p,
			RawScore: raw,
			Score:    matching.BlendPatternConfidence(raw, p.Confidence),
		})
	}

	// Stable sort keeps the deterministic pattern order for equal scores.
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	if len(suggestions) > MaxPatternSuggestions {
		suggestions = suggestions[:MaxPatternSuggestions]
	}
	return suggestions, nil
}

// DetectHighConfidenceMatches finds, for each pending movement, the first active pattern
// whose fragment scores at least PatternAutoMatchScore. Reconciled, ignored and
// incomplete movements are skipped. Matches keep the input order.
func (s *PatternStore) DetectHighConfidenceMatches(ctx context.Context, tenantID uuid.UUID, movements []*entity.BankMovement) ([]AutoMatch, error) {
	if len(movements) == 0 {
		return []AutoMatch{}, nil
	}

	patterns, err := s.activePatterns(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return []AutoMatch{}, nil
	}

	found := make([]*AutoMatch, len(movements))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, movement := range movements {
		if !movement.IsMatchable() || !movement.IsPending() || movement.TenantID != tenantID {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found[i] = firstMatchingPattern(movement, patterns)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make([]AutoMatch, 0, len(movements))
	for _, m := range found {
		if m != nil {
			matches = append(matches, *m)
		}
	}
	return matches, nil
}

// Reinforce records a confirmed reconciliation. An existing active pattern with the same
// fragment and type gains usage and confidence; otherwise a new pattern is created.
// Descriptions without keywords are ignored and return a nil pattern.
func (s *PatternStore) Reinforce(ctx context.Context, input ReinforceInput) (*entity.ReconciliationPattern, error) {
	if !input.ReconciliationType.IsValid() {
		return nil, domainerror.ErrInvalidReconciliationType
	}

	fragment := BuildFragment(input.Description)
	if fragment == "" {
		return nil, nil
	}

	logger := slog.Default().With("tenantID", input.TenantID.String(), "fragment", fragment, "reconciliationType", input.ReconciliationType)

	existing, err := s.repo.FindActiveByFragment(ctx, input.TenantID, fragment, input.ReconciliationType)
	if err != nil {
		return nil, fmt.Errorf("failed to find pattern: %w", err)
	}
	if existing != nil {
		return s.reinforceExisting(ctx, existing, input)
	}

	now := s.clock.Now()
	pattern := entity.NewReconciliationPattern(input.TenantID, fragment, input.ReconciliationType, input.CategoryID, input.EntryType, now)
	err = s.repo.Create(ctx, pattern, entity.NewPatternEvent(pattern, entity.PatternActionCreated, now))
	if errors.Is(err, domainerror.ErrPatternConflict) {
		// Another confirmation created it first; reinforce theirs instead.
		logger.Info("Pattern created concurrently, reinforcing existing")
		existing, err = s.repo.FindActiveByFragment(ctx, input.TenantID, fragment, input.ReconciliationType)
		if err != nil {
			return nil, fmt.Errorf("failed to find pattern: %w", err)
		}
		if existing == nil {
			return nil, domainerror.ErrPatternConflict
		}
		return s.reinforceExisting(ctx, existing, input)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create pattern: %w", err)
	}

	logger.Info("Learned new reconciliation pattern", "patternID", pattern.ID.String())
	return pattern, nil
}

// Deactivate soft-deletes a pattern so it no longer produces suggestions.
func (s *PatternStore) Deactivate(ctx context.Context, tenantID, patternID uuid.UUID) (*entity.ReconciliationPattern, error) {
	pattern, err := s.repo.FindByID(ctx, tenantID, patternID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !pattern.Deactivate(now) {
		return pattern, nil
	}

	if err := s.repo.Update(ctx, pattern, entity.NewPatternEvent(pattern, entity.PatternActionDeactivated, now)); err != nil {
		return nil, fmt.Errorf("failed to deactivate pattern: %w", err)
	}

	slog.Default().Info("Deactivated reconciliation pattern",
		"tenantID", tenantID.String(),
		"patternID", patternID.String(),
	)
	return pattern, nil
}

// Get returns a pattern of the tenant, active or not.
func (s *PatternStore) Get(ctx context.Context, tenantID, patternID uuid.UUID) (*entity.ReconciliationPattern, error) {
	return s.repo.FindByID(ctx, tenantID, patternID)
}

// ListActive returns the tenant's active patterns in evaluation order.
func (s *PatternStore) ListActive(ctx context.Context, tenantID uuid.UUID) ([]*entity.ReconciliationPattern, error) {
	return s.activePatterns(ctx, tenantID)
}

// History returns the audit trail of a pattern.
func (s *PatternStore) History(ctx context.Context, tenantID, patternID uuid.UUID) ([]*entity.PatternEvent, error) {
	if _, err := s.repo.FindByID(ctx, tenantID, patternID); err != nil {
		return nil, err
	}
	events, err := s.repo.ListEvents(ctx, tenantID, patternID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pattern events: %w", err)
	}
	return events, nil
}

// BuildFragment derives the learned fragment of a description: its first keywords.
func BuildFragment(description string) string {
	return strings.Join(matching.Keywords(description, FragmentKeywordCount), " ")
}

func (s *PatternStore) reinforceExisting(ctx context.Context, pattern *entity.ReconciliationPattern, input ReinforceInput) (*entity.ReconciliationPattern, error) {
	now := s.clock.Now()
	pattern.Reinforce(input.CategoryID, input.EntryType, now)

	if err := s.repo.Update(ctx, pattern, entity.NewPatternEvent(pattern, entity.PatternActionReinforced, now)); err != nil {
		return nil, fmt.Errorf("failed to reinforce pattern: %w", err)
	}

	slog.Default().Info("Reinforced reconciliation pattern",
		"tenantID", input.TenantID.String(),
		"patternID", pattern.ID.String(),
		"timesUsed", pattern.TimesUsed,
		"confidence", pattern.Confidence,
	)
	return pattern, nil
}

func (s *PatternStore) activePatterns(ctx context.Context, tenantID uuid.UUID) ([]*entity.ReconciliationPattern, error) {
	patterns, err := s.repo.FindActive(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active patterns: %w", err)
	}

	active := make([]*entity.ReconciliationPattern, 0, len(patterns))
	for _, p := range patterns {
		if p.Active {
			active = append(active, p)
		}
	}
	sortPatterns(active)
	return active, nil
}

// firstMatchingPattern scans patterns in order and returns the first auto-match, if any.
func firstMatchingPattern(movement *entity.BankMovement, patterns []*entity.ReconciliationPattern) *AutoMatch {
	direction := movement.ResolvedDirection()
	for _, p := range patterns {
		if !p.ReconciliationType.AcceptsDirection(direction) {
			continue
		}
		score := matching.TextSimilarity(movement.Description, p.DescriptionFragment)
		if score >= PatternAutoMatchScore {
			return &AutoMatch{Movement: movement, Pattern: p, Score: score}
		}
	}
	return nil
}

// sortPatterns orders patterns by times used, then confidence, then age, then ID.
func sortPatterns(patterns []*entity.ReconciliationPattern) {
	sort.SliceStable(patterns, func(i, j int) bool {
		a, b := patterns[i], patterns[j]
		if a.TimesUsed != b.TimesUsed {
			return a.TimesUsed > b.TimesUsed
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}
