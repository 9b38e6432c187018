// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/decor-finance/backend/internal/application/usecase/reconciliation"
	"github.com/decor-finance/backend/internal/domain/entity"
	"github.com/decor-finance/backend/internal/domain/valueobject"
)

const dateLayout = "2006-01-02"

// MovementDTO represents a bank movement in responses.
type MovementDTO struct {
	ID                 string  `json:"id"`
	Description        string  `json:"description"`
	Amount             string  `json:"amount"`
	Direction          string  `json:"direction"`
	MovementDate       string  `json:"movement_date"`
	Reconciled         bool    `json:"reconciled"`
	ReconciliationType *string `json:"reconciliation_type,omitempty"`
	LinkedKind         *string `json:"linked_kind,omitempty"`
	LinkedRecordID     *string `json:"linked_record_id,omitempty"`
	PatternID          *string `json:"pattern_id,omitempty"`
	ReconciledAt       *string `json:"reconciled_at,omitempty"`
}

// CandidateDTO represents an open record proposed for a movement.
type CandidateDTO struct {
	Kind          string `json:"kind"`
	ID            string `json:"id"`
	DisplayName   string `json:"display_name"`
	Description   string `json:"description,omitempty"`
	Amount        string `json:"amount"`
	ReferenceDate string `json:"reference_date"`
	Status        string `json:"status"`
	QuoteCode     string `json:"quote_code,omitempty"`
}

// ScoreDTO represents the score breakdown of a movement and candidate pair.
type ScoreDTO struct {
	TextScore      int      `json:"text_score"`
	ValueScore     int      `json:"value_score"`
	DateScore      int      `json:"date_score"`
	CompositeScore int      `json:"composite_score"`
	Confidence     string   `json:"confidence"`
	MatchReasons   []string `json:"match_reasons"`
}

// SuggestionDTO represents a scored candidate.
type SuggestionDTO struct {
	Candidate CandidateDTO `json:"candidate"`
	Score     ScoreDTO     `json:"score"`
}

// SuggestionsResponseDTO represents the response for GET /reconciliation/movements/:id/suggestions.
type SuggestionsResponseDTO struct {
	Movement    MovementDTO     `json:"movement"`
	Receivables []SuggestionDTO `json:"receivables"`
	Payables    []SuggestionDTO `json:"payables"`
	Quotes      []SuggestionDTO `json:"quotes"`
	Unavailable []string        `json:"unavailable,omitempty"` // Candidate kinds that could not be loaded
}

// PatternDTO represents a learned reconciliation pattern.
type PatternDTO struct {
	ID                  string  `json:"id"`
	DescriptionFragment string  `json:"description_fragment"`
	ReconciliationType  string  `json:"reconciliation_type"`
	CategoryID          *string `json:"category_id,omitempty"`
	EntryType           *string `json:"entry_type,omitempty"`
	TimesUsed           int     `json:"times_used"`
	Confidence          int     `json:"confidence"`
	Active              bool    `json:"active"`
	LastUsedAt          string  `json:"last_used_at"`
	CreatedAt           string  `json:"created_at"`
}

// PatternSuggestionDTO represents a learned pattern proposed for a movement.
type PatternSuggestionDTO struct {
	Pattern  PatternDTO `json:"pattern"`
	RawScore int        `json:"raw_score"`
	Score    int        `json:"score"`
}

// PatternSuggestionsResponseDTO represents the response for GET /reconciliation/movements/:id/pattern-suggestions.
type PatternSuggestionsResponseDTO struct {
	Movement    MovementDTO            `json:"movement"`
	Suggestions []PatternSuggestionDTO `json:"suggestions"`
}

// ExplainResponseDTO represents the response for GET /reconciliation/movements/:id/explain.
type ExplainResponseDTO struct {
	Movement  MovementDTO  `json:"movement"`
	Candidate CandidateDTO `json:"candidate"`
	Score     ScoreDTO     `json:"score"`
}

// ConfirmMatchRequestDTO represents the request for POST /reconciliation/movements/:id/confirm.
// Either candidate_kind with candidate_id, a pattern_id, or a reconciliation_type is required.
type ConfirmMatchRequestDTO struct {
	CandidateKind      *string `json:"candidate_kind"`
	CandidateID        *string `json:"candidate_id"`
	PatternID          *string `json:"pattern_id"`
	ReconciliationType *string `json:"reconciliation_type"`
	CategoryID         *string `json:"category_id"`
	EntryType          *string `json:"entry_type"`
}

// ConfirmMatchResponseDTO represents the response for POST /reconciliation/movements/:id/confirm.
type ConfirmMatchResponseDTO struct {
	Movement  MovementDTO   `json:"movement"`
	Candidate *CandidateDTO `json:"candidate,omitempty"`
	Pattern   *PatternDTO   `json:"pattern,omitempty"`
}

// AutoMatchRequestDTO represents the request for POST /reconciliation/auto-matches.
type AutoMatchRequestDTO struct {
	MovementIDs []string `json:"movement_ids"` // Optional - if empty, all pending movements
}

// AutoMatchDTO represents one high-confidence pattern match.
type AutoMatchDTO struct {
	MovementID  string     `json:"movement_id"`
	Description string     `json:"description"`
	Pattern     PatternDTO `json:"pattern"`
	Score       int        `json:"score"`
}

// AutoMatchResponseDTO represents the response for POST /reconciliation/auto-matches.
type AutoMatchResponseDTO struct {
	Evaluated int            `json:"evaluated"`
	Matches   []AutoMatchDTO `json:"matches"`
}

// PatternListResponseDTO represents the response for GET /reconciliation/patterns.
type PatternListResponseDTO struct {
	Patterns []PatternDTO `json:"patterns"`
}

// PatternEventDTO represents one entry of a pattern audit trail.
type PatternEventDTO struct {
	Action     string `json:"action"`
	Version    int    `json:"version"`
	TimesUsed  int    `json:"times_used"`
	Confidence int    `json:"confidence"`
	Active     bool   `json:"active"`
	OccurredAt string `json:"occurred_at"`
}

// PatternHistoryResponseDTO represents the response for GET /reconciliation/patterns/:id/history.
type PatternHistoryResponseDTO struct {
	PatternID string            `json:"pattern_id"`
	Events    []PatternEventDTO `json:"events"`
}

// ToMovementDTO converts a domain BankMovement to a MovementDTO.
func ToMovementDTO(m *entity.BankMovement) MovementDTO {
	out := MovementDTO{
		ID:           m.ID.String(),
		Description:  m.Description,
		Amount:       m.Amount.StringFixed(2),
		Direction:    string(m.ResolvedDirection()),
		MovementDate: m.MovementDate.Format(dateLayout),
		Reconciled:   m.Reconciled,
	}
	if m.ReconciliationType != nil {
		t := string(*m.ReconciliationType)
		out.ReconciliationType = &t
	}
	if m.LinkedKind != nil {
		k := string(*m.LinkedKind)
		out.LinkedKind = &k
	}
	if m.LinkedRecordID != nil {
		id := m.LinkedRecordID.String()
		out.LinkedRecordID = &id
	}
	if m.PatternID != nil {
		id := m.PatternID.String()
		out.PatternID = &id
	}
	if m.ReconciledAt != nil {
		at := m.ReconciledAt.UTC().Format(time.RFC3339)
		out.ReconciledAt = &at
	}
	return out
}

// ToCandidateDTO converts a domain Candidate to a CandidateDTO.
func ToCandidateDTO(c entity.Candidate) CandidateDTO {
	return CandidateDTO{
		Kind:          string(c.Kind),
		ID:            c.ID.String(),
		DisplayName:   c.DisplayName,
		Description:   c.Description,
		Amount:        c.Amount.StringFixed(2),
		ReferenceDate: c.ReferenceDate.Format(dateLayout),
		Status:        c.OpenStatus,
		QuoteCode:     c.QuoteCode,
	}
}

// ToScoreDTO converts a SimilarityResult to a ScoreDTO.
func ToScoreDTO(r valueobject.SimilarityResult) ScoreDTO {
	reasons := r.MatchReasons
	if reasons == nil {
		reasons = []string{}
	}
	return ScoreDTO{
		TextScore:      r.TextScore,
		ValueScore:     r.ValueScore,
		DateScore:      r.DateScore,
		CompositeScore: r.CompositeScore,
		Confidence:     string(r.Tier),
		MatchReasons:   reasons,
	}
}

// ToSuggestionDTOs converts ranked suggestions to DTOs.
func ToSuggestionDTOs(suggestions []reconciliation.Suggestion) []SuggestionDTO {
	out := make([]SuggestionDTO, len(suggestions))
	for i, s := range suggestions {
		out[i] = SuggestionDTO{
			Candidate: ToCandidateDTO(s.Candidate),
			Score:     ToScoreDTO(s.Result),
		}
	}
	return out
}

// ToPatternDTO converts a domain ReconciliationPattern to a PatternDTO.
func ToPatternDTO(p *entity.ReconciliationPattern) PatternDTO {
	out := PatternDTO{
		ID:                  p.ID.String(),
		DescriptionFragment: p.DescriptionFragment,
		ReconciliationType:  string(p.ReconciliationType),
		EntryType:           p.EntryType,
		TimesUsed:           p.TimesUsed,
		Confidence:          p.Confidence,
		Active:              p.Active,
		LastUsedAt:          p.LastUsedAt.UTC().Format(time.RFC3339),
		CreatedAt:           p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.CategoryID != nil {
		id := p.CategoryID.String()
		out.CategoryID = &id
	}
	return out
}

// ToPatternDTOs converts domain patterns to DTOs.
func ToPatternDTOs(patterns []*entity.ReconciliationPattern) []PatternDTO {
	out := make([]PatternDTO, len(patterns))
	for i, p := range patterns {
		out[i] = ToPatternDTO(p)
	}
	return out
}

// ToPatternEventDTO converts a domain PatternEvent to a PatternEventDTO.
func ToPatternEventDTO(e *entity.PatternEvent) PatternEventDTO {
	return PatternEventDTO{
		Action:     string(e.Action),
		Version:    e.Version,
		TimesUsed:  e.TimesUsed,
		Confidence: e.Confidence,
		Active:     e.Active,
		OccurredAt: e.OccurredAt.UTC().Format(time.RFC3339),
	}
}
