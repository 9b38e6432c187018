// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReconciliationType is what a confirmed movement was reconciled as.
type ReconciliationType string

const (
	ReconciliationTypeReceivable ReconciliationType = "receivable"
	ReconciliationTypePayable    ReconciliationType = "payable"
	ReconciliationTypeQuote      ReconciliationType = "quote"
	ReconciliationTypeRevenue    ReconciliationType = "revenue"
	ReconciliationTypeExpense    ReconciliationType = "expense"
	ReconciliationTypeTransfer   ReconciliationType = "transfer"
)

// IsValid checks if the reconciliation type is known.
func (t ReconciliationType) IsValid() bool {
	switch t {
	case ReconciliationTypeReceivable, ReconciliationTypePayable, ReconciliationTypeQuote,
		ReconciliationTypeRevenue, ReconciliationTypeExpense, ReconciliationTypeTransfer:
		return true
	}
	return false
}

// AcceptsDirection reports whether movements in the given direction can use this type.
// Quotes and transfers accept both directions.
func (t ReconciliationType) AcceptsDirection(d Direction) bool {
	switch t {
	case ReconciliationTypeReceivable, ReconciliationTypeRevenue:
		return d == DirectionCredit
	case ReconciliationTypePayable, ReconciliationTypeExpense:
		return d == DirectionDebit
	case ReconciliationTypeQuote, ReconciliationTypeTransfer:
		return true
	}
	return false
}

const (
	// PatternInitialConfidence is the confidence of a freshly learned pattern.
	PatternInitialConfidence = 50
	// PatternConfidenceStep is added on each reinforcement.
	PatternConfidenceStep = 5
	// PatternMaxConfidence caps reinforcement.
	PatternMaxConfidence = 100
)

// ReconciliationPattern is a description fragment learned from confirmed reconciliations.
// Patterns are never hard-deleted; rejection only deactivates them.
type ReconciliationPattern struct {
	ID                  uuid.UUID
	TenantID            uuid.UUID
	DescriptionFragment string
	ReconciliationType  ReconciliationType
	CategoryID          *uuid.UUID
	EntryType           *string
	TimesUsed           int
	Confidence          int
	Active              bool
	Version             int
	LastUsedAt          time.Time
	DeactivatedAt       *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewReconciliationPattern creates a pattern from its first confirmation.
func NewReconciliationPattern(
	tenantID uuid.UUID,
	fragment string,
	reconciliationType ReconciliationType,
	categoryID *uuid.UUID,
	entryType *string,
	now time.Time,
) *ReconciliationPattern {
	return &ReconciliationPattern{
		ID:                  uuid.New(),
		TenantID:            tenantID,
		DescriptionFragment: fragment,
		ReconciliationType:  reconciliationType,
		CategoryID:          categoryID,
		EntryType:           entryType,
		TimesUsed:           1,
		Confidence:          PatternInitialConfidence,
		Active:              true,
		Version:             1,
		LastUsedAt:          now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// Reinforce records another confirmation of the pattern.
// Category and entry type are refreshed only when given.
func (p *ReconciliationPattern) Reinforce(categoryID *uuid.UUID, entryType *string, now time.Time) {
	p.TimesUsed++
	p.Confidence += PatternConfidenceStep
	if p.Confidence > PatternMaxConfidence {
		p.Confidence = PatternMaxConfidence
	}
	if categoryID != nil {
		p.CategoryID = categoryID
	}
	if entryType != nil {
		p.EntryType = entryType
	}
	p.Version++
	p.LastUsedAt = now
	p.UpdatedAt = now
}

// Deactivate soft-deletes the pattern. It reports false when already inactive.
func (p *ReconciliationPattern) Deactivate(now time.Time) bool {
	if !p.Active {
		return false
	}
	p.Active = false
	p.DeactivatedAt = &now
	p.Version++
	p.UpdatedAt = now
	return true
}

// PatternAction names a change recorded in the pattern audit trail.
type PatternAction string

const (
	PatternActionCreated     PatternAction = "created"
	PatternActionReinforced  PatternAction = "reinforced"
	PatternActionDeactivated PatternAction = "deactivated"
)

// PatternEvent is an append-only snapshot of a pattern after a change.
type PatternEvent struct {
	ID         uuid.UUID
	PatternID  uuid.UUID
	TenantID   uuid.UUID
	Action     PatternAction
	Version    int
	TimesUsed  int
	Confidence int
	Active     bool
	OccurredAt time.Time
}

// NewPatternEvent snapshots the pattern for the audit trail.
func NewPatternEvent(p *ReconciliationPattern, action PatternAction, at time.Time) *PatternEvent {
	return &PatternEvent{
		ID:         uuid.New(),
		PatternID:  p.ID,
		TenantID:   p.TenantID,
		Action:     action,
		Version:    p.Version,
		TimesUsed:  p.TimesUsed,
		Confidence: p.Confidence,
		Active:     p.Active,
		OccurredAt: at,
	}
}
