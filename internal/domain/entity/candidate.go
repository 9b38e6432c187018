// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CandidateKind identifies the kind of open record a movement can settle.
type CandidateKind string

const (
	CandidateKindReceivable CandidateKind = "receivable_installment"
	CandidateKindPayable    CandidateKind = "payable"
	CandidateKindQuote      CandidateKind = "quote"
)

// IsValid checks if the candidate kind is known.
func (k CandidateKind) IsValid() bool {
	switch k {
	case CandidateKindReceivable, CandidateKindPayable, CandidateKindQuote:
		return true
	}
	return false
}

// ReconciliationType returns the reconciliation type recorded when this kind is confirmed.
func (k CandidateKind) ReconciliationType() ReconciliationType {
	switch k {
	case CandidateKindPayable:
		return ReconciliationTypePayable
	case CandidateKindQuote:
		return ReconciliationTypeQuote
	default:
		return ReconciliationTypeReceivable
	}
}

// Candidate is the uniform projection of an open financial record used for scoring.
type Candidate struct {
	Kind          CandidateKind
	ID            uuid.UUID
	DisplayName   string // Client, debtor or supplier
	Description   string
	Amount        decimal.Decimal // Always the amount still expected
	ReferenceDate time.Time       // Due date, or last update for quotes
	OpenStatus    string
	QuoteCode     string
}
