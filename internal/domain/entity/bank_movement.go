// Package entity defines the core business entities for the domain layer.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction is the side of the bank statement a movement sits on.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// IsValid checks if the direction is credit or debit.
func (d Direction) IsValid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

// BankMovement represents one imported bank statement line.
// Amount is signed: credits are positive, debits negative.
type BankMovement struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	BankAccountID *uuid.UUID
	Description   string
	Amount        decimal.Decimal
	Direction     Direction
	MovementDate  time.Time
	Reconciled    bool
	Ignored       bool

	// Set once a match is confirmed
	ReconciliationType *ReconciliationType
	LinkedKind         *CandidateKind
	LinkedRecordID     *uuid.UUID
	PatternID          *uuid.UUID
	ReconciledAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResolvedDirection returns the stored direction, falling back to the amount sign.
func (m *BankMovement) ResolvedDirection() Direction {
	if m.Direction.IsValid() {
		return m.Direction
	}
	if m.Amount.IsNegative() {
		return DirectionDebit
	}
	return DirectionCredit
}

// AbsAmount returns the unsigned movement amount.
func (m *BankMovement) AbsAmount() decimal.Decimal {
	return m.Amount.Abs()
}

// IsMatchable reports whether the movement carries enough data to be scored.
// Description, amount and date are all required.
func (m *BankMovement) IsMatchable() bool {
	if m == nil || m.ID == uuid.Nil || m.TenantID == uuid.Nil {
		return false
	}
	return strings.TrimSpace(m.Description) != "" && !m.Amount.IsZero() && !m.MovementDate.IsZero()
}

// IsPending reports whether the movement still awaits reconciliation.
func (m *BankMovement) IsPending() bool {
	return !m.Reconciled && !m.Ignored
}

// ReconciliationLink describes what a movement was reconciled against.
type ReconciliationLink struct {
	Type      ReconciliationType
	Kind      *CandidateKind
	RecordID  *uuid.UUID
	PatternID *uuid.UUID
}

// MarkReconciled flags the movement as reconciled with the given link.
func (m *BankMovement) MarkReconciled(link ReconciliationLink, at time.Time) {
	reconciliationType := link.Type
	m.Reconciled = true
	m.ReconciliationType = &reconciliationType
	m.LinkedKind = link.Kind
	m.LinkedRecordID = link.RecordID
	m.PatternID = link.PatternID
	m.ReconciledAt = &at
	m.UpdatedAt = at
}
