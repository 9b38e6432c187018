// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteStatus represents where a client quote is in its sales lifecycle.
type QuoteStatus string

const (
	QuoteStatusDraft           QuoteStatus = "draft"
	QuoteStatusSent            QuoteStatus = "sent"
	QuoteStatusApproved        QuoteStatus = "approved"
	QuoteStatusAwaitingPayment QuoteStatus = "awaiting_payment"
	QuoteStatusDepositPending  QuoteStatus = "deposit_pending"
	QuoteStatusPartiallyPaid   QuoteStatus = "partially_paid"
	QuoteStatusPaid            QuoteStatus = "paid"
	QuoteStatusRejected        QuoteStatus = "rejected"
	QuoteStatusCancelled       QuoteStatus = "cancelled"
)

// AwaitingPaymentQuoteStatuses lists the statuses where the client still owes money.
func AwaitingPaymentQuoteStatuses() []QuoteStatus {
	return []QuoteStatus{
		QuoteStatusApproved,
		QuoteStatusAwaitingPayment,
		QuoteStatusDepositPending,
		QuoteStatusPartiallyPaid,
	}
}

// Quote is a client quote for made-to-measure work.
type Quote struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Code        string // Human-facing reference, e.g. "ORC-2024-0153"
	ClientName  string
	Title       string
	TotalAmount decimal.Decimal
	PaidAmount  decimal.Decimal
	Status      QuoteStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OpenBalance returns the amount the client still owes.
func (q *Quote) OpenBalance() decimal.Decimal {
	open := q.TotalAmount.Sub(q.PaidAmount)
	if open.IsNegative() {
		return decimal.Zero
	}
	return open
}

// ToCandidate projects the quote for scoring.
func (q *Quote) ToCandidate() Candidate {
	return Candidate{
		Kind:          CandidateKindQuote,
		ID:            q.ID,
		DisplayName:   q.ClientName,
		Description:   q.Title,
		Amount:        q.OpenBalance(),
		ReferenceDate: q.UpdatedAt,
		OpenStatus:    string(q.Status),
		QuoteCode:     q.Code,
	}
}
