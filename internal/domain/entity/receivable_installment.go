// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentStatus represents the payment status of a receivable installment.
type InstallmentStatus string

const (
	InstallmentStatusPending   InstallmentStatus = "pending"
	InstallmentStatusPartial   InstallmentStatus = "partial"
	InstallmentStatusOverdue   InstallmentStatus = "overdue"
	InstallmentStatusPaid      InstallmentStatus = "paid"
	InstallmentStatusCancelled InstallmentStatus = "cancelled"
)

// OpenInstallmentStatuses lists statuses that still expect a payment.
func OpenInstallmentStatuses() []InstallmentStatus {
	return []InstallmentStatus{InstallmentStatusPending, InstallmentStatusPartial, InstallmentStatusOverdue}
}

// IsOpen checks if the status still expects a payment.
func (s InstallmentStatus) IsOpen() bool {
	switch s {
	case InstallmentStatusPending, InstallmentStatusPartial, InstallmentStatusOverdue:
		return true
	}
	return false
}

// ReceivableInstallment is one installment of a client receivable account.
type ReceivableInstallment struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	ReceivableID uuid.UUID
	Number       int
	ClientName   string
	Description  string // Receivable account description
	QuoteCode    string // Quote the receivable originated from, if any
	Amount       decimal.Decimal
	PaidAmount   decimal.Decimal
	DueDate      time.Time
	Status       InstallmentStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OpenAmount returns what is still owed on the installment.
func (i *ReceivableInstallment) OpenAmount() decimal.Decimal {
	open := i.Amount.Sub(i.PaidAmount)
	if !open.IsPositive() {
		return i.Amount
	}
	return open
}

// ToCandidate projects the installment for scoring.
func (i *ReceivableInstallment) ToCandidate() Candidate {
	return Candidate{
		Kind:          CandidateKindReceivable,
		ID:            i.ID,
		DisplayName:   i.ClientName,
		Description:   i.Description,
		Amount:        i.OpenAmount(),
		ReferenceDate: i.DueDate,
		OpenStatus:    string(i.Status),
		QuoteCode:     i.QuoteCode,
	}
}
