// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayableStatus represents the payment status of a supplier payable.
type PayableStatus string

const (
	PayableStatusPending   PayableStatus = "pending"
	PayableStatusOverdue   PayableStatus = "overdue"
	PayableStatusPaid      PayableStatus = "paid"
	PayableStatusCancelled PayableStatus = "cancelled"
)

// OpenPayableStatuses lists statuses that still expect a payment.
func OpenPayableStatuses() []PayableStatus {
	return []PayableStatus{PayableStatusPending, PayableStatusOverdue}
}

// Payable is an amount owed to a supplier (fabric, rails, installation labour).
type Payable struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	SupplierName string
	Description  string
	Amount       decimal.Decimal
	DueDate      time.Time
	Status       PayableStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ToCandidate projects the payable for scoring.
func (p *Payable) ToCandidate() Candidate {
	return Candidate{
		Kind:          CandidateKindPayable,
		ID:            p.ID,
		DisplayName:   p.SupplierName,
		Description:   p.Description,
		Amount:        p.Amount,
		ReferenceDate: p.DueDate,
		OpenStatus:    string(p.Status),
	}
}
