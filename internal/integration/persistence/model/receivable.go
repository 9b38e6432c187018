// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/decor-finance/backend/internal/domain/entity"
)

// ReceivableModel represents the receivables table: a client account split into installments.
type ReceivableModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ClientName  string     `gorm:"type:varchar(255);not null"`
	Description string     `gorm:"type:varchar(500)"`
	QuoteID     *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Quote *QuoteModel `gorm:"foreignKey:QuoteID;references:ID"`
}

// TableName returns the table name for the ReceivableModel.
func (ReceivableModel) TableName() string {
	return "receivables"
}

// ReceivableInstallmentModel represents the receivable_installments table in the database.
type ReceivableInstallmentModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_installments_tenant_status,priority:1"`
	ReceivableID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Number       int             `gorm:"not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PaidAmount   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	DueDate      time.Time       `gorm:"type:date;not null"`
	Status       string          `gorm:"type:varchar(20);not null;index:idx_installments_tenant_status,priority:2"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Receivable *ReceivableModel `gorm:"foreignKey:ReceivableID;references:ID"`
}

// TableName returns the table name for the ReceivableInstallmentModel.
func (ReceivableInstallmentModel) TableName() string {
	return "receivable_installments"
}

// ToEntity converts a ReceivableInstallmentModel to a domain entity.
// Client, description and quote code come from the preloaded receivable.
func (m *ReceivableInstallmentModel) ToEntity() *entity.ReceivableInstallment {
	installment := &entity.ReceivableInstallment{
		ID:           m.ID,
		TenantID:     m.TenantID,
		ReceivableID: m.ReceivableID,
		Number:       m.Number,
		Amount:       m.Amount,
		PaidAmount:   m.PaidAmount,
		DueDate:      m.DueDate,
		Status:       entity.InstallmentStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}

	if m.Receivable != nil {
		installment.ClientName = m.Receivable.ClientName
		installment.Description = m.Receivable.Description
		if m.Receivable.Quote != nil {
			installment.QuoteCode = m.Receivable.Quote.Code
		}
	}

	return installment
}
