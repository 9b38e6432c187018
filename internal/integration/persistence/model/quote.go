// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/decor-finance/backend/internal/domain/entity"
)

// QuoteModel represents the quotes table in the database.
type QuoteModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_quotes_tenant_status,priority:1"`
	Code        string          `gorm:"type:varchar(30);not null"`
	ClientName  string          `gorm:"type:varchar(255);not null"`
	Title       string          `gorm:"type:varchar(255)"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PaidAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Status      string          `gorm:"type:varchar(20);not null;index:idx_quotes_tenant_status,priority:2"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the QuoteModel.
func (QuoteModel) TableName() string {
	return "quotes"
}

// ToEntity converts a QuoteModel to a domain Quote entity.
func (m *QuoteModel) ToEntity() *entity.Quote {
	return &entity.Quote{
		ID:          m.ID,
		TenantID:    m.TenantID,
		Code:        m.Code,
		ClientName:  m.ClientName,
		Title:       m.Title,
		TotalAmount: m.TotalAmount,
		PaidAmount:  m.PaidAmount,
		Status:      entity.QuoteStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
