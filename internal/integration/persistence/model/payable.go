// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/decor-finance/backend/internal/domain/entity"
)

// PayableModel represents the payables table in the database.
type PayableModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_payables_tenant_status,priority:1"`
	SupplierName string          `gorm:"type:varchar(255);not null"`
	Description  string          `gorm:"type:varchar(500)"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	DueDate      time.Time       `gorm:"type:date;not null"`
	Status       string          `gorm:"type:varchar(20);not null;index:idx_payables_tenant_status,priority:2"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for the PayableModel.
func (PayableModel) TableName() string {
	return "payables"
}

// ToEntity converts a PayableModel to a domain Payable entity.
func (m *PayableModel) ToEntity() *entity.Payable {
	return &entity.Payable{
		ID:           m.ID,
		TenantID:     m.TenantID,
		SupplierName: m.SupplierName,
		Description:  m.Description,
		Amount:       m.Amount,
		DueDate:      m.DueDate,
		Status:       entity.PayableStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
