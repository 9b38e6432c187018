// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/decor-finance/backend/internal/domain/entity"
)

// BankMovementModel represents the bank_movements table in the database.
type BankMovementModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_bank_movements_tenant_pending,priority:1"`
	BankAccountID *uuid.UUID      `gorm:"type:uuid;index"`
	Description   string          `gorm:"type:varchar(500);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Direction     string          `gorm:"type:varchar(10);not null"`
	MovementDate  time.Time       `gorm:"type:date;not null;index"`
	Reconciled    bool            `gorm:"not null;default:false;index:idx_bank_movements_tenant_pending,priority:2"`
	Ignored       bool            `gorm:"not null;default:false"`

	// Reconciliation link
	ReconciliationType *string    `gorm:"type:varchar(20)"`
	LinkedKind         *string    `gorm:"type:varchar(30)"`
	LinkedRecordID     *uuid.UUID `gorm:"type:uuid"`
	PatternID          *uuid.UUID `gorm:"type:uuid;index"`
	ReconciledAt       *time.Time `gorm:"type:timestamp"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the BankMovementModel.
func (BankMovementModel) TableName() string {
	return "bank_movements"
}

// ToEntity converts a BankMovementModel to a domain BankMovement entity.
func (m *BankMovementModel) ToEntity() *entity.BankMovement {
	movement := &entity.BankMovement{
		ID:             m.ID,
		TenantID:       m.TenantID,
		BankAccountID:  m.BankAccountID,
		Description:    m.Description,
		Amount:         m.Amount,
		Direction:      entity.Direction(m.Direction),
		MovementDate:   m.MovementDate,
		Reconciled:     m.Reconciled,
		Ignored:        m.Ignored,
		LinkedRecordID: m.LinkedRecordID,
		PatternID:      m.PatternID,
		ReconciledAt:   m.ReconciledAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}

	if m.ReconciliationType != nil {
		t := entity.ReconciliationType(*m.ReconciliationType)
		movement.ReconciliationType = &t
	}
	if m.LinkedKind != nil {
		k := entity.CandidateKind(*m.LinkedKind)
		movement.LinkedKind = &k
	}

	return movement
}

// BankMovementFromEntity creates a BankMovementModel from a domain BankMovement entity.
func BankMovementFromEntity(movement *entity.BankMovement) *BankMovementModel {
	m := &BankMovementModel{
		ID:             movement.ID,
		TenantID:       movement.TenantID,
		BankAccountID:  movement.BankAccountID,
		Description:    movement.Description,
		Amount:         movement.Amount,
		Direction:      string(movement.Direction),
		MovementDate:   movement.MovementDate,
		Reconciled:     movement.Reconciled,
		Ignored:        movement.Ignored,
		LinkedRecordID: movement.LinkedRecordID,
		PatternID:      movement.PatternID,
		ReconciledAt:   movement.ReconciledAt,
		CreatedAt:      movement.CreatedAt,
		UpdatedAt:      movement.UpdatedAt,
	}

	if movement.ReconciliationType != nil {
		t := string(*movement.ReconciliationType)
		m.ReconciliationType = &t
	}
	if movement.LinkedKind != nil {
		k := string(*movement.LinkedKind)
		m.LinkedKind = &k
	}

	return m
}
