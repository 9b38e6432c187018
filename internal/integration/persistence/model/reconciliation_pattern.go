// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/decor-finance/backend/internal/domain/entity"
)

// ReconciliationPatternModel represents the reconciliation_patterns table in the database.
// At most one active pattern exists per tenant, fragment and type.
type ReconciliationPatternModel struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID            uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_patterns_active_fragment,where:active = true;index"`
	DescriptionFragment string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_patterns_active_fragment,where:active = true"`
	ReconciliationType  string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_patterns_active_fragment,where:active = true"`
	CategoryID          *uuid.UUID `gorm:"type:uuid"`
	EntryType           *string    `gorm:"type:varchar(50)"`
	TimesUsed           int        `gorm:"not null;default:1"`
	Confidence          int        `gorm:"not null;default:50"`
	Active              bool       `gorm:"not null;default:true"`
	Version             int        `gorm:"not null;default:1"`
	LastUsedAt          time.Time  `gorm:"not null"`
	DeactivatedAt       *time.Time `gorm:"type:timestamp"`
	CreatedAt           time.Time  `gorm:"not null"`
	UpdatedAt           time.Time  `gorm:"not null"`
}

// TableName returns the table name for the ReconciliationPatternModel.
func (ReconciliationPatternModel) TableName() string {
	return "reconciliation_patterns"
}

// ToEntity converts a ReconciliationPatternModel to a domain entity.
func (m *ReconciliationPatternModel) ToEntity() *entity.ReconciliationPattern {
	return &entity.ReconciliationPattern{
		ID:                  m.ID,
		TenantID:            m.TenantID,
		DescriptionFragment: m.DescriptionFragment,
		ReconciliationType:  entity.ReconciliationType(m.ReconciliationType),
		CategoryID:          m.CategoryID,
		EntryType:           m.EntryType,
		TimesUsed:           m.TimesUsed,
		Confidence:          m.Confidence,
		Active:              m.Active,
		Version:             m.Version,
		LastUsedAt:          m.LastUsedAt,
		DeactivatedAt:       m.DeactivatedAt,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// ReconciliationPatternFromEntity creates a ReconciliationPatternModel from a domain entity.
func ReconciliationPatternFromEntity(p *entity.ReconciliationPattern) *ReconciliationPatternModel {
	return &ReconciliationPatternModel{
		ID:                  p.ID,
		TenantID:            p.TenantID,
		DescriptionFragment: p.DescriptionFragment,
		ReconciliationType:  string(p.ReconciliationType),
		CategoryID:          p.CategoryID,
		EntryType:           p.EntryType,
		TimesUsed:           p.TimesUsed,
		Confidence:          p.Confidence,
		Active:              p.Active,
		Version:             p.Version,
		LastUsedAt:          p.LastUsedAt,
		DeactivatedAt:       p.DeactivatedAt,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

// PatternEventModel represents the reconciliation_pattern_events table (append-only audit trail).
type PatternEventModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PatternID  uuid.UUID `gorm:"type:uuid;not null;index"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Action     string    `gorm:"type:varchar(20);not null"`
	Version    int       `gorm:"not null"`
	TimesUsed  int       `gorm:"not null"`
	Confidence int       `gorm:"not null"`
	Active     bool      `gorm:"not null"`
	OccurredAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for the PatternEventModel.
func (PatternEventModel) TableName() string {
	return "reconciliation_pattern_events"
}

// ToEntity converts a PatternEventModel to a domain PatternEvent entity.
func (m *PatternEventModel) ToEntity() *entity.PatternEvent {
	return &entity.PatternEvent{
		ID:         m.ID,
		PatternID:  m.PatternID,
		TenantID:   m.TenantID,
		Action:     entity.PatternAction(m.Action),
		Version:    m.Version,
		TimesUsed:  m.TimesUsed,
		Confidence: m.Confidence,
		Active:     m.Active,
		OccurredAt: m.OccurredAt,
	}
}

// PatternEventFromEntity creates a PatternEventModel from a domain PatternEvent entity.
func PatternEventFromEntity(e *entity.PatternEvent) *PatternEventModel {
	return &PatternEventModel{
		ID:         e.ID,
		PatternID:  e.PatternID,
		TenantID:   e.TenantID,
		Action:     string(e.Action),
		Version:    e.Version,
		TimesUsed:  e.TimesUsed,
		Confidence: e.Confidence,
		Active:     e.Active,
		OccurredAt: e.OccurredAt,
	}
}
