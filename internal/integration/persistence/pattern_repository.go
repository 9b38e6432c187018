// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/decor-finance/backend/internal/application/adapter"
	"github.com/decor-finance/backend/internal/domain/entity"
	domainerror "github.com/decor-finance/backend/internal/domain/error"
	"github.com/decor-finance/backend/internal/integration/persistence/model"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// patternRepository implements the adapter.PatternRepository interface.
type patternRepository struct {
	db *gorm.DB
}

// NewPatternRepository creates a new reconciliation pattern repository instance.
func NewPatternRepository(db *gorm.DB) adapter.PatternRepository {
	return &patternRepository{
		db: db,
	}
}

// Create inserts a new pattern and its creation event in one transaction.
func (r *patternRepository) Create(ctx context.Context, pattern *entity.ReconciliationPattern, event *entity.PatternEvent) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model.ReconciliationPatternFromEntity(pattern)).Error; err != nil {
			return err
		}
		if event != nil {
			return tx.Create(model.PatternEventFromEntity(event)).Error
		}
		return nil
	})
	if isUniqueViolation(err) {
		return domainerror.ErrPatternConflict
	}
	return err
}

// Update saves a changed pattern and its event. Concurrent updates are not locked:
// the last write wins and every write keeps its event.
func (r *patternRepository) Update(ctx context.Context, pattern *entity.ReconciliationPattern, event *entity.PatternEvent) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.ReconciliationPatternModel{}).
			Where("id = ? AND tenant_id = ?", pattern.ID, pattern.TenantID).
			Updates(map[string]interface{}{
				"category_id":    pattern.CategoryID,
				"entry_type":     pattern.EntryType,
				"times_used":     pattern.TimesUsed,
				"confidence":     pattern.Confidence,
				"active":         pattern.Active,
				"version":        pattern.Version,
				"last_used_at":   pattern.LastUsedAt,
				"deactivated_at": pattern.DeactivatedAt,
				"updated_at":     pattern.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrPatternNotFound
		}
		if event != nil {
			return tx.Create(model.PatternEventFromEntity(event)).Error
		}
		return nil
	})
	if isUniqueViolation(err) {
		return domainerror.ErrPatternConflict
	}
	return err
}

// FindByID retrieves a tenant's pattern, active or not.
func (r *patternRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.ReconciliationPattern, error) {
	var patternModel model.ReconciliationPatternModel
	result := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&patternModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrPatternNotFound
		}
		return nil, result.Error
	}
	return patternModel.ToEntity(), nil
}

// FindActiveByFragment retrieves the active pattern for a fragment and type, or nil when none exists.
func (r *patternRepository) FindActiveByFragment(ctx context.Context, tenantID uuid.UUID, fragment string, reconciliationType entity.ReconciliationType) (*entity.ReconciliationPattern, error) {
	var patternModels []model.ReconciliationPatternModel
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND description_fragment = ? AND reconciliation_type = ? AND active = ?",
			tenantID, fragment, string(reconciliationType), true).
		Limit(1).
		Find(&patternModels)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(patternModels) == 0 {
		return nil, nil
	}
	return patternModels[0].ToEntity(), nil
}

// FindActive retrieves the tenant's active patterns, most used first.
func (r *patternRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]*entity.ReconciliationPattern, error) {
	var patternModels []model.ReconciliationPatternModel
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Order("times_used DESC, confidence DESC, created_at ASC, id ASC").
		Find(&patternModels)
	if result.Error != nil {
		return nil, result.Error
	}

	patterns := make([]*entity.ReconciliationPattern, len(patternModels))
	for i := range patternModels {
		patterns[i] = patternModels[i].ToEntity()
	}
	return patterns, nil
}

// ListEvents retrieves the audit trail of a pattern, oldest first.
func (r *patternRepository) ListEvents(ctx context.Context, tenantID, patternID uuid.UUID) ([]*entity.PatternEvent, error) {
	var eventModels []model.PatternEventModel
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND pattern_id = ?", tenantID, patternID).
		Order("occurred_at ASC, version ASC").
		Find(&eventModels)
	if result.Error != nil {
		return nil, result.Error
	}

	events := make([]*entity.PatternEvent, len(eventModels))
	for i := range eventModels {
		events[i] = eventModels[i].ToEntity()
	}
	return events, nil
}

// isUniqueViolation recognizes duplicate key errors from lib/pq and from drivers
// whose errors gorm translates.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
