// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/decor-finance/backend/internal/application/adapter"
	"github.com/decor-finance/backend/internal/domain/entity"
	domainerror "github.com/decor-finance/backend/internal/domain/error"
	"github.com/decor-finance/backend/internal/integration/persistence/model"
)

// movementRepository implements the adapter.MovementRepository interface.
type movementRepository struct {
	db *gorm.DB
}

// NewMovementRepository creates a new bank movement repository instance.
func NewMovementRepository(db *gorm.DB) adapter.MovementRepository {
	return &movementRepository{
		db: db,
	}
}

// FindByID retrieves a tenant's bank movement by its ID.
func (r *movementRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.BankMovement, error) {
	var movementModel model.BankMovementModel
	result := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&movementModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrMovementNotFound
		}
		return nil, result.Error
	}
	return movementModel.ToEntity(), nil
}

// FindByIDs retrieves a tenant's bank movements, ordered by date then ID.
// Unknown IDs are skipped.
func (r *movementRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*entity.BankMovement, error) {
	if len(ids) == 0 {
		return []*entity.BankMovement{}, nil
	}

	var movementModels []model.BankMovementModel
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Order("movement_date ASC, id ASC").
		Find(&movementModels)
	if result.Error != nil {
		return nil, result.Error
	}

	return toMovementEntities(movementModels), nil
}

// FindPending retrieves movements that are neither reconciled nor ignored, oldest first.
func (r *movementRepository) FindPending(ctx context.Context, tenantID uuid.UUID, limit int) ([]*entity.BankMovement, error) {
	var movementModels []model.BankMovementModel
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND reconciled = ? AND ignored = ?", tenantID, false, false).
		Order("movement_date ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&movementModels).Error; err != nil {
		return nil, err
	}

	return toMovementEntities(movementModels), nil
}

// MarkReconciled persists the reconciliation link of a movement.
// The update only applies while the movement is still unreconciled.
func (r *movementRepository) MarkReconciled(ctx context.Context, movement *entity.BankMovement) error {
	m := model.BankMovementFromEntity(movement)
	result := r.db.WithContext(ctx).
		Model(&model.BankMovementModel{}).
		Where("id = ? AND tenant_id = ? AND reconciled = ?", movement.ID, movement.TenantID, false).
		Updates(map[string]interface{}{
			"reconciled":          true,
			"reconciliation_type": m.ReconciliationType,
			"linked_kind":         m.LinkedKind,
			"linked_record_id":    m.LinkedRecordID,
			"pattern_id":          m.PatternID,
			"reconciled_at":       m.ReconciledAt,
			"updated_at":          m.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrMovementAlreadyReconciled
	}
	return nil
}

func toMovementEntities(models []model.BankMovementModel) []*entity.BankMovement {
	movements := make([]*entity.BankMovement, len(models))
	for i := range models {
		movements[i] = models[i].ToEntity()
	}
	return movements
}
