package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/decor-finance/backend/internal/domain/entity"
	domainerror "github.com/decor-finance/backend/internal/domain/error"
)

func TestMovementRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewMovementRepository(db)

	tenantID := uuid.New()
	older := movementModel(tenantID, "PIX RECEBIDO MARIA OLIVEIRA", 1000, 5)
	newer := movementModel(tenantID, "TED TECIDOS ALFA", -850, 1)
	ignored := movementModel(tenantID, "ESTORNO", 10, 3)
	ignored.Ignored = true
	foreign := movementModel(uuid.New(), "PIX JOAO", 300, 2)
	seed(t, db, newer, older, ignored, foreign)

	t.Run("FindByID is scoped to the tenant", func(t *testing.T) {
		movement, err := repo.FindByID(ctx, tenantID, older.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if movement.Description != older.Description || !movement.Amount.Equal(older.Amount) {
			t.Errorf("unexpected movement: %+v", movement)
		}
		if movement.Direction != entity.DirectionCredit {
			t.Errorf("expected credit, got %s", movement.Direction)
		}

		_, err = repo.FindByID(ctx, tenantID, foreign.ID)
		if !errors.Is(err, domainerror.ErrMovementNotFound) {
			t.Errorf("expected ErrMovementNotFound, got %v", err)
		}
	})

	t.Run("FindPending returns oldest first without ignored", func(t *testing.T) {
		movements, err := repo.FindPending(ctx, tenantID, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(movements) != 2 {
			t.Fatalf("expected 2 pending movements, got %d", len(movements))
		}
		if movements[0].ID != older.ID || movements[1].ID != newer.ID {
			t.Error("expected movements ordered by date")
		}

		limited, err := repo.FindPending(ctx, tenantID, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(limited) != 1 {
			t.Errorf("expected limit to apply, got %d", len(limited))
		}
	})

	t.Run("FindByIDs skips other tenants", func(t *testing.T) {
		movements, err := repo.FindByIDs(ctx, tenantID, []uuid.UUID{older.ID, foreign.ID, uuid.New()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(movements) != 1 || movements[0].ID != older.ID {
			t.Errorf("expected only the tenant movement, got %d", len(movements))
		}
	})

	t.Run("MarkReconciled applies once", func(t *testing.T) {
		movement, err := repo.FindByID(ctx, tenantID, newer.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		recordID := uuid.New()
		kind := entity.CandidateKindPayable
		movement.MarkReconciled(entity.ReconciliationLink{
			Type:     entity.ReconciliationTypePayable,
			Kind:     &kind,
			RecordID: &recordID,
		}, testDay)

		if err := repo.MarkReconciled(ctx, movement); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		stored, err := repo.FindByID(ctx, tenantID, newer.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !stored.Reconciled || stored.LinkedRecordID == nil || *stored.LinkedRecordID != recordID {
			t.Errorf("expected the link to be stored, got %+v", stored)
		}
		if stored.ReconciliationType == nil || *stored.ReconciliationType != entity.ReconciliationTypePayable {
			t.Error("expected the reconciliation type to be stored")
		}

		err = repo.MarkReconciled(ctx, movement)
		if !errors.Is(err, domainerror.ErrMovementAlreadyReconciled) {
			t.Errorf("expected ErrMovementAlreadyReconciled, got %v", err)
		}
	})
}
