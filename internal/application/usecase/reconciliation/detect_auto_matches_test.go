package reconciliation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/decor-finance/backend/internal/domain/entity"
	domainerror "github.com/decor-finance/backend/internal/domain/error"
)

func TestDetectAutoMatchesUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	engine := newTestEngine(&fakeCandidateRepo{})
	for i := 0; i < 2; i++ {
		if _, err := engine.Patterns().Reinforce(ctx, ReinforceInput{
			TenantID:           tenantID,
			Description:        "TARIFA BANCARIA MENSAL",
			ReconciliationType: entity.ReconciliationTypeExpense,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	fee := newDebitMovement(tenantID, "TARIFA BANCARIA MENSAL MARCO", 45)
	other := newCreditMovement(tenantID, "PIX MARIA OLIVEIRA", 1000)
	done := newDebitMovement(tenantID, "TARIFA BANCARIA MENSAL FEVEREIRO", 45)
	done.Reconciled = true
	foreign := newDebitMovement(uuid.New(), "TARIFA BANCARIA MENSAL", 45)

	t.Run("pending movements of the tenant", func(t *testing.T) {
		movements := newFakeMovementRepo(fee, other, done, foreign)
		uc := NewDetectAutoMatchesUseCase(movements, engine, 0)

		output, err := uc.Execute(ctx, DetectAutoMatchesInput{TenantID: tenantID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Evaluated != 2 {
			t.Errorf("expected 2 evaluated movements, got %d", output.Evaluated)
		}
		if len(output.Matches) != 1 || output.Matches[0].Movement.ID != fee.ID {
			t.Fatalf("expected the fee to match, got %+v", output.Matches)
		}
		if output.Matches[0].Pattern.ReconciliationType != entity.ReconciliationTypeExpense {
			t.Errorf("expected expense pattern, got %s", output.Matches[0].Pattern.ReconciliationType)
		}
	})

	t.Run("explicit movement IDs skip reconciled ones", func(t *testing.T) {
		movements := newFakeMovementRepo(fee, other, done)
		uc := NewDetectAutoMatchesUseCase(movements, engine, 10)

		output, err := uc.Execute(ctx, DetectAutoMatchesInput{
			TenantID:    tenantID,
			MovementIDs: []uuid.UUID{done.ID, other.ID},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Evaluated != 2 {
			t.Errorf("expected 2 evaluated movements, got %d", output.Evaluated)
		}
		if len(output.Matches) != 0 {
			t.Errorf("expected no matches, got %d", len(output.Matches))
		}
	})

	t.Run("too many movements", func(t *testing.T) {
		uc := NewDetectAutoMatchesUseCase(newFakeMovementRepo(), engine, 2)

		_, err := uc.Execute(ctx, DetectAutoMatchesInput{
			TenantID:    tenantID,
			MovementIDs: []uuid.UUID{uuid.New(), uuid.New(), uuid.New()},
		})
		if code := errorCode(err); code != domainerror.ErrCodeTooManyMovements {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeTooManyMovements, code)
		}
	})

	t.Run("repository failure", func(t *testing.T) {
		movements := newFakeMovementRepo()
		movements.findErr = errors.New("connection refused")
		uc := NewDetectAutoMatchesUseCase(movements, engine, 0)

		_, err := uc.Execute(ctx, DetectAutoMatchesInput{TenantID: tenantID})
		if code := errorCode(err); code != domainerror.ErrCodeReconciliationInternal {
			t.Errorf("expected internal error code, got %s", code)
		}
	})
}
