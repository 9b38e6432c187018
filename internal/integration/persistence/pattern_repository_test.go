package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/decor-finance/backend/internal/application/adapter"
	"github.com/decor-finance/backend/internal/domain/entity"
	domainerror "github.com/decor-finance/backend/internal/domain/error"
)

// patternRepositoryContract runs the same behaviour against every PatternRepository.
func patternRepositoryContract(t *testing.T, newRepo func(t *testing.T) adapter.PatternRepository) {
	ctx := context.Background()
	tenantID := uuid.New()
	now := testDay.Add(9 * time.Hour)

	create := func(t *testing.T, repo adapter.PatternRepository, fragment string, at time.Time) *entity.ReconciliationPattern {
		t.Helper()
		p := entity.NewReconciliationPattern(tenantID, fragment, entity.ReconciliationTypeReceivable, nil, nil, at)
		if err := repo.Create(ctx, p, entity.NewPatternEvent(p, entity.PatternActionCreated, at)); err != nil {
			t.Fatalf("unexpected create error: %v", err)
		}
		return p
	}

	t.Run("duplicate active fragment conflicts", func(t *testing.T) {
		repo := newRepo(t)
		create(t, repo, "maria oliveira", now)

		dup := entity.NewReconciliationPattern(tenantID, "maria oliveira", entity.ReconciliationTypeReceivable, nil, nil, now)
		err := repo.Create(ctx, dup, entity.NewPatternEvent(dup, entity.PatternActionCreated, now))
		if !errors.Is(err, domainerror.ErrPatternConflict) {
			t.Errorf("expected ErrPatternConflict, got %v", err)
		}

		other := entity.NewReconciliationPattern(tenantID, "maria oliveira", entity.ReconciliationTypeQuote, nil, nil, now)
		if err := repo.Create(ctx, other, nil); err != nil {
			t.Errorf("expected a different type to be allowed, got %v", err)
		}
	})

	t.Run("deactivated fragment can be learned again", func(t *testing.T) {
		repo := newRepo(t)
		p := create(t, repo, "tecidos alfa", now)
		p.Deactivate(now.Add(time.Minute))
		if err := repo.Update(ctx, p, entity.NewPatternEvent(p, entity.PatternActionDeactivated, now.Add(time.Minute))); err != nil {
			t.Fatalf("unexpected update error: %v", err)
		}

		found, err := repo.FindActiveByFragment(ctx, tenantID, "tecidos alfa", entity.ReconciliationTypeReceivable)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if found != nil {
			t.Error("expected no active pattern")
		}

		create(t, repo, "tecidos alfa", now.Add(2*time.Minute))

		stored, err := repo.FindByID(ctx, tenantID, p.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stored.Active || stored.DeactivatedAt == nil {
			t.Error("expected the old pattern to stay inactive")
		}
	})

	t.Run("active patterns in evaluation order", func(t *testing.T) {
		repo := newRepo(t)
		first := create(t, repo, "aluguel loja", now)
		second := create(t, repo, "energia eletrica", now.Add(time.Second))
		third := create(t, repo, "internet fibra", now.Add(2*time.Second))

		third.Reinforce(nil, nil, now.Add(time.Minute))
		if err := repo.Update(ctx, third, entity.NewPatternEvent(third, entity.PatternActionReinforced, now.Add(time.Minute))); err != nil {
			t.Fatalf("unexpected update error: %v", err)
		}

		patterns, err := repo.FindActive(ctx, tenantID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(patterns) != 3 {
			t.Fatalf("expected 3 patterns, got %d", len(patterns))
		}
		want := []uuid.UUID{third.ID, first.ID, second.ID}
		for i, p := range patterns {
			if p.ID != want[i] {
				t.Errorf("position %d: expected %q, got %q", i, want[i], p.DescriptionFragment)
			}
		}

		others, err := repo.FindActive(ctx, uuid.New())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(others) != 0 {
			t.Errorf("expected no patterns for another tenant, got %d", len(others))
		}
	})

	t.Run("events are kept in order", func(t *testing.T) {
		repo := newRepo(t)
		p := create(t, repo, "maria oliveira", now)
		p.Reinforce(nil, nil, now.Add(time.Minute))
		if err := repo.Update(ctx, p, entity.NewPatternEvent(p, entity.PatternActionReinforced, now.Add(time.Minute))); err != nil {
			t.Fatalf("unexpected update error: %v", err)
		}

		events, err := repo.ListEvents(ctx, tenantID, p.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("expected 2 events, got %d", len(events))
		}
		if events[0].Action != entity.PatternActionCreated || events[1].Action != entity.PatternActionReinforced {
			t.Errorf("unexpected actions: %s, %s", events[0].Action, events[1].Action)
		}
		if events[1].TimesUsed != 2 || events[1].Confidence != 55 {
			t.Errorf("expected snapshot of the reinforced pattern, got %+v", events[1])
		}
	})

	t.Run("unknown pattern", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.FindByID(ctx, tenantID, uuid.New())
		if !errors.Is(err, domainerror.ErrPatternNotFound) {
			t.Errorf("expected ErrPatternNotFound, got %v", err)
		}
	})
}

func TestPatternRepository(t *testing.T) {
	patternRepositoryContract(t, func(t *testing.T) adapter.PatternRepository {
		return NewPatternRepository(newTestDB(t))
	})
}

func TestInMemoryPatternRepository(t *testing.T) {
	patternRepositoryContract(t, func(t *testing.T) adapter.PatternRepository {
		return NewInMemoryPatternRepository()
	})
}

func TestPatternRepository_InterleavedReinforcementsLastWriteWins(t *testing.T) {
	ctx := context.Background()
	repo := NewPatternRepository(newTestDB(t))
	now := testDay

	p := entity.NewReconciliationPattern(uuid.New(), "maria oliveira", entity.ReconciliationTypeReceivable, nil, nil, now)
	if err := repo.Create(ctx, p, entity.NewPatternEvent(p, entity.PatternActionCreated, now)); err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	// Both writers read version 1 before either saves.
	first := *p
	second := *p

	first.Reinforce(nil, nil, now.Add(time.Minute))
	if err := repo.Update(ctx, &first, entity.NewPatternEvent(&first, entity.PatternActionReinforced, now.Add(time.Minute))); err != nil {
		t.Fatalf("unexpected error on first update: %v", err)
	}

	categoryID := uuid.New()
	second.Reinforce(&categoryID, nil, now.Add(2*time.Minute))
	if err := repo.Update(ctx, &second, entity.NewPatternEvent(&second, entity.PatternActionReinforced, now.Add(2*time.Minute))); err != nil {
		t.Fatalf("unexpected error on second update: %v", err)
	}

	stored, err := repo.FindByID(ctx, p.TenantID, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.CategoryID == nil || *stored.CategoryID != categoryID {
		t.Error("expected the second write to win")
	}
	if stored.TimesUsed != 2 || !stored.LastUsedAt.Equal(now.Add(2*time.Minute)) {
		t.Errorf("expected state of the last write, got timesUsed=%d lastUsedAt=%s", stored.TimesUsed, stored.LastUsedAt)
	}

	events, err := repo.ListEvents(ctx, p.TenantID, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 events, got %d", len(events))
	}
}

func TestPatternRepository_UpdateUnknownPattern(t *testing.T) {
	repo := NewPatternRepository(newTestDB(t))

	p := entity.NewReconciliationPattern(uuid.New(), "maria oliveira", entity.ReconciliationTypeReceivable, nil, nil, testDay)
	err := repo.Update(context.Background(), p, nil)
	if !errors.Is(err, domainerror.ErrPatternNotFound) {
		t.Errorf("expected ErrPatternNotFound, got %v", err)
	}
}
