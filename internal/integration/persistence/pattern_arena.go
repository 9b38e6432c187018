// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/decor-finance/backend/internal/application/adapter"
	"github.com/decor-finance/backend/internal/domain/entity"
	domainerror "github.com/decor-finance/backend/internal/domain/error"
)

// InMemoryPatternRepository keeps patterns in an append-only arena indexed by ID.
// Records are never removed; deactivation only flips the active flag.
type InMemoryPatternRepository struct {
	mu       sync.RWMutex
	patterns []entity.ReconciliationPattern
	index    map[uuid.UUID]int
	events   []entity.PatternEvent
}

// NewInMemoryPatternRepository creates an empty in-memory pattern repository.
func NewInMemoryPatternRepository() *InMemoryPatternRepository {
	return &InMemoryPatternRepository{
		index: make(map[uuid.UUID]int),
	}
}

var _ adapter.PatternRepository = (*InMemoryPatternRepository)(nil)

// Create appends a new pattern to the arena.
func (r *InMemoryPatternRepository) Create(ctx context.Context, pattern *entity.ReconciliationPattern, event *entity.PatternEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[pattern.ID]; exists {
		return domainerror.ErrPatternConflict
	}
	if pattern.Active && r.activeIndex(pattern.TenantID, pattern.DescriptionFragment, pattern.ReconciliationType) >= 0 {
		return domainerror.ErrPatternConflict
	}

	r.index[pattern.ID] = len(r.patterns)
	r.patterns = append(r.patterns, *pattern)
	r.appendEvent(event)
	return nil
}

// Update overwrites the stored state of a pattern. Last write wins.
func (r *InMemoryPatternRepository) Update(ctx context.Context, pattern *entity.ReconciliationPattern, event *entity.PatternEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[pattern.ID]
	if !ok || r.patterns[i].TenantID != pattern.TenantID {
		return domainerror.ErrPatternNotFound
	}

	r.patterns[i] = *pattern
	r.appendEvent(event)
	return nil
}

// FindByID returns a copy of the pattern.
func (r *InMemoryPatternRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.ReconciliationPattern, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok || r.patterns[i].TenantID != tenantID {
		return nil, domainerror.ErrPatternNotFound
	}
	p := r.patterns[i]
	return &p, nil
}

// FindActiveByFragment returns a copy of the active pattern for the fragment and type, or nil.
func (r *InMemoryPatternRepository) FindActiveByFragment(ctx context.Context, tenantID uuid.UUID, fragment string, reconciliationType entity.ReconciliationType) (*entity.ReconciliationPattern, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.activeIndex(tenantID, fragment, reconciliationType)
	if i < 0 {
		return nil, nil
	}
	p := r.patterns[i]
	return &p, nil
}

// FindActive returns copies of the tenant's active patterns in evaluation order.
func (r *InMemoryPatternRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]*entity.ReconciliationPattern, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	active := make([]*entity.ReconciliationPattern, 0)
	for i := range r.patterns {
		if r.patterns[i].TenantID == tenantID && r.patterns[i].Active {
			p := r.patterns[i]
			active = append(active, &p)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		a, b := active[i], active[j]
		if a.TimesUsed != b.TimesUsed {
			return a.TimesUsed > b.TimesUsed
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return active, nil
}

// ListEvents returns copies of the pattern's events in insertion order.
func (r *InMemoryPatternRepository) ListEvents(ctx context.Context, tenantID, patternID uuid.UUID) ([]*entity.PatternEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]*entity.PatternEvent, 0)
	for i := range r.events {
		if r.events[i].PatternID == patternID && r.events[i].TenantID == tenantID {
			e := r.events[i]
			events = append(events, &e)
		}
	}
	return events, nil
}

// Len returns how many patterns the arena holds, active or not.
func (r *InMemoryPatternRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.patterns)
}

func (r *InMemoryPatternRepository) activeIndex(tenantID uuid.UUID, fragment string, reconciliationType entity.ReconciliationType) int {
	for i := range r.patterns {
		p := &r.patterns[i]
		if p.Active && p.TenantID == tenantID && p.DescriptionFragment == fragment && p.ReconciliationType == reconciliationType {
			return i
		}
	}
	return -1
}

func (r *InMemoryPatternRepository) appendEvent(event *entity.PatternEvent) {
	if event != nil {
		r.events = append(r.events, *event)
	}
}
