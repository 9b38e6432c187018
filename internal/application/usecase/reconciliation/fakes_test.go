package reconciliation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/decor-finance/backend/internal/domain/entity"
	domainerror "github.com/decor-finance/backend/internal/domain/error"
)

var testDay = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

// fakeClock advances one second on every call so creation order is deterministic.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: testDay.Add(9 * time.Hour)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(time.Second)
	return t
}

type fakeMovementRepo struct {
	mu        sync.Mutex
	movements map[uuid.UUID]entity.BankMovement
	order     []uuid.UUID
	findErr   error
	markErr   error
}

func newFakeMovementRepo(movements ...*entity.BankMovement) *fakeMovementRepo {
	r := &fakeMovementRepo{movements: make(map[uuid.UUID]entity.BankMovement)}
	for _, m := range movements {
		r.add(m)
	}
	return r
}

func (r *fakeMovementRepo) add(m *entity.BankMovement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements[m.ID] = *m
	r.order = append(r.order, m.ID)
}

func (r *fakeMovementRepo) get(id uuid.UUID) entity.BankMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.movements[id]
}

func (r *fakeMovementRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.BankMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	m, ok := r.movements[id]
	if !ok || m.TenantID != tenantID {
		return nil, domainerror.ErrMovementNotFound
	}
	return &m, nil
}

func (r *fakeMovementRepo) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*entity.BankMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	result := make([]*entity.BankMovement, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.movements[id]; ok && m.TenantID == tenantID {
			result = append(result, &m)
		}
	}
	return result, nil
}

func (r *fakeMovementRepo) FindPending(ctx context.Context, tenantID uuid.UUID, limit int) ([]*entity.BankMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	result := make([]*entity.BankMovement, 0)
	for _, id := range r.order {
		m := r.movements[id]
		if m.TenantID == tenantID && m.IsPending() {
			result = append(result, &m)
		}
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (r *fakeMovementRepo) MarkReconciled(ctx context.Context, movement *entity.BankMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markErr != nil {
		return r.markErr
	}
	r.movements[movement.ID] = *movement
	return nil
}

type fakeCandidateRepo struct {
	installments   []*entity.ReceivableInstallment
	payables       []*entity.Payable
	quotes         []*entity.Quote
	installmentErr error
	payableErr     error
	quoteErr       error
}

func (r *fakeCandidateRepo) FindOpenReceivableInstallments(ctx context.Context, tenantID uuid.UUID, limit int) ([]*entity.ReceivableInstallment, error) {
	if r.installmentErr != nil {
		return nil, r.installmentErr
	}
	return r.installments, nil
}

func (r *fakeCandidateRepo) FindOpenPayables(ctx context.Context, tenantID uuid.UUID, limit int) ([]*entity.Payable, error) {
	if r.payableErr != nil {
		return nil, r.payableErr
	}
	return r.payables, nil
}

func (r *fakeCandidateRepo) FindOpenQuotes(ctx context.Context, tenantID uuid.UUID, limit int) ([]*entity.Quote, error) {
	if r.quoteErr != nil {
		return nil, r.quoteErr
	}
	return r.quotes, nil
}

func (r *fakeCandidateRepo) FindCandidate(ctx context.Context, tenantID uuid.UUID, kind entity.CandidateKind, id uuid.UUID) (*entity.Candidate, error) {
	switch kind {
	case entity.CandidateKindReceivable:
		for _, i := range r.installments {
			if i.ID == id && i.TenantID == tenantID {
				c := i.ToCandidate()
				return &c, nil
			}
		}
	case entity.CandidateKindPayable:
		for _, p := range r.payables {
			if p.ID == id && p.TenantID == tenantID {
				c := p.ToCandidate()
				return &c, nil
			}
		}
	case entity.CandidateKindQuote:
		for _, q := range r.quotes {
			if q.ID == id && q.TenantID == tenantID {
				c := q.ToCandidate()
				return &c, nil
			}
		}
	}
	return nil, domainerror.ErrCandidateNotFound
}

func newCreditMovement(tenantID uuid.UUID, description string, amount int64) *entity.BankMovement {
	return &entity.BankMovement{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Description:  description,
		Amount:       decimal.NewFromInt(amount),
		Direction:    entity.DirectionCredit,
		MovementDate: testDay,
	}
}

func newDebitMovement(tenantID uuid.UUID, description string, amount int64) *entity.BankMovement {
	return &entity.BankMovement{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Description:  description,
		Amount:       decimal.NewFromInt(-amount),
		Direction:    entity.DirectionDebit,
		MovementDate: testDay,
	}
}

func newInstallment(tenantID uuid.UUID, client string, amount int64, dueOffsetDays int) *entity.ReceivableInstallment {
	return &entity.ReceivableInstallment{
		ID:           uuid.New(),
		TenantID:     tenantID,
		ReceivableID: uuid.New(),
		Number:       1,
		ClientName:   client,
		Amount:       decimal.NewFromInt(amount),
		DueDate:      testDay.AddDate(0, 0, dueOffsetDays),
		Status:       entity.InstallmentStatusPending,
	}
}

func newPayable(tenantID uuid.UUID, supplier string, amount int64) *entity.Payable {
	return &entity.Payable{
		ID:           uuid.New(),
		TenantID:     tenantID,
		SupplierName: supplier,
		Amount:       decimal.NewFromInt(amount),
		DueDate:      testDay,
		Status:       entity.PayableStatusPending,
	}
}

func newQuote(tenantID uuid.UUID, code, client string, total int64) *entity.Quote {
	return &entity.Quote{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Code:        code,
		ClientName:  client,
		TotalAmount: decimal.NewFromInt(total),
		Status:      entity.QuoteStatusAwaitingPayment,
		UpdatedAt:   testDay,
	}
}
