package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/decor-finance/backend/internal/domain/entity"
	domainerror "github.com/decor-finance/backend/internal/domain/error"
	"github.com/decor-finance/backend/internal/integration/persistence/model"
)

func TestCandidateRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCandidateRepository(db)

	tenantID := uuid.New()

	quote := &model.QuoteModel{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Code:        "ORC-2024-015",
		ClientName:  "Maria Oliveira",
		Title:       "Cortinas sala e quarto",
		TotalAmount: decimal.NewFromInt(3200),
		PaidAmount:  decimal.NewFromInt(1200),
		Status:      string(entity.QuoteStatusPartiallyPaid),
		CreatedAt:   testDay,
		UpdatedAt:   testDay,
	}
	draft := &model.QuoteModel{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Code:        "ORC-2024-016",
		ClientName:  "Carla Mendes",
		TotalAmount: decimal.NewFromInt(900),
		Status:      string(entity.QuoteStatusDraft),
		CreatedAt:   testDay,
		UpdatedAt:   testDay,
	}
	receivable := &model.ReceivableModel{
		ID:          uuid.New(),
		TenantID:    tenantID,
		ClientName:  "Maria Oliveira",
		Description: "Cortinas sala e quarto",
		QuoteID:     &quote.ID,
		CreatedAt:   testDay,
		UpdatedAt:   testDay,
	}
	open := &model.ReceivableInstallmentModel{
		ID:           uuid.New(),
		TenantID:     tenantID,
		ReceivableID: receivable.ID,
		Number:       2,
		Amount:       decimal.NewFromInt(1000),
		PaidAmount:   decimal.Zero,
		DueDate:      testDay.AddDate(0, 0, 30),
		Status:       string(entity.InstallmentStatusPending),
		CreatedAt:    testDay,
		UpdatedAt:    testDay,
	}
	paid := &model.ReceivableInstallmentModel{
		ID:           uuid.New(),
		TenantID:     tenantID,
		ReceivableID: receivable.ID,
		Number:       1,
		Amount:       decimal.NewFromInt(1000),
		PaidAmount:   decimal.NewFromInt(1000),
		DueDate:      testDay,
		Status:       string(entity.InstallmentStatusPaid),
		CreatedAt:    testDay,
		UpdatedAt:    testDay,
	}
	payable := &model.PayableModel{
		ID:           uuid.New(),
		TenantID:     tenantID,
		SupplierName: "Tecidos Alfa Ltda",
		Description:  "Linho cru 40m",
		Amount:       decimal.NewFromInt(850),
		DueDate:      testDay,
		Status:       string(entity.PayableStatusOverdue),
		CreatedAt:    testDay,
		UpdatedAt:    testDay,
	}
	seed(t, db, quote, draft, receivable, open, paid, payable)

	t.Run("open installments carry the receivable data", func(t *testing.T) {
		installments, err := repo.FindOpenReceivableInstallments(ctx, tenantID, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(installments) != 1 {
			t.Fatalf("expected 1 open installment, got %d", len(installments))
		}
		got := installments[0]
		if got.ClientName != "Maria Oliveira" || got.QuoteCode != "ORC-2024-015" {
			t.Errorf("expected client and quote code from the receivable, got %q and %q", got.ClientName, got.QuoteCode)
		}
	})

	t.Run("open payables", func(t *testing.T) {
		payables, err := repo.FindOpenPayables(ctx, tenantID, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(payables) != 1 || payables[0].SupplierName != "Tecidos Alfa Ltda" {
			t.Errorf("expected the overdue payable, got %+v", payables)
		}
	})

	t.Run("quotes awaiting payment", func(t *testing.T) {
		quotes, err := repo.FindOpenQuotes(ctx, tenantID, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(quotes) != 1 || quotes[0].Code != "ORC-2024-015" {
			t.Fatalf("expected only the partially paid quote, got %+v", quotes)
		}
		if !quotes[0].OpenBalance().Equal(decimal.NewFromInt(2000)) {
			t.Errorf("expected open balance 2000, got %s", quotes[0].OpenBalance())
		}
	})

	t.Run("FindCandidate", func(t *testing.T) {
		candidate, err := repo.FindCandidate(ctx, tenantID, entity.CandidateKindReceivable, open.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if candidate.Kind != entity.CandidateKindReceivable || candidate.DisplayName != "Maria Oliveira" {
			t.Errorf("unexpected candidate: %+v", candidate)
		}

		tests := []struct {
			name string
			kind entity.CandidateKind
			id   uuid.UUID
			want error
		}{
			{"closed installment", entity.CandidateKindReceivable, paid.ID, domainerror.ErrCandidateNotFound},
			{"draft quote", entity.CandidateKindQuote, draft.ID, domainerror.ErrCandidateNotFound},
			{"wrong kind", entity.CandidateKindPayable, open.ID, domainerror.ErrCandidateNotFound},
			{"other tenant", entity.CandidateKindPayable, payable.ID, domainerror.ErrCandidateNotFound},
			{"unknown kind", entity.CandidateKind("loan"), open.ID, domainerror.ErrInvalidCandidateKind},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				tenant := tenantID
				if tt.name == "other tenant" {
					tenant = uuid.New()
				}
				_, err := repo.FindCandidate(ctx, tenant, tt.kind, tt.id)
				if !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})
}
