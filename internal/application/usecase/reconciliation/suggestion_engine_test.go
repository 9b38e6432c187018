package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/decor-finance/backend/internal/domain/entity"
	domainerror "github.com/decor-finance/backend/internal/domain/error"
	"github.com/decor-finance/backend/internal/domain/valueobject"
	"github.com/decor-finance/backend/internal/integration/persistence"
)

func newTestEngine(candidates *fakeCandidateRepo) *SuggestionEngine {
	store := NewPatternStore(persistence.NewInMemoryPatternRepository(), newFakeClock(), 2)
	return NewSuggestionEngine(store, NewCandidateProviders(candidates, ProviderLimits{})...)
}

func TestSuggestionEngine_SuggestCandidates(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	maria := newInstallment(tenantID, "Maria Oliveira", 1000, 2)
	joao := newInstallment(tenantID, "João da Silva", 1000, 5)
	carla := newInstallment(tenantID, "Carla Mendes", 5000, 1)
	paid := newInstallment(tenantID, "Maria Oliveira", 1000, 0)
	paid.Status = entity.InstallmentStatusPaid
	supplier := newPayable(tenantID, "Tecidos Alfa Ltda", 1000)

	t.Run("credit ranks receivables and skips payables", func(t *testing.T) {
		engine := newTestEngine(&fakeCandidateRepo{
			installments: []*entity.ReceivableInstallment{carla, joao, maria, paid},
			payables:     []*entity.Payable{supplier},
		})

		result := engine.SuggestCandidates(ctx, newCreditMovement(tenantID, "TRANSFERENCIA CLIENTE MARIA", 1000))

		if len(result.Failures) != 0 {
			t.Fatalf("unexpected failures: %v", result.Failures)
		}
		if len(result.Payables) != 0 {
			t.Errorf("expected no payables for a credit, got %d", len(result.Payables))
		}
		if len(result.Receivables) != 2 {
			t.Fatalf("expected 2 receivables, got %d", len(result.Receivables))
		}

		first, second := result.Receivables[0], result.Receivables[1]
		if first.Candidate.ID != maria.ID || first.Result.CompositeScore != 80 {
			t.Errorf("expected Maria first with 80, got %s with %d", first.Candidate.DisplayName, first.Result.CompositeScore)
		}
		if second.Candidate.ID != joao.ID || second.Result.CompositeScore != 60 {
			t.Errorf("expected João second with 60, got %s with %d", second.Candidate.DisplayName, second.Result.CompositeScore)
		}
		if first.Result.Tier != valueobject.ConfidenceMedium {
			t.Errorf("expected medium tier, got %s", first.Result.Tier)
		}
	})

	t.Run("debit ranks payables and skips receivables", func(t *testing.T) {
		engine := newTestEngine(&fakeCandidateRepo{
			installments: []*entity.ReceivableInstallment{maria},
			payables:     []*entity.Payable{supplier},
		})

		result := engine.SuggestCandidates(ctx, newDebitMovement(tenantID, "TED TECIDOS ALFA", 1000))

		if len(result.Receivables) != 0 {
			t.Errorf("expected no receivables for a debit, got %d", len(result.Receivables))
		}
		if len(result.Payables) != 1 || result.Payables[0].Candidate.ID != supplier.ID {
			t.Fatalf("expected the supplier payable, got %+v", result.Payables)
		}
		if result.Payables[0].Result.Tier != valueobject.ConfidenceHigh {
			t.Errorf("expected high tier, got %s", result.Payables[0].Result.Tier)
		}
	})

	t.Run("quotes are offered in both directions", func(t *testing.T) {
		quote := newQuote(tenantID, "ORC-2024-015", "Maria Oliveira", 3200)
		engine := newTestEngine(&fakeCandidateRepo{quotes: []*entity.Quote{quote}})

		credit := engine.SuggestCandidates(ctx, newCreditMovement(tenantID, "PIX ORC-2024-015", 3200))
		debit := engine.SuggestCandidates(ctx, newDebitMovement(tenantID, "ESTORNO ORC-2024-015", 3200))

		for name, result := range map[string]CandidateSuggestions{"credit": credit, "debit": debit} {
			if len(result.Quotes) != 1 {
				t.Fatalf("%s: expected 1 quote, got %d", name, len(result.Quotes))
			}
			if result.Quotes[0].Result.TextScore != 100 {
				t.Errorf("%s: expected quote reference to score 100, got %d", name, result.Quotes[0].Result.TextScore)
			}
			if result.Quotes[0].Result.MatchReasons[0] != valueobject.ReasonQuoteReference {
				t.Errorf("%s: expected quote reference reason, got %v", name, result.Quotes[0].Result.MatchReasons)
			}
		}
	})

	t.Run("failing provider does not hide others", func(t *testing.T) {
		engine := newTestEngine(&fakeCandidateRepo{
			installments: []*entity.ReceivableInstallment{maria},
			quoteErr:     errors.New("connection reset"),
		})

		result := engine.SuggestCandidates(ctx, newCreditMovement(tenantID, "PIX MARIA OLIVEIRA", 1000))

		if len(result.Receivables) != 1 {
			t.Errorf("expected receivables to be returned, got %d", len(result.Receivables))
		}
		if _, ok := result.Failures[entity.CandidateKindQuote]; !ok {
			t.Error("expected the quote failure to be recorded")
		}
		if result.Quotes == nil || len(result.Quotes) != 0 {
			t.Error("expected an empty quote list")
		}
	})

	t.Run("receivables are capped at five", func(t *testing.T) {
		installments := make([]*entity.ReceivableInstallment, 0, 7)
		for i := 0; i < 7; i++ {
			installments = append(installments, newInstallment(tenantID, fmt.Sprintf("Cliente %d", i), 1000, 6-i))
		}
		engine := newTestEngine(&fakeCandidateRepo{installments: installments})

		result := engine.SuggestCandidates(ctx, newCreditMovement(tenantID, "DEPOSITO 1000", 1000))

		if len(result.Receivables) != 5 {
			t.Fatalf("expected 5 receivables, got %d", len(result.Receivables))
		}
		for i := 1; i < len(result.Receivables); i++ {
			prev, cur := result.Receivables[i-1].Candidate, result.Receivables[i].Candidate
			if cur.ReferenceDate.Before(prev.ReferenceDate) {
				t.Error("expected ties to be ordered by earliest due date")
			}
		}
	})

	t.Run("malformed movement yields empty result", func(t *testing.T) {
		engine := newTestEngine(&fakeCandidateRepo{installments: []*entity.ReceivableInstallment{maria}})

		for name, movement := range map[string]*entity.BankMovement{
			"nil":   nil,
			"empty": {ID: uuid.New(), TenantID: tenantID},
		} {
			result := engine.SuggestCandidates(ctx, movement)
			if len(result.Receivables)+len(result.Payables)+len(result.Quotes) != 0 {
				t.Errorf("%s: expected no suggestions", name)
			}
		}
	})

	t.Run("movement missing a required field is skipped", func(t *testing.T) {
		engine := newTestEngine(&fakeCandidateRepo{installments: []*entity.ReceivableInstallment{maria}})

		tests := []struct {
			name   string
			mutate func(m *entity.BankMovement)
		}{
			{"missing description", func(m *entity.BankMovement) { m.Description = "" }},
			{"missing amount", func(m *entity.BankMovement) { m.Amount = decimal.Zero }},
			{"missing date", func(m *entity.BankMovement) { m.MovementDate = time.Time{} }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				movement := newCreditMovement(tenantID, "PIX MARIA OLIVEIRA", 1000)
				if got := engine.SuggestCandidates(ctx, movement); len(got.Receivables) != 1 {
					t.Fatalf("expected the complete movement to match, got %d", len(got.Receivables))
				}

				tt.mutate(movement)
				result := engine.SuggestCandidates(ctx, movement)
				if len(result.Receivables)+len(result.Payables)+len(result.Quotes) != 0 {
					t.Errorf("expected no suggestions, got %d", len(result.Receivables)+len(result.Payables)+len(result.Quotes))
				}
			})
		}
	})
}

func TestRankCandidates(t *testing.T) {
	tenantID := uuid.New()
	movement := newCreditMovement(tenantID, "PIX MARIA OLIVEIRA", 1000)

	candidates := []entity.Candidate{
		{Kind: entity.CandidateKindReceivable, ID: uuid.New(), DisplayName: "Fornecedor Beta", Amount: decimal.NewFromInt(9000), ReferenceDate: testDay},
		{Kind: entity.CandidateKindReceivable, ID: uuid.New(), DisplayName: "Maria Oliveira", Amount: decimal.NewFromInt(1000), ReferenceDate: testDay},
		{Kind: entity.CandidateKindReceivable, ID: uuid.New(), DisplayName: "Outro Cliente", Amount: decimal.NewFromInt(1000), ReferenceDate: testDay},
	}

	ranked := RankCandidates(movement, candidates, valueobject.InstallmentProfile())

	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked candidates, got %d", len(ranked))
	}
	if ranked[0].Candidate.DisplayName != "Maria Oliveira" || ranked[0].Result.CompositeScore != 100 {
		t.Errorf("expected Maria Oliveira with 100, got %s with %d", ranked[0].Candidate.DisplayName, ranked[0].Result.CompositeScore)
	}
	for _, s := range ranked {
		if s.Result.CompositeScore < valueobject.InstallmentProfile().MinScore {
			t.Errorf("candidate %s below the floor was kept", s.Candidate.DisplayName)
		}
	}
}

func TestSuggestionEngine_Explain(t *testing.T) {
	tenantID := uuid.New()
	engine := newTestEngine(&fakeCandidateRepo{})

	movement := newCreditMovement(tenantID, "PIX JOAO DA SILVA", 1000)
	candidate := newInstallment(tenantID, "João da Silva", 1000, 0).ToCandidate()

	result := engine.Explain(movement, candidate)

	if result.CompositeScore != 100 {
		t.Errorf("expected composite 100, got %d", result.CompositeScore)
	}
	if result.Tier != valueobject.ConfidenceHigh {
		t.Errorf("expected high tier, got %s", result.Tier)
	}
	want := []string{valueobject.ReasonNameMatch, valueobject.ReasonExactValue, valueobject.ReasonCloseDate}
	if fmt.Sprint(result.MatchReasons) != fmt.Sprint(want) {
		t.Errorf("expected reasons %v, got %v", want, result.MatchReasons)
	}
}

func TestSuggestionEngine_SuggestPattern_IncompleteMovement(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	engine := newTestEngine(&fakeCandidateRepo{})
	reinforce(t, engine.Patterns(), tenantID, "PIX MARIA OLIVEIRA", entity.ReconciliationTypeReceivable)

	complete := newCreditMovement(tenantID, "PIX MARIA OLIVEIRA", 1000)
	suggestions, err := engine.SuggestPattern(ctx, complete)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion for the complete movement, got %d", len(suggestions))
	}

	tests := []struct {
		name   string
		mutate func(m *entity.BankMovement)
	}{
		{"missing amount", func(m *entity.BankMovement) { m.Amount = decimal.Zero }},
		{"missing date", func(m *entity.BankMovement) { m.MovementDate = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movement := newCreditMovement(tenantID, "PIX MARIA OLIVEIRA", 1000)
			tt.mutate(movement)
			suggestions, err := engine.SuggestPattern(ctx, movement)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(suggestions) != 0 {
				t.Errorf("expected no suggestions, got %d", len(suggestions))
			}
		})
	}
}

type skewedProvider struct {
	CandidateProvider
}

func (skewedProvider) Profile() valueobject.ScoringProfile {
	p := valueobject.PayableProfile()
	p.TextWeight = 0.9
	return p
}

func TestValidateProfiles(t *testing.T) {
	providers := NewCandidateProviders(&fakeCandidateRepo{}, ProviderLimits{})
	if err := ValidateProfiles(providers); err != nil {
		t.Fatalf("expected built-in profiles to be valid, got %v", err)
	}

	broken := append(providers, skewedProvider{CandidateProvider: providers[1]})
	err := ValidateProfiles(broken)
	if !errors.Is(err, domainerror.ErrInvalidScoringProfile) {
		t.Errorf("expected ErrInvalidScoringProfile, got %v", err)
	}
}
