// Package dependency provides dependency injection for the application.
package dependency

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/decor-finance/backend/config"
	"github.com/decor-finance/backend/internal/application/adapter"
	"github.com/decor-finance/backend/internal/application/usecase/reconciliation"
	"github.com/decor-finance/backend/internal/infra/server/router"
	"github.com/decor-finance/backend/internal/integration/adapters"
	"github.com/decor-finance/backend/internal/integration/cache"
	"github.com/decor-finance/backend/internal/integration/entrypoint/controller"
	"github.com/decor-finance/backend/internal/integration/entrypoint/middleware"
	"github.com/decor-finance/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Router *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil, in which case patterns are read straight from the
// database and rate limits are kept per process.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, clock adapter.Clock, healthController *controller.HealthController) (*Injector, error) {
	// Create repositories
	movementRepo := persistence.NewMovementRepository(db)
	candidateRepo := persistence.NewCandidateRepository(db)

	var patternRepo adapter.PatternRepository = persistence.NewPatternRepository(db)
	if redisClient != nil {
		patternRepo = cache.NewCachedPatternRepository(patternRepo, redisClient, cfg.Matching.PatternCacheTTL)
	}

	// Create adapters/services
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpiry)
	if clock == nil {
		clock = adapter.SystemClock{}
	}

	// Create matching engine
	patternStore := reconciliation.NewPatternStore(patternRepo, clock, cfg.Matching.AutoMatchWorkers)
	providers := reconciliation.NewCandidateProviders(candidateRepo, reconciliation.ProviderLimits{
		Receivables: cfg.Matching.ReceivableLimit,
		Payables:    cfg.Matching.PayableLimit,
		Quotes:      cfg.Matching.QuoteLimit,
	})
	if err := reconciliation.ValidateProfiles(providers); err != nil {
		return nil, fmt.Errorf("invalid scoring profile: %w", err)
	}
	engine := reconciliation.NewSuggestionEngine(patternStore, providers...)

	// Create reconciliation use cases
	suggestCandidatesUseCase := reconciliation.NewSuggestCandidatesUseCase(movementRepo, engine)
	suggestPatternsUseCase := reconciliation.NewSuggestPatternsUseCase(movementRepo, engine)
	explainMatchUseCase := reconciliation.NewExplainMatchUseCase(movementRepo, candidateRepo, engine)
	confirmMatchUseCase := reconciliation.NewConfirmMatchUseCase(movementRepo, candidateRepo, engine, clock)
	detectAutoMatchesUseCase := reconciliation.NewDetectAutoMatchesUseCase(movementRepo, engine, cfg.Matching.AutoMatchBatchSize)
	listPatternsUseCase := reconciliation.NewListPatternsUseCase(engine)
	rejectSuggestionUseCase := reconciliation.NewRejectSuggestionUseCase(engine)
	patternHistoryUseCase := reconciliation.NewGetPatternHistoryUseCase(engine)

	// Create controllers
	reconciliationController := controller.NewReconciliationController(
		suggestCandidatesUseCase,
		suggestPatternsUseCase,
		explainMatchUseCase,
		confirmMatchUseCase,
		detectAutoMatchesUseCase,
		listPatternsUseCase,
		rejectSuggestionUseCase,
		patternHistoryUseCase,
	)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	autoMatchLimit := cfg.Matching.AutoMatchRateLimit
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		autoMatchLimit = 1000
	}
	autoMatchRateLimiter := middleware.NewRateLimiterWithConfig(redisClient, "auto-match", autoMatchLimit, cfg.Matching.AutoMatchRateWindow)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(healthController, reconciliationController, autoMatchRateLimiter, authMiddleware)

	return &Injector{
		Config: cfg,
		DB:     db,
		Router: r,
	}, nil
}

