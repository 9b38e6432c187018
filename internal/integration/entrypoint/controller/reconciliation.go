// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/decor-finance/backend/internal/application/usecase/reconciliation"
	"github.com/decor-finance/backend/internal/domain/entity"
	domainerror "github.com/decor-finance/backend/internal/domain/error"
	"github.com/decor-finance/backend/internal/integration/entrypoint/dto"
	"github.com/decor-finance/backend/internal/integration/entrypoint/middleware"
)

// ReconciliationController handles reconciliation endpoints.
type ReconciliationController struct {
	suggestCandidatesUseCase *reconciliation.SuggestCandidatesUseCase
	suggestPatternsUseCase   *reconciliation.SuggestPatternsUseCase
	explainMatchUseCase      *reconciliation.ExplainMatchUseCase
	confirmMatchUseCase      *reconciliation.ConfirmMatchUseCase
	detectAutoMatchesUseCase *reconciliation.DetectAutoMatchesUseCase
	listPatternsUseCase      *reconciliation.ListPatternsUseCase
	rejectSuggestionUseCase  *reconciliation.RejectSuggestionUseCase
	patternHistoryUseCase    *reconciliation.GetPatternHistoryUseCase
}

// NewReconciliationController creates a new reconciliation controller instance.
func NewReconciliationController(
	suggestCandidatesUseCase *reconciliation.SuggestCandidatesUseCase,
	suggestPatternsUseCase *reconciliation.SuggestPatternsUseCase,
	explainMatchUseCase *reconciliation.ExplainMatchUseCase,
	confirmMatchUseCase *reconciliation.ConfirmMatchUseCase,
	detectAutoMatchesUseCase *reconciliation.DetectAutoMatchesUseCase,
	listPatternsUseCase *reconciliation.ListPatternsUseCase,
	rejectSuggestionUseCase *reconciliation.RejectSuggestionUseCase,
	patternHistoryUseCase *reconciliation.GetPatternHistoryUseCase,
) *ReconciliationController {
	return &ReconciliationController{
		suggestCandidatesUseCase: suggestCandidatesUseCase,
		suggestPatternsUseCase:   suggestPatternsUseCase,
		explainMatchUseCase:      explainMatchUseCase,
		confirmMatchUseCase:      confirmMatchUseCase,
		detectAutoMatchesUseCase: detectAutoMatchesUseCase,
		listPatternsUseCase:      listPatternsUseCase,
		rejectSuggestionUseCase:  rejectSuggestionUseCase,
		patternHistoryUseCase:    patternHistoryUseCase,
	}
}

// GetSuggestions handles GET /reconciliation/movements/:id/suggestions requests.
func (c *ReconciliationController) GetSuggestions(ctx *gin.Context) {
	tenantID, movementID, ok := c.movementRequest(ctx)
	if !ok {
		return
	}

	output, err := c.suggestCandidatesUseCase.Execute(ctx.Request.Context(), reconciliation.SuggestCandidatesInput{
		TenantID:   tenantID,
		MovementID: movementID,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	unavailable := make([]string, 0, len(output.Suggestions.Failures))
	for kind := range output.Suggestions.Failures {
		unavailable = append(unavailable, string(kind))
	}
	sort.Strings(unavailable)

	ctx.JSON(http.StatusOK, dto.SuggestionsResponseDTO{
		Movement:    dto.ToMovementDTO(output.Movement),
		Receivables: dto.ToSuggestionDTOs(output.Suggestions.Receivables),
		Payables:    dto.ToSuggestionDTOs(output.Suggestions.Payables),
		Quotes:      dto.ToSuggestionDTOs(output.Suggestions.Quotes),
		Unavailable: unavailable,
	})
}

// GetPatternSuggestions handles GET /reconciliation/movements/:id/pattern-suggestions requests.
func (c *ReconciliationController) GetPatternSuggestions(ctx *gin.Context) {
	tenantID, movementID, ok := c.movementRequest(ctx)
	if !ok {
		return
	}

	output, err := c.suggestPatternsUseCase.Execute(ctx.Request.Context(), reconciliation.SuggestPatternsInput{
		TenantID:   tenantID,
		MovementID: movementID,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	suggestions := make([]dto.PatternSuggestionDTO, len(output.Suggestions))
	for i, s := range output.Suggestions {
		suggestions[i] = dto.PatternSuggestionDTO{
			Pattern:  dto.ToPatternDTO(s.Pattern),
			RawScore: s.RawScore,
			Score:    s.Score,
		}
	}

	ctx.JSON(http.StatusOK, dto.PatternSuggestionsResponseDTO{
		Movement:    dto.ToMovementDTO(output.Movement),
		Suggestions: suggestions,
	})
}

// Explain handles GET /reconciliation/movements/:id/explain requests.
func (c *ReconciliationController) Explain(ctx *gin.Context) {
	tenantID, movementID, ok := c.movementRequest(ctx)
	if !ok {
		return
	}

	candidateID, err := uuid.Parse(ctx.Query("candidate_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid candidate ID format",
			Code:  string(domainerror.ErrCodeInvalidRequest),
		})
		return
	}

	output, err := c.explainMatchUseCase.Execute(ctx.Request.Context(), reconciliation.ExplainMatchInput{
		TenantID:      tenantID,
		MovementID:    movementID,
		CandidateKind: entity.CandidateKind(ctx.Query("kind")),
		CandidateID:   candidateID,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ExplainResponseDTO{
		Movement:  dto.ToMovementDTO(output.Movement),
		Candidate: dto.ToCandidateDTO(*output.Candidate),
		Score:     dto.ToScoreDTO(output.Result),
	})
}

// ConfirmMatch handles POST /reconciliation/movements/:id/confirm requests.
func (c *ReconciliationController) ConfirmMatch(ctx *gin.Context) {
	tenantID, movementID, ok := c.movementRequest(ctx)
	if !ok {
		return
	}

	var req dto.ConfirmMatchRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeInvalidRequest),
			Details: err.Error(),
		})
		return
	}

	input := reconciliation.ConfirmMatchInput{
		TenantID:   tenantID,
		MovementID: movementID,
		EntryType:  req.EntryType,
	}

	var parseErr error
	if input.CandidateID, parseErr = parseOptionalUUID(req.CandidateID); parseErr != nil {
		c.badID(ctx, "candidate_id")
		return
	}
	if input.PatternID, parseErr = parseOptionalUUID(req.PatternID); parseErr != nil {
		c.badID(ctx, "pattern_id")
		return
	}
	if input.CategoryID, parseErr = parseOptionalUUID(req.CategoryID); parseErr != nil {
		c.badID(ctx, "category_id")
		return
	}
	if req.CandidateKind != nil {
		kind := entity.CandidateKind(*req.CandidateKind)
		input.CandidateKind = &kind
	}
	if req.ReconciliationType != nil {
		t := entity.ReconciliationType(*req.ReconciliationType)
		input.ReconciliationType = &t
	}

	output, err := c.confirmMatchUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	response := dto.ConfirmMatchResponseDTO{
		Movement: dto.ToMovementDTO(output.Movement),
	}
	if output.Candidate != nil {
		candidate := dto.ToCandidateDTO(*output.Candidate)
		response.Candidate = &candidate
	}
	if output.Pattern != nil {
		pattern := dto.ToPatternDTO(output.Pattern)
		response.Pattern = &pattern
	}

	ctx.JSON(http.StatusOK, response)
}

// DetectAutoMatches handles POST /reconciliation/auto-matches requests.
func (c *ReconciliationController) DetectAutoMatches(ctx *gin.Context) {
	tenantID, ok := c.tenantFromContext(ctx)
	if !ok {
		return
	}

	// Body is optional
	var req dto.AutoMatchRequestDTO
	_ = ctx.ShouldBindJSON(&req)

	ids := make([]uuid.UUID, 0, len(req.MovementIDs))
	for _, raw := range req.MovementIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.badID(ctx, "movement_ids")
			return
		}
		ids = append(ids, id)
	}

	output, err := c.detectAutoMatchesUseCase.Execute(ctx.Request.Context(), reconciliation.DetectAutoMatchesInput{
		TenantID:    tenantID,
		MovementIDs: ids,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	matches := make([]dto.AutoMatchDTO, len(output.Matches))
	for i, m := range output.Matches {
		matches[i] = dto.AutoMatchDTO{
			MovementID:  m.Movement.ID.String(),
			Description: m.Movement.Description,
			Pattern:     dto.ToPatternDTO(m.Pattern),
			Score:       m.Score,
		}
	}

	ctx.JSON(http.StatusOK, dto.AutoMatchResponseDTO{
		Evaluated: output.Evaluated,
		Matches:   matches,
	})
}

// ListPatterns handles GET /reconciliation/patterns requests.
func (c *ReconciliationController) ListPatterns(ctx *gin.Context) {
	tenantID, ok := c.tenantFromContext(ctx)
	if !ok {
		return
	}

	output, err := c.listPatternsUseCase.Execute(ctx.Request.Context(), reconciliation.ListPatternsInput{
		TenantID: tenantID,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.PatternListResponseDTO{
		Patterns: dto.ToPatternDTOs(output.Patterns),
	})
}

// RejectPattern handles POST /reconciliation/patterns/:id/reject requests.
func (c *ReconciliationController) RejectPattern(ctx *gin.Context) {
	tenantID, patternID, ok := c.patternRequest(ctx)
	if !ok {
		return
	}

	output, err := c.rejectSuggestionUseCase.Execute(ctx.Request.Context(), reconciliation.RejectSuggestionInput{
		TenantID:  tenantID,
		PatternID: patternID,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPatternDTO(output.Pattern))
}

// GetPatternHistory handles GET /reconciliation/patterns/:id/history requests.
func (c *ReconciliationController) GetPatternHistory(ctx *gin.Context) {
	tenantID, patternID, ok := c.patternRequest(ctx)
	if !ok {
		return
	}

	output, err := c.patternHistoryUseCase.Execute(ctx.Request.Context(), reconciliation.GetPatternHistoryInput{
		TenantID:  tenantID,
		PatternID: patternID,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	events := make([]dto.PatternEventDTO, len(output.Events))
	for i, e := range output.Events {
		events[i] = dto.ToPatternEventDTO(e)
	}

	ctx.JSON(http.StatusOK, dto.PatternHistoryResponseDTO{
		PatternID: patternID.String(),
		Events:    events,
	})
}

// tenantFromContext reads the authenticated tenant, replying 401 when absent.
func (c *ReconciliationController) tenantFromContext(ctx *gin.Context) (uuid.UUID, bool) {
	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "Tenant not authenticated",
			Code:  string(domainerror.ErrCodeMissingTenant),
		})
		return uuid.Nil, false
	}
	return tenantID, true
}

func (c *ReconciliationController) movementRequest(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := c.tenantFromContext(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	movementID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid movement ID format",
			Code:  string(domainerror.ErrCodeInvalidMovementID),
		})
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, movementID, true
}

func (c *ReconciliationController) patternRequest(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := c.tenantFromContext(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	patternID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		c.badID(ctx, "id")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, patternID, true
}

func (c *ReconciliationController) badID(ctx *gin.Context, field string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "Invalid ID format",
		Code:    string(domainerror.ErrCodeInvalidRequest),
		Details: field,
	})
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// handleReconciliationError maps reconciliation errors to HTTP responses.
func (c *ReconciliationController) handleReconciliationError(ctx *gin.Context, err error) {
	var recErr *domainerror.ReconciliationError
	if errors.As(err, &recErr) {
		statusCode := c.getStatusCodeForReconciliationError(recErr.Code)
		if statusCode == http.StatusInternalServerError {
			slog.Default().Error("Reconciliation request failed",
				"path", ctx.FullPath(),
				"error", err.Error(),
			)
		}
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: recErr.Message,
			Code:  string(recErr.Code),
		})
		return
	}

	slog.Default().Error("Unexpected reconciliation error", "path", ctx.FullPath(), "error", err.Error())
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForReconciliationError maps error codes to HTTP status codes.
func (c *ReconciliationController) getStatusCodeForReconciliationError(code domainerror.ReconciliationErrorCode) int {
	switch code {
	case domainerror.ErrCodeMovementNotFound,
		domainerror.ErrCodeCandidateNotFound,
		domainerror.ErrCodePatternNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidCandidateKind,
		domainerror.ErrCodeInvalidReconciliationType,
		domainerror.ErrCodeMatchTargetRequired,
		domainerror.ErrCodeInvalidMovementID,
		domainerror.ErrCodeInvalidRequest,
		domainerror.ErrCodeTooManyMovements:
		return http.StatusBadRequest
	case domainerror.ErrCodeMovementAlreadyReconciled,
		domainerror.ErrCodePatternConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
