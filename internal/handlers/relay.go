package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pseudocoder/relay/internal/inference"
	"github.com/pseudocoder/relay/internal/journal"
	"github.com/pseudocoder/relay/internal/metrics"
	"github.com/pseudocoder/relay/internal/middleware"
	"github.com/pseudocoder/relay/internal/models"
	"github.com/pseudocoder/relay/internal/prompt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/pseudocoder/relay/internal/handlers")

// RelayHandler forwards generation and solving requests to the inference model
type RelayHandler struct {
	generator inference.Generator
	model     string
	logger    *zap.Logger
	metrics   *metrics.Metrics
	journal   *journal.Journal
}

// NewRelayHandler creates a new relay handler
func NewRelayHandler(generator inference.Generator, model string, logger *zap.Logger, m *metrics.Metrics, j *journal.Journal) *RelayHandler {
	return &RelayHandler{
		generator: generator,
		model:     model,
		logger:    logger,
		metrics:   m,
		journal:   j,
	}
}

// Generate converts pseudocode to code in the requested language
// @Summary Convert pseudocode to code
// @Tags relay
// @Accept json
// @Produce json
// @Param request body models.GenerationRequest true "Pseudocode and target language"
// @Success 200 {object} models.GenerationResult
// @Failure 400 {object} models.ErrorResult
// @Failure 500 {object} models.ErrorResult
// @Router /generate [post]
func (h *RelayHandler) Generate(c *gin.Context) {
	var req models.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Pseudocode) == "" {
		h.metrics.ObserveRequest(string(prompt.IntentGenerate), metrics.OutcomeInvalid)
		middleware.BadRequest(c, models.ErrPseudocodeRequired)
		return
	}

	language := req.Language
	if strings.TrimSpace(language) == "" {
		language = models.DefaultLanguage
	}

	text, ok := h.relay(c, prompt.IntentGenerate, language, prompt.Convert(language, req.Pseudocode))
	if !ok {
		middleware.InternalError(c, models.ErrGenerateFailed)
		return
	}

	c.JSON(http.StatusOK, models.GenerationResult{Code: text})
}

// Solve answers a free-text problem statement
// @Summary Solve a problem statement
// @Tags relay
// @Accept json
// @Produce json
// @Param request body models.SolveRequest true "Problem statement"
// @Success 200 {object} models.SolveResult
// @Failure 400 {object} models.ErrorResult
// @Failure 500 {object} models.ErrorResult
// @Router /solve [post]
func (h *RelayHandler) Solve(c *gin.Context) {
	var req models.SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ProblemStatement) == "" {
		h.metrics.ObserveRequest(string(prompt.IntentSolve), metrics.OutcomeInvalid)
		middleware.BadRequest(c, models.ErrProblemRequired)
		return
	}

	text, ok := h.relay(c, prompt.IntentSolve, models.FreeFormTarget, prompt.Solve(req.ProblemStatement))
	if !ok {
		middleware.InternalError(c, models.ErrSolveFailed)
		return
	}

	c.JSON(http.StatusOK, models.SolveResult{Solution: text})
}

// relay issues the single inference call for a validated request. The failure
// cause goes to the log only.
func (h *RelayHandler) relay(c *gin.Context, intent prompt.Intent, target, promptText string) (string, bool) {
	ctx, span := tracer.Start(c.Request.Context(), "relay."+string(intent))
	defer span.End()
	span.SetAttributes(
		attribute.String("relay.target", target),
		attribute.String("relay.provider", h.generator.Name()),
	)

	requestID := middleware.GetRequestID(c)
	start := time.Now()
	text, err := h.generator.Generate(ctx, promptText)
	latency := time.Since(start)

	outcome := journal.OutcomeOK
	if err != nil {
		outcome = journal.OutcomeUpstreamError
		span.RecordError(err)
		span.SetStatus(codes.Error, "inference failed")
		h.logger.Error("inference request failed",
			zap.String("intent", string(intent)),
			zap.String("target", target),
			zap.String("provider", h.generator.Name()),
			zap.String("request_id", requestID),
			zap.Duration("latency", latency),
			zap.Error(err),
		)
	}

	h.metrics.ObserveUpstream(h.generator.Name(), string(outcome), latency)
	h.metrics.ObserveRequest(string(intent), string(outcome))
	h.journal.Record(journal.Exchange{
		RequestID:    requestID,
		Intent:       string(intent),
		Target:       target,
		Provider:     h.generator.Name(),
		Model:        h.model,
		PromptLength: len(promptText),
		ResultLength: len(text),
		Outcome:      outcome,
		LatencyMs:    latency.Milliseconds(),
	})

	return text, err == nil
}
