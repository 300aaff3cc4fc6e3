package aihandler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"venturedesk/ai-api/internal/domain/aigateway"
	"venturedesk/ai-api/internal/infrastructure/logger"
	"venturedesk/ai-api/internal/infrastructure/metrics"
	"venturedesk/ai-api/internal/interfaces/httpserver/dto"
	middleware "venturedesk/ai-api/internal/interfaces/httpserver/middlewares"
)

// AIHandler serves tenant-facing generation and embedding requests.
type AIHandler struct {
	configRepo aigateway.AIProviderConfigRepository
	resolver   *aigateway.Resolver
	recorder   *aigateway.UsageRecorder
}

func NewAIHandler(
	configRepo aigateway.AIProviderConfigRepository,
	resolver *aigateway.Resolver,
	recorder *aigateway.UsageRecorder,
) *AIHandler {
	return &AIHandler{
		configRepo: configRepo,
		resolver:   resolver,
		recorder:   recorder,
	}
}

// Generate godoc
// @Summary Generate text for the calling tenant
// @Description Resolves the tenant's AI provider and runs one text generation.
// @Tags AI
// @Accept json
// @Produce json
// @Param X-Tenant-Id header string true "Tenant identifier"
// @Param request body dto.GenerateRequest true "Generation request"
// @Success 200 {object} dto.GenerateResponse
// @Failure 400 {object} dto.Response
// @Failure 502 {object} dto.Response
// @Router /v1/ai/generate [post]
func (h *AIHandler) Generate(c *gin.Context) {
	tenantID := middleware.GetTenantIDFromContext(c)

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Response{
			Success: false,
			Error:   &dto.ErrorInfo{Code: "invalid_request", Message: err.Error()},
		})
		return
	}

	adapter, err := h.resolveAdapter(c, tenantID)
	if err != nil {
		respondGatewayError(c, err)
		return
	}

	opts := aigateway.GenerateOptions{
		Model:        req.Model,
		MaxTokens:    req.MaxTokens,
		Temperature:  req.Temperature,
		SystemPrompt: req.SystemPrompt,
	}

	resp, err := adapter.GenerateText(c.Request.Context(), req.Prompt, opts)
	if err != nil {
		respondGatewayError(c, err)
		return
	}

	h.observe(c, tenantID, resp)

	c.JSON(http.StatusOK, dto.GenerateResponse{
		Content:          resp.Content,
		Provider:         string(resp.Provider),
		ModelUsed:        resp.ModelUsed,
		TokensUsed:       resp.TokensUsed,
		GenerationTimeMS: resp.GenerationTimeMS,
		Metadata:         resp.Metadata,
	})
}

// Embeddings godoc
// @Summary Generate an embedding for the calling tenant
// @Description Resolves the tenant's AI provider and embeds one text.
// @Tags AI
// @Accept json
// @Produce json
// @Param X-Tenant-Id header string true "Tenant identifier"
// @Param request body dto.EmbeddingRequest true "Embedding request"
// @Success 200 {object} dto.EmbeddingResponse
// @Failure 400 {object} dto.Response
// @Failure 502 {object} dto.Response
// @Router /v1/ai/embeddings [post]
func (h *AIHandler) Embeddings(c *gin.Context) {
	tenantID := middleware.GetTenantIDFromContext(c)

	var req dto.EmbeddingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Response{
			Success: false,
			Error:   &dto.ErrorInfo{Code: "invalid_request", Message: err.Error()},
		})
		return
	}

	adapter, err := h.resolveAdapter(c, tenantID)
	if err != nil {
		respondGatewayError(c, err)
		return
	}

	vector, err := adapter.GenerateEmbedding(c.Request.Context(), req.Text)
	if err != nil {
		respondGatewayError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.EmbeddingResponse{
		Embedding:  vector,
		Dimensions: len(vector),
		Provider:   string(adapter.Name()),
	})
}

func (h *AIHandler) resolveAdapter(c *gin.Context, tenantID string) (aigateway.Adapter, error) {
	ctx := c.Request.Context()

	configs, err := h.configRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	adapter, err := h.resolver.Resolve(ctx, tenantID, configs)
	if err != nil {
		metrics.RecordResolution(resolutionProvider(configs), "error")
		return nil, err
	}
	metrics.RecordResolution(string(adapter.Name()), "ok")
	metrics.SetAdapterCacheSize(h.resolver.CacheSize())
	return adapter, nil
}

func (h *AIHandler) observe(c *gin.Context, tenantID string, resp *aigateway.AIResponse) {
	record := aigateway.RecordFromResponse(tenantID, resp)

	metrics.RecordTokens(resp.ModelUsed, string(record.ActualProvider), record.PromptTokens, record.CompletionTokens)
	metrics.RecordGenerationDuration(resp.ModelUsed, string(record.ActualProvider), float64(resp.GenerationTimeMS)/1000)
	if record.SharedPool {
		metrics.RecordSharedPoolCall()
	}

	h.recorder.Record(c.Request.Context(), tenantID, resp)
}

func resolutionProvider(configs []*aigateway.AIProviderConfig) string {
	for _, cfg := range configs {
		if cfg != nil && cfg.Active {
			return string(cfg.ProviderName)
		}
	}
	return string(aigateway.ProviderDefault)
}

// respondGatewayError maps a GatewayError kind to an HTTP status. Internal
// faults stay opaque to the caller; actionable kinds carry a hint.
func respondGatewayError(c *gin.Context, err error) {
	log := logger.GetLogger()
	var gerr *aigateway.GatewayError
	if !errors.As(err, &gerr) {
		log.Error().Err(err).Msg("ai request failed outside the gateway error taxonomy")
		c.JSON(http.StatusInternalServerError, dto.Response{
			Success: false,
			Error:   &dto.ErrorInfo{Code: "internal", Message: "internal error"},
		})
		return
	}

	metrics.RecordGatewayError(string(gerr.Provider), string(gerr.Kind))

	status := http.StatusInternalServerError
	message := gerr.Message
	switch gerr.Kind {
	case aigateway.KindCredentialDecryption, aigateway.KindConfigurationInvalid:
		// Storage or settings-flow integrity faults; details stay in logs.
		status = http.StatusInternalServerError
		message = "provider configuration could not be loaded"
		log.Error().Err(gerr).Str("provider", string(gerr.Provider)).Msg("gateway configuration fault")
	case aigateway.KindProviderUnhealthy:
		status = http.StatusBadGateway
	case aigateway.KindCapabilityUnsupported:
		status = http.StatusBadRequest
	case aigateway.KindGenerationFailed:
		status = http.StatusBadGateway
		log.Warn().Err(gerr).Str("provider", string(gerr.Provider)).Msg("provider generation failed")
	}

	info := &dto.ErrorInfo{Code: string(gerr.Kind), Message: message}
	if hint, ok := gerr.Context["hint"].(string); ok {
		info.Hint = hint
	}

	c.JSON(status, dto.Response{Success: false, Error: info})
}
