package providerhandler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"venturedesk/ai-api/internal/domain/aigateway"
	"venturedesk/ai-api/internal/infrastructure/logger"
	"venturedesk/ai-api/internal/interfaces/httpserver/dto"
	middleware "venturedesk/ai-api/internal/interfaces/httpserver/middlewares"
	"venturedesk/ai-api/internal/utils/crypto"
	"venturedesk/ai-api/internal/utils/functional"
	"venturedesk/ai-api/internal/utils/idgen"
	"venturedesk/ai-api/internal/utils/ptr"
)

// ProviderHandler implements the tenant settings flow: connect, rotate, and
// disconnect BYOK provider credentials. Every mutation invalidates the
// tenant's cached adapters so the next AI call re-validates the new state.
type ProviderHandler struct {
	configRepo aigateway.AIProviderConfigRepository
	resolver   *aigateway.Resolver
	secret     string
}

func NewProviderHandler(configRepo aigateway.AIProviderConfigRepository, resolver *aigateway.Resolver, secret string) *ProviderHandler {
	return &ProviderHandler{
		configRepo: configRepo,
		resolver:   resolver,
		secret:     secret,
	}
}

// List godoc
// @Summary List the tenant's AI provider configurations
// @Tags Providers
// @Produce json
// @Param X-Tenant-Id header string true "Tenant identifier"
// @Success 200 {array} dto.ProviderConfigResponse
// @Router /v1/ai/providers [get]
func (h *ProviderHandler) List(c *gin.Context) {
	tenantID := middleware.GetTenantIDFromContext(c)

	configs, err := h.configRepo.FindByTenant(c.Request.Context(), tenantID)
	if err != nil {
		respondInternal(c, err, "failed to list provider configurations")
		return
	}

	c.JSON(http.StatusOK, functional.Map(configs, toConfigResponse))
}

// Connect godoc
// @Summary Connect or rotate a BYOK provider credential
// @Description Stores the API key encrypted at rest and activates the provider for the tenant.
// @Tags Providers
// @Accept json
// @Produce json
// @Param X-Tenant-Id header string true "Tenant identifier"
// @Param provider path string true "Provider name (openai, anthropic, google, default)"
// @Param request body dto.ConnectProviderRequest true "Credential payload"
// @Success 200 {object} dto.ProviderConfigResponse
// @Failure 400 {object} dto.Response
// @Router /v1/ai/providers/{provider} [put]
func (h *ProviderHandler) Connect(c *gin.Context) {
	tenantID := middleware.GetTenantIDFromContext(c)

	name, ok := aigateway.ParseProviderName(c.Param("provider"))
	if !ok {
		c.JSON(http.StatusBadRequest, dto.Response{
			Success: false,
			Error:   &dto.ErrorInfo{Code: "unknown_provider", Message: "unknown provider name"},
		})
		return
	}

	var req dto.ConnectProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Response{
			Success: false,
			Error:   &dto.ErrorInfo{Code: "invalid_request", Message: err.Error()},
		})
		return
	}

	apiKey := strings.TrimSpace(req.APIKey)
	if name != aigateway.ProviderDefault && apiKey == "" {
		c.JSON(http.StatusBadRequest, dto.Response{
			Success: false,
			Error:   &dto.ErrorInfo{Code: "missing_api_key", Message: "api_key is required for BYOK providers"},
		})
		return
	}

	cfg, err := h.upsert(c, tenantID, name, apiKey, req.Metadata)
	if err != nil {
		respondInternal(c, err, "failed to store provider configuration")
		return
	}

	// Deactivate the other slots so the new provider wins resolution.
	if err := h.deactivateOthers(c, tenantID, name); err != nil {
		respondInternal(c, err, "failed to deactivate previous provider")
		return
	}

	removed := h.resolver.Invalidate(tenantID)
	log := logger.GetLogger()
	log.Info().
		Str("tenant_id", tenantID).
		Str("provider", string(name)).
		Int("invalidated_adapters", removed).
		Msg("provider credential connected")

	c.JSON(http.StatusOK, toConfigResponse(cfg))
}

// Disconnect godoc
// @Summary Disconnect a provider
// @Description Deactivates the configuration; the stored row survives for audit history.
// @Tags Providers
// @Produce json
// @Param X-Tenant-Id header string true "Tenant identifier"
// @Param provider path string true "Provider name"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /v1/ai/providers/{provider} [delete]
func (h *ProviderHandler) Disconnect(c *gin.Context) {
	tenantID := middleware.GetTenantIDFromContext(c)

	name, ok := aigateway.ParseProviderName(c.Param("provider"))
	if !ok {
		c.JSON(http.StatusBadRequest, dto.Response{
			Success: false,
			Error:   &dto.ErrorInfo{Code: "unknown_provider", Message: "unknown provider name"},
		})
		return
	}

	ctx := c.Request.Context()
	existing, err := h.findConfig(c, tenantID, name)
	if err != nil {
		respondInternal(c, err, "failed to load provider configuration")
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, dto.Response{
			Success: false,
			Error:   &dto.ErrorInfo{Code: "not_connected", Message: "provider is not connected"},
		})
		return
	}

	existing.Active = false
	if err := h.configRepo.Update(ctx, existing); err != nil {
		respondInternal(c, err, "failed to disconnect provider")
		return
	}

	removed := h.resolver.Invalidate(tenantID)
	log := logger.GetLogger()
	log.Info().
		Str("tenant_id", tenantID).
		Str("provider", string(name)).
		Int("invalidated_adapters", removed).
		Msg("provider credential disconnected")

	c.JSON(http.StatusOK, dto.Response{Success: true})
}

func (h *ProviderHandler) upsert(c *gin.Context, tenantID string, name aigateway.ProviderName, apiKey string, metadata map[string]string) (*aigateway.AIProviderConfig, error) {
	ctx := c.Request.Context()

	existing, err := h.findConfig(c, tenantID, name)
	if err != nil {
		return nil, err
	}

	var encrypted *string
	var hint *string
	if apiKey != "" {
		sealed, err := crypto.EncryptString(h.secret, apiKey)
		if err != nil {
			return nil, err
		}
		encrypted = &sealed
		hint = ptr.ToString(keyHint(apiKey))
	}

	if existing != nil {
		if encrypted != nil {
			existing.EncryptedAPIKey = encrypted
			existing.APIKeyHint = hint
		}
		if metadata != nil {
			existing.Metadata = metadata
		}
		existing.Active = true
		if err := h.configRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	publicID, err := idgen.GenerateSecureID("aipc", 12)
	if err != nil {
		return nil, err
	}

	cfg := &aigateway.AIProviderConfig{
		PublicID:        publicID,
		TenantID:        tenantID,
		ProviderName:    name,
		EncryptedAPIKey: encrypted,
		APIKeyHint:      hint,
		Active:          true,
		Metadata:        metadata,
	}
	if err := h.configRepo.Create(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (h *ProviderHandler) deactivateOthers(c *gin.Context, tenantID string, keep aigateway.ProviderName) error {
	ctx := c.Request.Context()

	active := true
	configs, err := h.configRepo.FindByFilter(ctx, aigateway.AIProviderConfigFilter{TenantID: &tenantID, Active: &active})
	if err != nil {
		return err
	}
	for _, cfg := range configs {
		if cfg.ProviderName == keep {
			continue
		}
		cfg.Active = false
		if err := h.configRepo.Update(ctx, cfg); err != nil {
			return err
		}
	}
	return nil
}

func (h *ProviderHandler) findConfig(c *gin.Context, tenantID string, name aigateway.ProviderName) (*aigateway.AIProviderConfig, error) {
	configs, err := h.configRepo.FindByFilter(c.Request.Context(), aigateway.AIProviderConfigFilter{
		TenantID:     &tenantID,
		ProviderName: &name,
	})
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return nil, nil
	}
	return configs[0], nil
}

func toConfigResponse(cfg *aigateway.AIProviderConfig) dto.ProviderConfigResponse {
	return dto.ProviderConfigResponse{
		PublicID:     cfg.PublicID,
		ProviderName: string(cfg.ProviderName),
		APIKeyHint:   cfg.APIKeyHint,
		Active:       cfg.Active,
		Metadata:     cfg.Metadata,
		CreatedAt:    cfg.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    cfg.UpdatedAt.Format(time.RFC3339),
	}
}

// keyHint exposes the credential tail the way vendor dashboards do.
func keyHint(apiKey string) string {
	if len(apiKey) <= 4 {
		return apiKey
	}
	return "..." + apiKey[len(apiKey)-4:]
}

func respondInternal(c *gin.Context, err error, message string) {
	log := logger.GetLogger()
	log.Error().Err(err).Msg(message)
	c.JSON(http.StatusInternalServerError, dto.Response{
		Success: false,
		Error:   &dto.ErrorInfo{Code: "internal", Message: message},
	})
}
