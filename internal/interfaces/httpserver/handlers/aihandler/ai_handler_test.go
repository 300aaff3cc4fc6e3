package aihandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"venturedesk/ai-api/internal/domain/aigateway"
	"venturedesk/ai-api/internal/interfaces/httpserver/dto"
	middleware "venturedesk/ai-api/internal/interfaces/httpserver/middlewares"
	"venturedesk/ai-api/internal/utils/crypto"
	"venturedesk/ai-api/internal/utils/ptr"
)

const testSecret = "handler-test-secret"

type memConfigRepo struct {
	configs []*aigateway.AIProviderConfig
	err     error
}

func (m *memConfigRepo) Create(ctx context.Context, cfg *aigateway.AIProviderConfig) error {
	m.configs = append(m.configs, cfg)
	return nil
}

func (m *memConfigRepo) Update(ctx context.Context, cfg *aigateway.AIProviderConfig) error {
	return nil
}

func (m *memConfigRepo) FindByFilter(ctx context.Context, filter aigateway.AIProviderConfigFilter) ([]*aigateway.AIProviderConfig, error) {
	return m.FindByTenant(ctx, "")
}

func (m *memConfigRepo) FindByTenant(ctx context.Context, tenantID string) ([]*aigateway.AIProviderConfig, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.configs, nil
}

func (m *memConfigRepo) Count(ctx context.Context, filter aigateway.AIProviderConfigFilter) (int64, error) {
	return int64(len(m.configs)), nil
}

type memUsageRepo struct {
	records []*aigateway.AIUsageRecord
}

func (m *memUsageRepo) Create(ctx context.Context, record *aigateway.AIUsageRecord) error {
	m.records = append(m.records, record)
	return nil
}

func (m *memUsageRepo) SumTotalTokens(ctx context.Context, tenantID string, since time.Time) (int64, error) {
	return 0, nil
}

type scriptedAdapter struct {
	name      aigateway.ProviderName
	healthy   bool
	embedding []float64
	embedErr  error
}

func (a *scriptedAdapter) Name() aigateway.ProviderName { return a.name }

func (a *scriptedAdapter) GenerateText(ctx context.Context, prompt string, opts aigateway.GenerateOptions) (*aigateway.AIResponse, error) {
	content := "generated: " + prompt
	return &aigateway.AIResponse{
		Content:    &content,
		Provider:   a.name,
		ModelUsed:  "test-model",
		TokensUsed: 12,
		Metadata: map[string]any{
			aigateway.MetaPromptTokens:     8,
			aigateway.MetaCompletionTokens: 4,
		},
	}, nil
}

func (a *scriptedAdapter) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	if a.embedErr != nil {
		return nil, a.embedErr
	}
	return a.embedding, nil
}

func (a *scriptedAdapter) IsHealthy(ctx context.Context) bool { return a.healthy }

type scriptedFactory struct {
	adapters map[aigateway.ProviderName]*scriptedAdapter
	fallback *scriptedAdapter
}

func (f *scriptedFactory) NewAdapter(name aigateway.ProviderName, apiKey string) (aigateway.Adapter, error) {
	if a, ok := f.adapters[name]; ok {
		return a, nil
	}
	return nil, aigateway.NewConfigurationError(name, "no adapter registered")
}

func (f *scriptedFactory) Default() aigateway.Adapter { return f.fallback }

func newTestRouter(repo aigateway.AIProviderConfigRepository, factory aigateway.AdapterFactory, usage *memUsageRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	resolver := aigateway.NewResolver(factory, testSecret)
	handler := NewAIHandler(repo, resolver, aigateway.NewUsageRecorder(usage))

	engine := gin.New()
	group := engine.Group("/v1/ai")
	group.Use(middleware.RequireTenant())
	group.POST("/generate", handler.Generate)
	group.POST("/embeddings", handler.Embeddings)
	return engine
}

func byokConfig(t *testing.T, tenantID string, name aigateway.ProviderName) *aigateway.AIProviderConfig {
	t.Helper()
	ciphertext, err := crypto.EncryptString(testSecret, "sk-live-key")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	return &aigateway.AIProviderConfig{
		TenantID:        tenantID,
		ProviderName:    name,
		EncryptedAPIKey: &ciphertext,
		APIKeyHint:      ptr.ToString("...-key"),
		Active:          true,
	}
}

func postJSON(engine *gin.Engine, path, tenantID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if tenantID != "" {
		req.Header.Set("X-Tenant-Id", tenantID)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestGenerateWithSharedPool(t *testing.T) {
	usage := &memUsageRepo{}
	factory := &scriptedFactory{
		fallback: &scriptedAdapter{name: aigateway.ProviderDefault, healthy: true},
	}
	engine := newTestRouter(&memConfigRepo{}, factory, usage)

	w := postJSON(engine, "/v1/ai/generate", "tenant-1", `{"prompt":"write a slogan"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp dto.GenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Provider != string(aigateway.ProviderDefault) {
		t.Fatalf("expected default provider, got %s", resp.Provider)
	}
	if resp.Content == nil || !strings.Contains(*resp.Content, "write a slogan") {
		t.Fatalf("unexpected content: %v", resp.Content)
	}

	if len(usage.records) != 1 {
		t.Fatalf("expected a usage record, got %d", len(usage.records))
	}
	if usage.records[0].TenantID != "tenant-1" {
		t.Fatalf("usage attributed to wrong tenant: %s", usage.records[0].TenantID)
	}
}

func TestGenerateWithBYOKProvider(t *testing.T) {
	usage := &memUsageRepo{}
	factory := &scriptedFactory{
		adapters: map[aigateway.ProviderName]*scriptedAdapter{
			aigateway.ProviderOpenAI: {name: aigateway.ProviderOpenAI, healthy: true},
		},
		fallback: &scriptedAdapter{name: aigateway.ProviderDefault, healthy: true},
	}
	repo := &memConfigRepo{configs: []*aigateway.AIProviderConfig{byokConfig(t, "tenant-1", aigateway.ProviderOpenAI)}}
	engine := newTestRouter(repo, factory, usage)

	w := postJSON(engine, "/v1/ai/generate", "tenant-1", `{"prompt":"hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp dto.GenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Provider != string(aigateway.ProviderOpenAI) {
		t.Fatalf("expected openai, got %s", resp.Provider)
	}
}

func TestGenerateMissingTenantHeader(t *testing.T) {
	engine := newTestRouter(&memConfigRepo{}, &scriptedFactory{fallback: &scriptedAdapter{name: aigateway.ProviderDefault, healthy: true}}, &memUsageRepo{})

	w := postJSON(engine, "/v1/ai/generate", "", `{"prompt":"hello"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without tenant header, got %d", w.Code)
	}
}

func TestGenerateMissingPrompt(t *testing.T) {
	engine := newTestRouter(&memConfigRepo{}, &scriptedFactory{fallback: &scriptedAdapter{name: aigateway.ProviderDefault, healthy: true}}, &memUsageRepo{})

	w := postJSON(engine, "/v1/ai/generate", "tenant-1", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing prompt, got %d", w.Code)
	}
}

func TestGenerateUnhealthyProviderFailsClosed(t *testing.T) {
	factory := &scriptedFactory{
		adapters: map[aigateway.ProviderName]*scriptedAdapter{
			aigateway.ProviderAnthropic: {name: aigateway.ProviderAnthropic, healthy: false},
		},
		fallback: &scriptedAdapter{name: aigateway.ProviderDefault, healthy: true},
	}
	repo := &memConfigRepo{configs: []*aigateway.AIProviderConfig{byokConfig(t, "tenant-1", aigateway.ProviderAnthropic)}}
	engine := newTestRouter(repo, factory, &memUsageRepo{})

	w := postJSON(engine, "/v1/ai/generate", "tenant-1", `{"prompt":"hello"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for unhealthy provider, got %d: %s", w.Code, w.Body.String())
	}

	var resp dto.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != string(aigateway.KindProviderUnhealthy) {
		t.Fatalf("expected provider_unhealthy code, got %+v", resp.Error)
	}
	// Fail closed: the shared pool must not have answered.
	if strings.Contains(w.Body.String(), "generated:") {
		t.Fatal("unhealthy BYOK provider must not fall back to the default pool")
	}
}

func TestGenerateCorruptCiphertext(t *testing.T) {
	cfg := byokConfig(t, "tenant-1", aigateway.ProviderOpenAI)
	cfg.EncryptedAPIKey = ptr.ToString("not-base64!!!")
	factory := &scriptedFactory{
		adapters: map[aigateway.ProviderName]*scriptedAdapter{
			aigateway.ProviderOpenAI: {name: aigateway.ProviderOpenAI, healthy: true},
		},
		fallback: &scriptedAdapter{name: aigateway.ProviderDefault, healthy: true},
	}
	engine := newTestRouter(&memConfigRepo{configs: []*aigateway.AIProviderConfig{cfg}}, factory, &memUsageRepo{})

	w := postJSON(engine, "/v1/ai/generate", "tenant-1", `{"prompt":"hello"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for decryption fault, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "not-base64") {
		t.Fatal("ciphertext details must not leak to the caller")
	}
}

func TestEmbeddingsSuccess(t *testing.T) {
	factory := &scriptedFactory{
		adapters: map[aigateway.ProviderName]*scriptedAdapter{
			aigateway.ProviderOpenAI: {name: aigateway.ProviderOpenAI, healthy: true, embedding: []float64{0.5, 0.25}},
		},
		fallback: &scriptedAdapter{name: aigateway.ProviderDefault, healthy: true},
	}
	repo := &memConfigRepo{configs: []*aigateway.AIProviderConfig{byokConfig(t, "tenant-1", aigateway.ProviderOpenAI)}}
	engine := newTestRouter(repo, factory, &memUsageRepo{})

	w := postJSON(engine, "/v1/ai/embeddings", "tenant-1", `{"text":"vectorize me"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp dto.EmbeddingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Dimensions != 2 || len(resp.Embedding) != 2 {
		t.Fatalf("unexpected embedding response: %+v", resp)
	}
}

func TestEmbeddingsCapabilityUnsupported(t *testing.T) {
	factory := &scriptedFactory{
		adapters: map[aigateway.ProviderName]*scriptedAdapter{
			aigateway.ProviderAnthropic: {
				name:     aigateway.ProviderAnthropic,
				healthy:  true,
				embedErr: aigateway.NewCapabilityError(aigateway.ProviderAnthropic, "embeddings", "connect openai"),
			},
		},
		fallback: &scriptedAdapter{name: aigateway.ProviderDefault, healthy: true},
	}
	repo := &memConfigRepo{configs: []*aigateway.AIProviderConfig{byokConfig(t, "tenant-1", aigateway.ProviderAnthropic)}}
	engine := newTestRouter(repo, factory, &memUsageRepo{})

	w := postJSON(engine, "/v1/ai/embeddings", "tenant-1", `{"text":"vectorize me"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported capability, got %d", w.Code)
	}

	var resp dto.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != string(aigateway.KindCapabilityUnsupported) {
		t.Fatalf("expected capability_unsupported code, got %+v", resp.Error)
	}
	if resp.Error.Hint == "" {
		t.Fatal("expected a remediation hint")
	}
}
